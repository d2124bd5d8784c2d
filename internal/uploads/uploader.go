// Package uploads defines the image upload collaborator. Real storage is
// out of scope; the bundled implementation hands out ephemeral in-process
// references, mirroring browser object URLs: good for preview, gone on
// restart.
package uploads

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Uploader stores an image and returns a reference to put in the product
// record. Swap in a durable implementation (S3, CDN) for production use.
type Uploader interface {
	Upload(ctx context.Context, filename string, r io.Reader) (string, error)
}

// MemoryUploader keeps uploaded bytes in process memory and serves them
// back by name. References keep the original extension so they pass the
// image-format validation the way the original filename would.
type MemoryUploader struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewMemoryUploader creates an empty in-memory uploader.
func NewMemoryUploader() *MemoryUploader {
	return &MemoryUploader{files: make(map[string][]byte)}
}

// Upload reads the file and returns its serving path, e.g.
// "/uploads/3f2a....jpg".
func (u *MemoryUploader) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(path.Ext(filename))
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}

	name := uuid.New().String() + ext
	u.mu.Lock()
	u.files[name] = data
	u.mu.Unlock()

	return "/uploads/" + name, nil
}

// Open returns the stored bytes for a previously uploaded name.
func (u *MemoryUploader) Open(name string) ([]byte, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	data, ok := u.files[name]
	return data, ok
}
