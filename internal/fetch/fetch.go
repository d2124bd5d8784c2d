// Package fetch provides a small re-targetable GET helper: point it at a
// URL, read back data/loading/error state, swap the URL to re-fetch.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
)

// State is a snapshot of one fetcher. Exactly one of Data and Err is set
// once Loading is false.
type State[T any] struct {
	Data    *T
	Loading bool
	Err     error
}

// Fetcher issues single-attempt GETs against its current URL and keeps the
// settled result of the most recent request. Requests are never cancelled;
// a superseded request runs to completion but its response is discarded.
// Each request carries a sequence number and only the latest issued
// sequence may commit state, so rapid SetURL calls cannot leave a stale
// response in place.
type Fetcher[T any] struct {
	client *http.Client

	mu      sync.Mutex
	url     string
	seq     uint64
	state   State[T]
	settled chan struct{}
}

// New creates a Fetcher and starts fetching url immediately.
func New[T any](client *http.Client, url string) *Fetcher[T] {
	if client == nil {
		client = http.DefaultClient
	}
	f := &Fetcher[T]{client: client}
	f.SetURL(url)
	return f
}

// SetURL re-targets the fetcher and issues a new request. Any request
// already in flight is superseded.
func (f *Fetcher[T]) SetURL(url string) {
	f.mu.Lock()
	if f.settled != nil && f.state.Loading {
		// Wake waiters of the superseded request so they pick up the
		// new settle channel.
		close(f.settled)
	}
	f.url = url
	f.seq++
	seq := f.seq
	f.state.Loading = true
	f.settled = make(chan struct{})
	f.mu.Unlock()

	go f.fetch(seq, url)
}

// State returns the current snapshot.
func (f *Fetcher[T]) State() State[T] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// URL returns the current target.
func (f *Fetcher[T]) URL() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.url
}

// Wait blocks until the most recently issued request has settled, or the
// context is done, and returns the snapshot at that point.
func (f *Fetcher[T]) Wait(ctx context.Context) State[T] {
	for {
		f.mu.Lock()
		if !f.state.Loading {
			st := f.state
			f.mu.Unlock()
			return st
		}
		ch := f.settled
		f.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return State[T]{Err: ctx.Err()}
		}
	}
}

func (f *Fetcher[T]) fetch(seq uint64, url string) {
	data, err := f.get(url)

	f.mu.Lock()
	defer f.mu.Unlock()
	// A newer request owns the state now; this response is discarded.
	if seq != f.seq {
		return
	}
	if err != nil {
		f.state = State[T]{Err: err}
	} else {
		f.state = State[T]{Data: data}
	}
	close(f.settled)
}

func (f *Fetcher[T]) get(url string) (*T, error) {
	res, err := f.client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		io.Copy(io.Discard, res.Body)
		return nil, fmt.Errorf("fetch %s: unexpected status %s", url, res.Status)
	}

	var data T
	if err := json.NewDecoder(res.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("fetch %s: decode response: %w", url, err)
	}
	return &data, nil
}
