package handlers

import (
	"path"
	"strings"

	"warung/internal/uploads"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// UploadHandler accepts image uploads from the product form and serves
// them back for preview. The bundled uploader is ephemeral; swapping in a
// durable implementation changes nothing here.
type UploadHandler struct {
	uploader *uploads.MemoryUploader
	logger   zerolog.Logger
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(uploader *uploads.MemoryUploader, logger zerolog.Logger) *UploadHandler {
	return &UploadHandler{
		uploader: uploader,
		logger:   logger.With().Str("handler", "upload").Logger(),
	}
}

// RegisterRoutes registers the upload routes.
func (h *UploadHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/uploads", h.HandleUpload)
	router.Get("/uploads/:name", h.HandleServe)
}

// HandleUpload stores one file and returns the reference to put in the
// product record.
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Berkas tidak ditemukan pada permintaan",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to open uploaded file")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Gagal membaca berkas",
		})
	}
	defer file.Close()

	url, err := h.uploader.Upload(c.Context(), fileHeader.Filename, file)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to store upload")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Gagal menyimpan berkas",
		})
	}

	return c.JSON(fiber.Map{"url": url})
}

// HandleServe returns previously uploaded bytes for in-page preview.
func (h *UploadHandler) HandleServe(c *fiber.Ctx) error {
	name := c.Params("name")
	data, ok := h.uploader.Open(name)
	if !ok {
		return c.SendStatus(fiber.StatusNotFound)
	}

	if ext := strings.TrimPrefix(path.Ext(name), "."); ext != "" {
		c.Type(ext)
	}
	return c.Send(data)
}
