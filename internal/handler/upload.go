package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"flock/internal/service"
)

// multipartOverhead leaves room for form boundaries around the photo.
const multipartOverhead = 1 << 20

// UploadHandler handles profile photo uploads.
type UploadHandler struct {
	uploadService *service.UploadService
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(uploadService *service.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

// UploadResponse carries the public URL of a stored photo.
type UploadResponse struct {
	PhotoURL string `json:"photoUrl"`
}

// UploadProfilePhoto handles POST /uploads/profile-photo
func (h *UploadHandler) UploadProfilePhoto(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, service.MaxPhotoBytes+multipartOverhead)

	fh, err := c.FormFile("photo")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(c, service.ErrPhotoTooLarge)
			return
		}
		respondError(c, service.ErrPhotoRequired)
		return
	}

	f, err := fh.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer f.Close()

	url, err := h.uploadService.UploadProfilePhoto(c.Request.Context(), service.PhotoUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, UploadResponse{PhotoURL: url})
}
