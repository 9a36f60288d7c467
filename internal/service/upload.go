package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"flock/internal/storage"
)

// MaxPhotoBytes is the largest accepted profile photo.
const MaxPhotoBytes = 5 << 20

var (
	imageExtensions = map[string]bool{
		".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
		".webp": true, ".heic": true, ".heif": true,
	}
	unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)
)

// PhotoUpload describes an incoming profile photo.
type PhotoUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// UploadService stores profile photos.
type UploadService struct {
	store storage.Store
	now   func() time.Time
}

// NewUploadService creates a new UploadService.
func NewUploadService(store storage.Store) *UploadService {
	return &UploadService{store: store, now: time.Now}
}

// UploadProfilePhoto validates and stores a photo and returns its public URL.
func (s *UploadService) UploadProfilePhoto(ctx context.Context, in PhotoUpload) (string, error) {
	if in.Body == nil || in.Filename == "" {
		return "", ErrPhotoRequired
	}
	if in.Size > MaxPhotoBytes {
		return "", ErrPhotoTooLarge
	}

	ext := strings.ToLower(filepath.Ext(in.Filename))
	if !strings.HasPrefix(strings.ToLower(in.ContentType), "image/") && !imageExtensions[ext] {
		return "", ErrPhotoNotImage
	}

	name := PhotoObjectName(in.Filename, s.now())
	url, err := s.store.Save(ctx, name, in.ContentType, io.LimitReader(in.Body, MaxPhotoBytes+1))
	if err != nil {
		return "", fmt.Errorf("save profile photo: %w", err)
	}
	return url, nil
}

// PhotoObjectName builds a timestamped, sanitized file name. Files without an
// extension are stored as .jpg.
func PhotoObjectName(original string, at time.Time) string {
	ext := strings.ToLower(filepath.Ext(original))
	base := strings.TrimSuffix(filepath.Base(original), filepath.Ext(original))
	base = unsafeNameChars.ReplaceAllString(base, "_")
	if len(base) > 40 {
		base = base[:40]
	}
	if ext == "" {
		ext = ".jpg"
	}
	return fmt.Sprintf("%d-%s%s", at.UnixMilli(), base, ext)
}
