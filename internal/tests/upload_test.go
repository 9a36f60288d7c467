package tests

import (
	"context"
	"errors"
	"strings"
	"testing"

	"flock/internal/service"
)

// TestUploadProfilePhoto covers the upload validation order and the stored name.
func TestUploadProfilePhoto(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      service.PhotoUpload
		wantErr error
	}{
		{"no file", service.PhotoUpload{}, service.ErrPhotoRequired},
		{"too large", service.PhotoUpload{Filename: "me.png", ContentType: "image/png", Size: service.MaxPhotoBytes + 1, Body: strings.NewReader("x")}, service.ErrPhotoTooLarge},
		{"not an image", service.PhotoUpload{Filename: "notes.txt", ContentType: "text/plain", Size: 4, Body: strings.NewReader("text")}, service.ErrPhotoNotImage},
		{"image by extension", service.PhotoUpload{Filename: "me.HEIC", ContentType: "application/octet-stream", Size: 3, Body: strings.NewReader("img")}, nil},
		{"image by type", service.PhotoUpload{Filename: "avatar", ContentType: "image/jpeg", Size: 3, Body: strings.NewReader("img")}, nil},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := NewEnv()

			url, err := env.UploadService.UploadProfilePhoto(context.Background(), tt.in)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Expected %v, got %v", tt.wantErr, err)
			}
			if tt.wantErr != nil {
				if len(env.Store.Names()) != 0 {
					t.Error("Expected nothing stored")
				}
				return
			}
			if !strings.HasPrefix(url, "https://cdn.test/uploads/") {
				t.Errorf("Unexpected url %s", url)
			}
			if len(env.Store.Names()) != 1 {
				t.Errorf("Expected 1 stored object, got %d", len(env.Store.Names()))
			}
		})
	}
}

// TestUploadProfilePhoto_StoreFailure verifies storage errors are wrapped and returned.
func TestUploadProfilePhoto_StoreFailure(t *testing.T) {
	t.Parallel()
	env := NewEnv()
	env.Store.SaveError = ErrStoreUnavailable

	_, err := env.UploadService.UploadProfilePhoto(context.Background(), service.PhotoUpload{
		Filename: "me.png", ContentType: "image/png", Size: 3, Body: strings.NewReader("img"),
	})
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("Expected wrapped store error, got %v", err)
	}
}
