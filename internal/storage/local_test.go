package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocalStore_Save(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "uploads")
	store, err := NewLocalStore(dir, "http://localhost:8080/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	url, err := store.Save(context.Background(), "123-me.png", "image/png", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if url != "http://localhost:8080/uploads/123-me.png" {
		t.Errorf("unexpected url %q", url)
	}

	data, err := os.ReadFile(filepath.Join(dir, "123-me.png"))
	if err != nil {
		t.Fatalf("file not written: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Errorf("unexpected file contents %q", data)
	}
}

func TestLocalStore_SaveStripsDirectories(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store, err := NewLocalStore(dir, "http://x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := store.Save(context.Background(), "../../escape.jpg", "image/jpeg", strings.NewReader("x")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "escape.jpg")); err != nil {
		t.Errorf("expected file inside upload dir: %v", err)
	}
}
