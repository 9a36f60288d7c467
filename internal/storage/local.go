package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore writes files to a directory served under /uploads.
type LocalStore struct {
	dir     string
	baseURL string
}

var _ Store = (*LocalStore)(nil)

// NewLocalStore creates the upload directory if needed.
func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	return &LocalStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Dir returns the directory files are written to.
func (s *LocalStore) Dir() string {
	return s.dir
}

// Save writes body to dir/name.
func (s *LocalStore) Save(_ context.Context, name, _ string, body io.Reader) (string, error) {
	name = filepath.Base(name)
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, body); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}

	return fmt.Sprintf("%s/uploads/%s", s.baseURL, name), nil
}
