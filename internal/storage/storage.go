// Package storage keeps uploaded files on local disk or in S3.
package storage

import (
	"context"
	"io"
)

// Store saves a named object and returns its public URL.
type Store interface {
	Save(ctx context.Context, name, contentType string, body io.Reader) (string, error)
}
