package storage

import (
	"context"
	"io"
)

// FileStorage archives raw uploaded attendance files so that a rejected or
// disputed upload can be replayed later.
type FileStorage interface {
	// Upload stores a file and returns the file path/key
	Upload(ctx context.Context, file io.Reader, path string) (string, error)

	// Download retrieves a file
	Download(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes a file
	Delete(ctx context.Context, path string) error

	// Exists checks if file exists
	Exists(ctx context.Context, path string) (bool, error)
}
