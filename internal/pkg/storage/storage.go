package storage

import (
	"context"
	"errors"
	"io"
)

var ErrInvalidPath = errors.New("invalid file path")

type FileStorage interface {
	// Upload stores file under path and returns the cleaned key.
	Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error)

	// Delete removes a file. Deleting a missing file is not an error.
	Delete(ctx context.Context, path string) error

	// URL is the public address of a stored key.
	URL(path string) string

	Exists(ctx context.Context, path string) (bool, error)
}
