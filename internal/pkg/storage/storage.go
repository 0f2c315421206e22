package storage

import (
	"context"
	"errors"
	"io"
)

var ErrNotFound = errors.New("object not found")

// Storage persists binary objects under slash-separated keys.
type Storage interface {
	Save(ctx context.Context, key string, content io.Reader) error
	// Get returns ErrNotFound when no object exists under key.
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete is a no-op for missing keys.
	Delete(ctx context.Context, key string) error
}
