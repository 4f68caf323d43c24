package ports

import (
	"context"
	"io"
)

type FileStore interface {
	// Save stores the upload under name and returns its file path.
	Save(ctx context.Context, name string, r io.Reader) (string, error)
	Read(ctx context.Context, path string) ([]byte, error)
	Remove(ctx context.Context, path string) error
}
