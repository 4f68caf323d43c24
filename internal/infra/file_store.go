package infra

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Vovarama1992/lectoquiz/internal/ports"
)

type FSFileStore struct {
	base string
}

func NewFSFileStore(base string) (ports.FileStore, error) {
	if base == "" {
		base = "uploads"
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &FSFileStore{base: base}, nil
}

func (s *FSFileStore) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	if name == "" {
		return "", errors.New("empty file name")
	}
	dst := filepath.Join(s.base, filepath.Base(filepath.Clean(name)))

	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", dst, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		_ = os.Remove(dst)
		return "", fmt.Errorf("write %s: %w", dst, err)
	}
	return dst, nil
}

func (s *FSFileStore) Read(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

// Remove deletes a stored upload. A missing file is not an error.
func (s *FSFileStore) Remove(ctx context.Context, path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}
