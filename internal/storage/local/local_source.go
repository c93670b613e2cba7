// Package local serves reference documents from a directory on disk.
package local

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"ppoeval/internal/domain"
	"ppoeval/internal/port"
)

type source struct {
	dir string
}

// NewSource creates a ReferenceSource rooted at dir.
func NewSource(dir string) port.ReferenceSource {
	return &source{dir: dir}
}

// Read returns the bytes of name. Only the base name is used, so a
// configured file name can never escape dir.
func (s *source) Read(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := filepath.Join(s.dir, filepath.Base(name))
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrReferenceNotFound, path)
		}
		return nil, fmt.Errorf("local read %s: %w", path, err)
	}
	return data, nil
}

func (s *source) Ping(_ context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("local reference dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("local reference dir %s is not a directory", s.dir)
	}
	return nil
}
