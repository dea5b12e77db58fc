package core

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Source opens import files by path.
type Source interface {
	Open(ctx context.Context, sourcePath string) (io.ReadCloser, error)
}

// LocalSource reads import files from disk. Relative paths resolve against
// BaseDir.
type LocalSource struct {
	BaseDir string
}

// NewLocalSource returns a LocalSource rooted at baseDir ("." when empty).
func NewLocalSource(baseDir string) *LocalSource {
	if baseDir == "" {
		baseDir = "."
	}
	return &LocalSource{BaseDir: baseDir}
}

func (s *LocalSource) Open(ctx context.Context, sourcePath string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := sourcePath
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.BaseDir, sourcePath)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat file %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("open file %s: is a directory", path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file %s: %w", path, err)
	}
	return file, nil
}
