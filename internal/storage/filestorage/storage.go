package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var ErrFileTooLarge = errors.New("file size exceeds limit")

type FileStorage interface {
	Save(ctx context.Context, src io.Reader, subPath, filename string) (filePath string, fileSize int64, err error)
	Delete(ctx context.Context, filePath string) error
	URLFor(relativePath string) string
	PathFromURL(url string) (string, bool)
}

// LocalFileStorage stores files under a base directory and serves them
// from a base URL.
type LocalFileStorage struct {
	baseDir string
	baseURL string
	maxSize int64
}

func NewLocalFileStorage(baseDir, baseURL string, maxSize int64) (*LocalFileStorage, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}

	return &LocalFileStorage{
		baseDir: baseDir,
		baseURL: baseURL,
		maxSize: maxSize,
	}, nil
}

func (s *LocalFileStorage) Save(ctx context.Context, src io.Reader, subPath, filename string) (string, int64, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}

	relPath := filepath.Join(subPath, filename)
	fullPath := filepath.Join(s.baseDir, relPath)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", 0, fmt.Errorf("failed to create directories: %w", err)
	}

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	reader := src
	if s.maxSize > 0 {
		reader = io.LimitReader(src, s.maxSize+1)
	}

	size, err := io.Copy(dst, reader)
	if err != nil {
		_ = os.Remove(fullPath)
		return "", 0, fmt.Errorf("failed to copy file: %w", err)
	}
	if s.maxSize > 0 && size > s.maxSize {
		_ = os.Remove(fullPath)
		return "", 0, ErrFileTooLarge
	}

	return relPath, size, nil
}

func (s *LocalFileStorage) Delete(ctx context.Context, filePath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.Remove(filepath.Join(s.baseDir, filePath)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}

func (s *LocalFileStorage) URLFor(relativePath string) string {
	return s.baseURL + "/" + filepath.ToSlash(relativePath)
}

// PathFromURL maps a URL produced by URLFor back to its relative path.
func (s *LocalFileStorage) PathFromURL(url string) (string, bool) {
	if !strings.HasPrefix(url, s.baseURL+"/") {
		return "", false
	}
	return filepath.FromSlash(strings.TrimPrefix(url, s.baseURL+"/")), true
}
