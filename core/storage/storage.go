package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// DefaultDirName is the folder created under os.TempDir when no directory is configured.
const DefaultDirName = "webbridge-uploads"

// LocalStorage stages uploads as files in a single directory.
type LocalStorage struct {
	dir      string
	fileMode fs.FileMode
	dirMode  fs.FileMode
	maxSize  int64
}

// Option configures LocalStorage.
type Option func(*LocalStorage)

// WithFileMode sets permissions for staged files.
func WithFileMode(mode fs.FileMode) Option {
	return func(s *LocalStorage) {
		if mode != 0 {
			s.fileMode = mode
		}
	}
}

// WithDirMode sets permissions used when creating the staging directory.
func WithDirMode(mode fs.FileMode) Option {
	return func(s *LocalStorage) {
		if mode != 0 {
			s.dirMode = mode
		}
	}
}

// WithMaxSize caps the size of a single staged file. Zero means unlimited.
func WithMaxSize(n int64) Option {
	return func(s *LocalStorage) {
		if n >= 0 {
			s.maxSize = n
		}
	}
}

// NewLocalStorage creates the staging directory if needed.
func NewLocalStorage(dir string, opts ...Option) (*LocalStorage, error) {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), DefaultDirName)
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}

	s := &LocalStorage{
		dir:      abs,
		fileMode: 0o600,
		dirMode:  0o700,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := os.MkdirAll(s.dir, s.dirMode); err != nil {
		return nil, fmt.Errorf("create staging directory: %w", err)
	}

	return s, nil
}

// NewFromConfig creates LocalStorage from environment configuration.
func NewFromConfig(cfg Config) (*LocalStorage, error) {
	return NewLocalStorage(cfg.Dir,
		WithFileMode(fs.FileMode(cfg.FileMode)),
		WithMaxSize(cfg.MaxSize),
	)
}

// Dir returns the absolute staging directory.
func (s *LocalStorage) Dir() string {
	return s.dir
}

// Stage copies r into a new file and returns its absolute path and size.
// Zero-byte content still produces a file. On failure nothing is left behind.
func (s *LocalStorage) Stage(ctx context.Context, field, filename string, r io.Reader) (string, int64, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}

	path := filepath.Join(s.dir, "upload-"+uuid.NewString()+".tmp")

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, s.fileMode)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %v", ErrStageFailed, err)
	}

	src := r
	if s.maxSize > 0 {
		// One extra byte tells an exact-limit file apart from an oversized one.
		src = io.LimitReader(r, s.maxSize+1)
	}

	n, copyErr := io.Copy(f, src)
	closeErr := f.Close()

	switch {
	case copyErr != nil:
		_ = os.Remove(path)
		return "", 0, fmt.Errorf("%w: field %s: %v", ErrStageFailed, field, copyErr)
	case closeErr != nil:
		_ = os.Remove(path)
		return "", 0, fmt.Errorf("%w: field %s: %v", ErrStageFailed, field, closeErr)
	case s.maxSize > 0 && n > s.maxSize:
		_ = os.Remove(path)
		return "", 0, ErrFileTooLarge{Field: field, Filename: filename, Max: s.maxSize}
	}

	return path, n, nil
}

// Remove deletes a staged file. Removing a missing file is not an error.
func (s *LocalStorage) Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
