// Package filestore keeps uploaded files on the local filesystem.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrInvalidPath is returned for paths that escape the root or are absolute.
var ErrInvalidPath = errors.New("invalid file path")

// ErrNotExist is returned when a file is missing.
var ErrNotExist = fs.ErrNotExist

// Local implements ports.FileStore rooted at a directory.
type Local struct {
	root string
}

// NewLocal creates the root directory if needed.
func NewLocal(root string) (*Local, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve files dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o750); err != nil {
		return nil, fmt.Errorf("create files dir: %w", err)
	}
	return &Local{root: abs}, nil
}

// Root returns the absolute root directory.
func (l *Local) Root() string { return l.root }

// Path resolves relPath under the root.
func (l *Local) Path(relPath string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(relPath))
	if relPath == "" || !filepath.IsLocal(clean) {
		return "", ErrInvalidPath
	}
	return filepath.Join(l.root, clean), nil
}

// Save writes r to relPath via a temp file so readers never see partial content.
func (l *Local) Save(ctx context.Context, relPath string, r io.Reader) (int64, error) {
	dst, err := l.Path(relPath)
	if err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return 0, fmt.Errorf("create dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	n, copyErr := io.Copy(tmp, r)
	closeErr := tmp.Close()
	if copyErr != nil || closeErr != nil {
		_ = os.Remove(tmp.Name())
		return 0, fmt.Errorf("write file: %w", errors.Join(copyErr, closeErr))
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		_ = os.Remove(tmp.Name())
		return 0, fmt.Errorf("move file into place: %w", err)
	}
	return n, nil
}

func (l *Local) Open(_ context.Context, relPath string) (io.ReadSeekCloser, error) {
	p, err := l.Path(relPath)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	return f, nil
}

// Remove deletes relPath. A missing file is not an error.
func (l *Local) Remove(_ context.Context, relPath string) error {
	p, err := l.Path(relPath)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}
