package fsxlocal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/Abraxas-365/resumatch/pkg/fsx"
)

// LocalFileSystem stores objects under a root directory
type LocalFileSystem struct {
	root string
}

var _ fsx.FileSystem = (*LocalFileSystem)(nil)

func NewLocalFileSystem(root string) (*LocalFileSystem, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}
	return &LocalFileSystem{root: abs}, nil
}

func (l *LocalFileSystem) Join(elem ...string) string { return path.Join(elem...) }

func (l *LocalFileSystem) URL(p string) string {
	return "file://" + filepath.ToSlash(l.resolve(p))
}

// resolve keeps every path inside root
func (l *LocalFileSystem) resolve(p string) string {
	clean := path.Clean("/" + strings.TrimPrefix(p, "/"))
	return filepath.Join(l.root, filepath.FromSlash(clean))
}

func (l *LocalFileSystem) WriteFile(ctx context.Context, p string, data []byte) error {
	full := l.resolve(p)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	return os.WriteFile(full, data, 0o644)
}

func (l *LocalFileSystem) WriteFileStream(ctx context.Context, p string, r io.Reader) error {
	full := l.resolve(p)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	f, err := os.Create(full)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (l *LocalFileSystem) ReadFile(ctx context.Context, p string) ([]byte, error) {
	data, err := os.ReadFile(l.resolve(p))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fsx.ErrNotExist
	}
	return data, err
}

func (l *LocalFileSystem) ReadFileStream(ctx context.Context, p string) (io.ReadCloser, error) {
	f, err := os.Open(l.resolve(p))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fsx.ErrNotExist
	}
	return f, err
}

func (l *LocalFileSystem) DeleteFile(ctx context.Context, p string) error {
	err := os.Remove(l.resolve(p))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
