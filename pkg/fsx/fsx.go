package fsx

import (
	"context"
	"errors"
	"io"
)

// ErrNotExist is returned by readers when a path has no object
var ErrNotExist = errors.New("fsx: file does not exist")

// FileReader reads stored objects
type FileReader interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
	ReadFileStream(ctx context.Context, path string) (io.ReadCloser, error)
}

// FileWriter writes and removes stored objects
type FileWriter interface {
	WriteFile(ctx context.Context, path string, data []byte) error
	WriteFileStream(ctx context.Context, path string, r io.Reader) error
	DeleteFile(ctx context.Context, path string) error
}

// FileSystem is a flat object store addressed by slash separated paths
type FileSystem interface {
	FileReader
	FileWriter

	// Join builds a storage path from segments
	Join(elem ...string) string

	// URL returns the public or canonical location of path
	URL(path string) string
}
