// Package file implements a local filesystem-backed data source.
package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"salesclean/internal/datasource"
)

// MissingInputError reports that the input path does not exist. It is
// returned before any byte of the input is read.
type MissingInputError struct {
	Path string
	Err  error
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("input file not found: %s", e.Path)
}

// Unwrap lets callers match with errors.Is(err, fs.ErrNotExist).
func (e *MissingInputError) Unwrap() error { return e.Err }

// Local is a filesystem data source that opens files from the local disk.
type Local struct{ path string }

var _ datasource.Source = (*Local)(nil)

// NewLocal returns a new Local data source bound to the provided filesystem
// path.
func NewLocal(path string) *Local { return &Local{path: path} }

// Open checks that the configured path exists and opens it for reading.
//
// Behavior:
//   - A canceled context returns the context error without touching the
//     filesystem.
//   - A missing path returns *MissingInputError.
//   - A directory is rejected; other filesystem errors are wrapped with the
//     path and still satisfy errors.Is/As.
func (l *Local) Open(ctx context.Context) (io.ReadCloser, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	fi, err := os.Stat(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &MissingInputError{Path: l.path, Err: err}
		}
		return nil, fmt.Errorf("stat %s: %w", l.path, err)
	}
	if fi.IsDir() {
		return nil, fmt.Errorf("open %s: is a directory", l.path)
	}

	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", l.path, err)
	}
	return f, nil
}
