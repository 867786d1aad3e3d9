package printing

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"slices"
	"strings"

	"go.uber.org/zap"
)

const defaultArchiveDir = "./data/archive"

// FileSystemArchive keeps final renderings below one directory. Every access
// goes through os.Root, so keys cannot reach outside it.
type FileSystemArchive struct {
	dir    string
	logger *zap.Logger
}

// NewFileSystemArchive creates dir when missing. An empty dir means
// ./data/archive.
func NewFileSystemArchive(dir string, logger *zap.Logger) (*FileSystemArchive, error) {
	if dir == "" {
		dir = defaultArchiveDir
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "cannot create archive directory "+dir, err)
	}
	return &FileSystemArchive{dir: dir, logger: logger}, nil
}

func (a *FileSystemArchive) Backend() string { return "filesystem" }

// Put writes pdf at key, creating the intermediate directories.
func (a *FileSystemArchive) Put(ctx context.Context, key string, pdf []byte) error {
	if err := ctx.Err(); err != nil {
		return NewRenderError(ErrCodeStorageFailed, "archive cancelled", err)
	}
	if len(pdf) == 0 {
		return NewRenderError(ErrCodeStorageFailed, "refusing to archive an empty PDF", nil)
	}
	name, err := a.checkKey(key)
	if err != nil {
		return err
	}
	root, err := os.OpenRoot(a.dir)
	if err != nil {
		return NewRenderError(ErrCodeStorageFailed, "open archive directory", err)
	}
	defer root.Close()

	if dir := path.Dir(name); dir != "." {
		if err := root.MkdirAll(dir, 0o755); err != nil {
			return NewRenderError(ErrCodeStorageFailed, "create archive subdirectory", err)
		}
	}
	if err := root.WriteFile(name, pdf, 0o644); err != nil {
		return NewRenderError(ErrCodeStorageFailed, "write archived PDF", err)
	}
	a.logger.Debug("PDF archived", zap.String("key", name), zap.Int("bytes", len(pdf)))
	return nil
}

// Open returns the archived file. The caller closes it.
func (a *FileSystemArchive) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "archive cancelled", err)
	}
	name, err := a.checkKey(key)
	if err != nil {
		return nil, err
	}
	root, err := os.OpenRoot(a.dir)
	if err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "open archive directory", err)
	}
	defer root.Close()

	f, err := root.Open(name)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, NewRenderError(ErrCodeStorageFailed, "archived PDF not found", err)
	case err != nil:
		return nil, NewRenderError(ErrCodeStorageFailed, "open archived PDF", err)
	}
	return f, nil
}

// checkKey accepts relative slash-separated keys without ".." segments.
// Backslashes count as separators so Windows-style keys are caught too.
func (a *FileSystemArchive) checkKey(key string) (string, error) {
	segments := strings.FieldsFunc(key, func(r rune) bool { return r == '/' || r == '\\' })
	if key == "" || strings.HasPrefix(key, "/") || len(segments) == 0 || slices.Contains(segments, "..") {
		a.logger.Warn("Rejected archive key", zap.String("key", key))
		return "", NewRenderError(ErrCodeStorageFailed, "invalid archive key", nil)
	}
	return path.Join(segments...), nil
}
