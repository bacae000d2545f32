// Package output writes generated artifacts.
//
// FileWriter replaces its target atomically: content goes to a temporary
// file in the target's directory which is then renamed over the target, so
// readers see either the previous or the new content. S3Writer publishes the
// same bytes to an S3 object.
package output

import (
	"context"
	"fmt"
	"path/filepath"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
)

// Writer stores one artifact.
type Writer interface {
	// Write replaces the artifact with data.
	Write(ctx context.Context, data []byte) error

	// Target describes where the artifact goes.
	Target() string
}

// FileWriter writes a file through a billy filesystem.
type FileWriter struct {
	fs   billy.Filesystem
	path string
}

// NewFileWriter creates a writer for path. A nil fsys uses the OS filesystem.
func NewFileWriter(fsys billy.Filesystem, path string) *FileWriter {
	if fsys == nil {
		fsys = osfs.New("/")
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}
	return &FileWriter{fs: fsys, path: path}
}

// Target returns the file path.
func (w *FileWriter) Target() string {
	return w.path
}

// Write creates parent directories as needed and replaces the file. On
// failure the temporary file is removed and the target is left untouched.
func (w *FileWriter) Write(ctx context.Context, data []byte) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(w.path)
	if err := w.fs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	tmp, err := w.fs.TempFile(dir, "."+filepath.Base(w.path)+".tmp-")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = w.fs.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmpName, err)
	}
	if err := w.fs.Rename(tmpName, w.path); err != nil {
		return fmt.Errorf("replacing %s: %w", w.path, err)
	}
	return nil
}
