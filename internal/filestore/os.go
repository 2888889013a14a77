package filestore

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
)

// OS implements Store on the operating system's file system.
type OS struct {
	opts options
}

// NewOS creates an OS store.
func NewOS(opts ...Option) *OS {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &OS{opts: o}
}

// Ensure OS implements Store.
var _ Store = (*OS)(nil)

// Load reads the whole file.
func (s *OS) Load(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, &fs.PathError{Op: "load", Path: path, Err: ErrIsDirectory}
	}
	if s.opts.maxFileSize > 0 && info.Size() > s.opts.maxFileSize {
		return nil, &fs.PathError{Op: "load", Path: path, Err: ErrFileTooLarge}
	}
	return os.ReadFile(path)
}

// SaveAtomic writes data to a temporary file in the target directory and
// renames it over path. A symlink is followed so the link itself survives.
func (s *OS) SaveAtomic(path string, data []byte, perm fs.FileMode) error {
	target, err := resolve(path)
	if err != nil {
		return &fs.PathError{Op: "save", Path: path, Err: err}
	}
	if info, err := os.Stat(target); err == nil && info.IsDir() {
		return &fs.PathError{Op: "save", Path: path, Err: ErrIsDirectory}
	}

	if err := renameio.WriteFile(target, data, perm, renameio.WithExistingPermissions()); err != nil {
		return &fs.PathError{Op: "save", Path: path, Err: err}
	}
	return nil
}

// resolve follows symlinks for an existing path. A path that does not exist
// yet is returned unchanged.
func resolve(path string) (string, error) {
	target, err := filepath.EvalSymlinks(path)
	if errors.Is(err, fs.ErrNotExist) {
		return path, nil
	}
	return target, err
}
