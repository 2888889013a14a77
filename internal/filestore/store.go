// Package filestore loads and saves document bytes. The OS store writes
// through a temporary file and a rename so a failed save never leaves a
// truncated document behind.
package filestore

import (
	"errors"
	"io/fs"
)

// Default limits.
const (
	// DefaultMaxFileSize is the largest file Load accepts.
	DefaultMaxFileSize = 64 << 20

	// DefaultPerm is used when saving a file that does not exist yet.
	DefaultPerm fs.FileMode = 0o644
)

// Errors returned inside *fs.PathError values.
var (
	// ErrIsDirectory indicates the path names a directory.
	ErrIsDirectory = errors.New("path is a directory")

	// ErrFileTooLarge indicates the file exceeds the configured limit.
	ErrFileTooLarge = errors.New("file too large")
)

// Store reads and writes whole files. A missing file is reported with an
// error that matches fs.ErrNotExist.
type Store interface {
	// Load returns the file contents.
	Load(path string) ([]byte, error)

	// SaveAtomic replaces the file contents. perm applies only when the
	// file is created; existing files keep their permissions.
	SaveAtomic(path string, data []byte, perm fs.FileMode) error
}

// Option configures a store.
type Option func(*options)

type options struct {
	maxFileSize int64
}

func defaultOptions() options {
	return options{maxFileSize: DefaultMaxFileSize}
}

// WithMaxFileSize sets the largest file Load accepts. Zero means no limit.
func WithMaxFileSize(size int64) Option {
	return func(o *options) {
		o.maxFileSize = size
	}
}

// IsNotExist reports whether err means the file does not exist yet.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
