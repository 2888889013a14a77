package filestore

import (
	"io/fs"
	"path"
	"sync"
)

// Mem implements Store in memory. It is safe for concurrent use.
type Mem struct {
	mu      sync.RWMutex
	opts    options
	files   map[string]memFile
	saveErr error
	saves   int
}

type memFile struct {
	data []byte
	perm fs.FileMode
}

// NewMem creates an empty in-memory store.
func NewMem(opts ...Option) *Mem {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Mem{opts: o, files: make(map[string]memFile)}
}

// Ensure Mem implements Store.
var _ Store = (*Mem)(nil)

// Load returns a copy of the stored contents.
func (m *Mem) Load(name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	f, ok := m.files[path.Clean(name)]
	if !ok {
		return nil, &fs.PathError{Op: "load", Path: name, Err: fs.ErrNotExist}
	}
	if m.opts.maxFileSize > 0 && int64(len(f.data)) > m.opts.maxFileSize {
		return nil, &fs.PathError{Op: "load", Path: name, Err: ErrFileTooLarge}
	}
	return append([]byte(nil), f.data...), nil
}

// SaveAtomic stores a copy of data, or fails with the error set by
// FailSaves.
func (m *Mem) SaveAtomic(name string, data []byte, perm fs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.saveErr != nil {
		return &fs.PathError{Op: "save", Path: name, Err: m.saveErr}
	}
	key := path.Clean(name)
	if old, ok := m.files[key]; ok {
		perm = old.perm
	}
	m.files[key] = memFile{data: append([]byte(nil), data...), perm: perm}
	m.saves++
	return nil
}

// Put sets the contents of name without counting as a save.
func (m *Mem) Put(name string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path.Clean(name)] = memFile{data: append([]byte(nil), data...), perm: DefaultPerm}
}

// FailSaves makes every following SaveAtomic fail with err. A nil err
// restores normal behavior.
func (m *Mem) FailSaves(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveErr = err
}

// Saves returns the number of successful saves.
func (m *Mem) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}

// Perm returns the permissions recorded for name.
func (m *Mem) Perm(name string) (fs.FileMode, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.files[path.Clean(name)]
	return f.perm, ok
}
