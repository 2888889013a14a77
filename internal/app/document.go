package app

import (
	"errors"

	"github.com/dshills/kilt/internal/engine"
	"github.com/dshills/kilt/internal/engine/buffer"
	"github.com/dshills/kilt/internal/filestore"
)

// ErrNoFileName is returned when saving a document that was opened without
// a path.
var ErrNoFileName = errors.New("no file name")

// Document is the open file: its path, on-disk format and the engine
// editing it.
type Document struct {
	path   string
	store  filestore.Store
	format buffer.Format
	isNew  bool

	engine *engine.Engine
}

// OpenDocument loads path through store. A path that does not exist yields
// an empty document that is created on first save. An empty path yields an
// unnamed scratch document.
func OpenDocument(store filestore.Store, path string, opts ...engine.Option) (*Document, error) {
	d := &Document{path: path, store: store}

	content := ""
	if path != "" {
		data, err := store.Load(path)
		switch {
		case filestore.IsNotExist(err):
			d.isNew = true
		case err != nil:
			return nil, persistenceError("load", path, err)
		default:
			dec, err := buffer.Decode(data)
			if err != nil {
				return nil, persistenceError("load", path, err)
			}
			content = dec.Text
			d.format = dec.Format
		}
	}

	eng, err := engine.New(append([]engine.Option{engine.WithContent(content)}, opts...)...)
	if err != nil {
		return nil, NewOperationError("load", path, err)
	}
	d.engine = eng
	return d, nil
}

// Path returns the file path, or "" for a scratch document.
func (d *Document) Path() string {
	return d.path
}

// Engine returns the editing engine.
func (d *Document) Engine() *engine.Engine {
	return d.engine
}

// Format returns the on-disk format used when saving.
func (d *Document) Format() buffer.Format {
	return d.format
}

// IsNew reports whether the file did not exist when opened and has not been
// saved since.
func (d *Document) IsNew() bool {
	return d.isNew
}

// Save writes the document atomically and returns the bytes written. On
// failure the document stays modified and the error wraps ErrPersistence.
func (d *Document) Save() ([]byte, error) {
	if d.path == "" {
		return nil, persistenceError("save", d.path, ErrNoFileName)
	}
	data, err := buffer.Encode(d.engine.Text(), d.format)
	if err != nil {
		return nil, persistenceError("save", d.path, err)
	}
	if err := d.store.SaveAtomic(d.path, data, filestore.DefaultPerm); err != nil {
		return nil, persistenceError("save", d.path, err)
	}
	d.engine.MarkSaved()
	d.isNew = false
	return data, nil
}

// Reload replaces the content with the file's current bytes, keeping the
// cursor as near its position as the new content allows.
func (d *Document) Reload() error {
	data, err := d.store.Load(d.path)
	if err != nil {
		return persistenceError("reload", d.path, err)
	}
	dec, err := buffer.Decode(data)
	if err != nil {
		return persistenceError("reload", d.path, err)
	}
	if err := d.engine.Reset(dec.Text); err != nil {
		return NewOperationError("reload", d.path, err)
	}
	d.format = dec.Format
	d.isNew = false
	return nil
}
