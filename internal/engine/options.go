package engine

import (
	"github.com/dshills/kilt/internal/engine/buffer"
)

// Default configuration values.
const (
	DefaultTabWidth = 4
)

// Option configures an Engine during creation.
type Option func(*Engine)

// WithContent sets the initial content of the engine.
func WithContent(content string) Option {
	return func(e *Engine) {
		e.initContent = content
	}
}

// WithBackend selects the buffer implementation.
func WithBackend(backend buffer.Backend) Option {
	return func(e *Engine) {
		e.backend = backend
	}
}

// WithTabWidth sets the number of spaces a tab expands to when
// WithExpandTabs is set.
func WithTabWidth(width int) Option {
	return func(e *Engine) {
		if width > 0 {
			e.tabWidth = width
		}
	}
}

// WithExpandTabs makes InsertTab insert spaces instead of a tab character.
func WithExpandTabs(expand bool) Option {
	return func(e *Engine) {
		e.expandTabs = expand
	}
}

// WithGraphemeDelete makes character deletes and horizontal moves operate
// on grapheme clusters.
func WithGraphemeDelete(enabled bool) Option {
	return func(e *Engine) {
		e.cursorOpts.Grapheme = enabled
	}
}

// WithDebug makes buffer errors panic instead of being returned.
func WithDebug(debug bool) Option {
	return func(e *Engine) {
		e.cursorOpts.Debug = debug
	}
}

// WithReadOnly creates a read-only engine.
// Edit commands will return ErrReadOnly.
func WithReadOnly() Option {
	return func(e *Engine) {
		e.readOnly = true
	}
}
