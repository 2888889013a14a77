// Package backend connects the renderer to a terminal. A Backend reports the
// terminal size and resizes, delivers raw input bytes, and applies the
// operations produced by renderer.Differ.
package backend

import (
	"errors"

	"github.com/dshills/kilt/internal/renderer"
)

// ErrNotStarted is returned by Apply before Start or after Stop.
var ErrNotStarted = errors.New("backend not started")

// Backend defines the interface for terminal backends.
//
// Resized and Input are fed by helper goroutines; the event loop consumes
// them and is the only caller of Apply.
type Backend interface {
	// Start prepares the terminal for drawing (raw mode, alternate screen)
	// and begins delivering input.
	Start() error

	// Stop restores the terminal. Input is closed once the reader exits.
	Stop() error

	// Size returns the current terminal dimensions in cells.
	Size() (width, height int)

	// Resized receives a value after the terminal size changes.
	// Multiple resizes between reads may coalesce into one value.
	Resized() <-chan struct{}

	// Input delivers raw bytes in the order the terminal sent them.
	Input() <-chan []byte

	// Apply writes ops to the terminal.
	Apply(ops []renderer.Op) error
}

// notify performs a non-blocking send on a one-slot signal channel.
func notify(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

var (
	_ Backend = (*Terminal)(nil)
	_ Backend = (*Recorder)(nil)
)
