package backend

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/kilt/internal/renderer"
)

const readBufferSize = 4096

// ErrClosed is returned by Start after the terminal was closed.
var ErrClosed = errors.New("terminal closed")

// Terminal implements Backend on a tcell Tty. tcell is used only for raw
// mode, window size and resize notification; input bytes are delivered
// undecoded and output is produced by Encoder.
type Terminal struct {
	tty tcell.Tty
	enc *Encoder

	mu            sync.Mutex
	width, height int
	started       bool
	closed        bool

	input   chan []byte
	resized chan struct{}
	done    chan struct{}
}

// NewTerminal creates a backend on the controlling terminal (/dev/tty).
func NewTerminal() (*Terminal, error) {
	tty, err := tcell.NewDevTty()
	if err != nil {
		return nil, fmt.Errorf("open tty: %w", err)
	}
	return NewTerminalFromTty(tty), nil
}

// NewTerminalFromTty creates a backend on an already opened tty.
func NewTerminalFromTty(tty tcell.Tty) *Terminal {
	return &Terminal{
		tty:     tty,
		enc:     NewEncoder(),
		input:   make(chan []byte, 16),
		resized: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
}

// Start puts the tty in raw mode, switches to the alternate screen and
// starts the input reader.
func (t *Terminal) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.started {
		return nil
	}
	if t.closed {
		return ErrClosed
	}
	if err := t.tty.Start(); err != nil {
		return fmt.Errorf("start tty: %w", err)
	}
	if err := t.updateSizeLocked(); err != nil {
		_ = t.tty.Stop()
		return err
	}
	t.tty.NotifyResize(t.onResize)

	if _, err := io.WriteString(t.tty, Enter()); err != nil {
		_ = t.tty.Stop()
		return fmt.Errorf("enter alternate screen: %w", err)
	}
	t.enc.Reset()
	t.started = true

	go t.readLoop()
	return nil
}

// Stop restores the screen and the tty mode. It is safe to call more than
// once.
func (t *Terminal) Stop() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.started {
		return nil
	}
	t.started = false
	close(t.done)

	t.tty.NotifyResize(nil)
	_, werr := io.WriteString(t.tty, Exit())
	_ = t.tty.Drain()
	serr := t.tty.Stop()
	return errors.Join(werr, serr, t.closeLocked())
}

// Close releases the tty, stopping the terminal first if it was started.
// It is safe to call more than once and after Stop.
func (t *Terminal) Close() error {
	if err := t.Stop(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closeLocked()
}

func (t *Terminal) closeLocked() error {
	if t.closed {
		return nil
	}
	t.closed = true
	return t.tty.Close()
}

// Size returns the last known terminal size.
func (t *Terminal) Size() (width, height int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.width, t.height
}

// Resized implements Backend.
func (t *Terminal) Resized() <-chan struct{} {
	return t.resized
}

// Input implements Backend.
func (t *Terminal) Input() <-chan []byte {
	return t.input
}

// Apply encodes ops and writes them in a single write.
func (t *Terminal) Apply(ops []renderer.Op) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.started {
		return ErrNotStarted
	}
	data := t.enc.Encode(ops)
	if len(data) == 0 {
		return nil
	}
	if _, err := t.tty.Write(data); err != nil {
		t.enc.Reset()
		return fmt.Errorf("write terminal: %w", err)
	}
	return nil
}

func (t *Terminal) onResize() {
	t.mu.Lock()
	err := t.updateSizeLocked()
	t.mu.Unlock()
	if err == nil {
		notify(t.resized)
	}
}

func (t *Terminal) updateSizeLocked() error {
	ws, err := t.tty.WindowSize()
	if err != nil {
		return fmt.Errorf("window size: %w", err)
	}
	t.width, t.height = ws.Width, ws.Height
	return nil
}

// readLoop forwards tty reads to the input channel until Stop or a read
// error. Each chunk is a fresh slice owned by the receiver.
func (t *Terminal) readLoop() {
	defer close(t.input)

	buf := make([]byte, readBufferSize)
	for {
		n, err := t.tty.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			select {
			case t.input <- chunk:
			case <-t.done:
				return
			}
		}
		select {
		case <-t.done:
			return
		default:
		}
		if err != nil {
			return
		}
	}
}
