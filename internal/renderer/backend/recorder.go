package backend

import (
	"strings"
	"sync"

	"github.com/dshills/kilt/internal/renderer"
	"github.com/dshills/kilt/internal/renderer/core"
)

// Recorder is an in-memory Backend. It applies ops to a cell grid the way a
// terminal would and keeps every applied batch, so tests can inspect both
// the resulting screen and the writes that produced it.
type Recorder struct {
	mu sync.Mutex

	width, height int
	cells         [][]core.Cell
	cursor        core.ScreenPos
	started       bool
	batches       [][]renderer.Op

	input   chan []byte
	resized chan struct{}
}

// NewRecorder creates a recorder with the given screen size.
func NewRecorder(width, height int) *Recorder {
	r := &Recorder{
		width:   width,
		height:  height,
		input:   make(chan []byte, 64),
		resized: make(chan struct{}, 1),
	}
	r.allocate()
	return r
}

func (r *Recorder) allocate() {
	r.cells = make([][]core.Cell, r.height)
	for y := range r.cells {
		r.cells[y] = make([]core.Cell, r.width)
		for x := range r.cells[y] {
			r.cells[y][x] = core.EmptyCell()
		}
	}
}

// Start implements Backend.
func (r *Recorder) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started = true
	return nil
}

// Stop implements Backend.
func (r *Recorder) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started = false
	return nil
}

// Size implements Backend.
func (r *Recorder) Size() (width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

// Resized implements Backend.
func (r *Recorder) Resized() <-chan struct{} {
	return r.resized
}

// Input implements Backend.
func (r *Recorder) Input() <-chan []byte {
	return r.input
}

// Apply implements Backend.
func (r *Recorder) Apply(ops []renderer.Op) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.started {
		return ErrNotStarted
	}
	r.batches = append(r.batches, append([]renderer.Op(nil), ops...))
	for _, op := range ops {
		switch op.Kind {
		case renderer.OpClear:
			r.allocate()
		case renderer.OpCell:
			if op.Row >= 0 && op.Row < r.height && op.Col >= 0 && op.Col < r.width {
				r.cells[op.Row][op.Col] = op.Cell
				// A wide cell covers the next column.
				if op.Cell.Width == 2 && op.Col+1 < r.width {
					r.cells[op.Row][op.Col+1] = core.ContinuationCell(op.Cell.Style)
				}
			}
		case renderer.OpCursor:
			r.cursor = core.ScreenPos{Row: op.Row, Col: op.Col}
		}
	}
	return nil
}

// Send queues input bytes as if typed on the terminal.
func (r *Recorder) Send(data []byte) {
	r.input <- append([]byte(nil), data...)
}

// SendString queues s as input.
func (r *Recorder) SendString(s string) {
	r.Send([]byte(s))
}

// Resize changes the screen size, clearing its contents, and signals
// Resized.
func (r *Recorder) Resize(width, height int) {
	r.mu.Lock()
	r.width, r.height = width, height
	r.allocate()
	r.mu.Unlock()
	notify(r.resized)
}

// Cell returns the cell at (row, col), or an empty cell out of bounds.
func (r *Recorder) Cell(row, col int) core.Cell {
	r.mu.Lock()
	defer r.mu.Unlock()
	if row < 0 || row >= r.height || col < 0 || col >= r.width {
		return core.EmptyCell()
	}
	return r.cells[row][col]
}

// Line returns row as text, skipping continuation cells.
func (r *Recorder) Line(row int) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if row < 0 || row >= r.height {
		return ""
	}
	var b strings.Builder
	for _, c := range r.cells[row] {
		if !c.IsContinuation() {
			b.WriteRune(c.Rune)
		}
	}
	return b.String()
}

// Screen returns all rows joined by newlines.
func (r *Recorder) Screen() string {
	_, h := r.Size()
	lines := make([]string, h)
	for y := range lines {
		lines[y] = r.Line(y)
	}
	return strings.Join(lines, "\n")
}

// Cursor returns the last cursor position applied.
func (r *Recorder) Cursor() core.ScreenPos {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cursor
}

// Batches returns a copy of every op batch applied so far.
func (r *Recorder) Batches() [][]renderer.Op {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][]renderer.Op(nil), r.batches...)
}

// LastBatch returns the most recent batch, or nil.
func (r *Recorder) LastBatch() []renderer.Op {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.batches) == 0 {
		return nil
	}
	return r.batches[len(r.batches)-1]
}
