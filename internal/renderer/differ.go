package renderer

import (
	"github.com/dshills/kilt/internal/renderer/core"
)

// Differ compares successive frames and emits writes for changed cells.
// It owns the last rendered frame and is not safe for concurrent use.
type Differ struct {
	last *Frame
	full bool
}

// NewDiffer creates a differ whose first render is a full redraw.
func NewDiffer() *Differ {
	return &Differ{full: true}
}

// Invalidate forces the next render to clear the screen and write every
// cell.
func (d *Differ) Invalidate() {
	d.full = true
}

// Resize discards the stored frame. The next render is a full redraw.
func (d *Differ) Resize(width, height int) {
	d.last = NewFrame(width, height)
	d.full = true
}

// Last returns the last rendered frame, or nil before the first render.
func (d *Differ) Last() *Frame {
	return d.last
}

// Render returns the writes that turn the last frame into next, followed by
// a cursor placement. A frame of a different size than the last one is
// rendered in full. next becomes the new baseline and must not be modified
// by the caller afterwards.
func (d *Differ) Render(next *Frame, cursor core.ScreenPos) []Op {
	var ops []Op
	full := d.full || d.last == nil ||
		d.last.width != next.width || d.last.height != next.height

	if full {
		ops = make([]Op, 0, len(next.cells)+2)
		ops = append(ops, ClearOp())
	}

	for row := range next.height {
		for col := range next.width {
			c := next.cells[row*next.width+col]
			if c.IsContinuation() {
				continue
			}
			if !full && c == d.last.cells[row*next.width+col] {
				continue
			}
			ops = append(ops, CellOp(row, col, c))
		}
	}

	ops = append(ops, CursorOp(cursor.Row, cursor.Col))

	d.last = next
	d.full = false
	return ops
}
