package renderer

import (
	"github.com/dshills/kilt/internal/renderer/core"
)

// Frame is a grid of terminal cells, row major.
type Frame struct {
	width, height int
	cells         []core.Cell
}

// NewFrame creates a frame filled with blank cells.
// Width and height are clamped to a minimum of 0.
func NewFrame(width, height int) *Frame {
	width, height = max(width, 0), max(height, 0)
	f := &Frame{
		width:  width,
		height: height,
		cells:  make([]core.Cell, width*height),
	}
	f.Clear()
	return f
}

// Size returns the frame dimensions.
func (f *Frame) Size() (width, height int) {
	return f.width, f.height
}

// Width returns the number of columns.
func (f *Frame) Width() int {
	return f.width
}

// Height returns the number of rows.
func (f *Frame) Height() int {
	return f.height
}

// Clear resets every cell to blank.
func (f *Frame) Clear() {
	blank := core.EmptyCell()
	for i := range f.cells {
		f.cells[i] = blank
	}
}

// Cell returns the cell at (row, col). Out-of-bounds reads return a blank.
func (f *Frame) Cell(row, col int) core.Cell {
	if !f.inBounds(row, col) {
		return core.EmptyCell()
	}
	return f.cells[row*f.width+col]
}

// SetCell sets the cell at (row, col). Out-of-bounds writes are ignored.
func (f *Frame) SetCell(row, col int, cell core.Cell) {
	if !f.inBounds(row, col) {
		return
	}
	f.cells[row*f.width+col] = cell
}

// SetCells writes cells starting at (row, col), clipped to the frame.
func (f *Frame) SetCells(row, col int, cells []core.Cell) {
	for i, c := range cells {
		f.SetCell(row, col+i, c)
	}
}

// Row returns the cells of a row. The slice aliases the frame.
func (f *Frame) Row(row int) []core.Cell {
	if row < 0 || row >= f.height {
		return nil
	}
	return f.cells[row*f.width : (row+1)*f.width]
}

// RowString returns the text of a row, skipping continuation cells.
func (f *Frame) RowString(row int) string {
	cells := f.Row(row)
	runes := make([]rune, 0, len(cells))
	for _, c := range cells {
		if !c.IsContinuation() {
			runes = append(runes, c.Rune)
		}
	}
	return string(runes)
}

// Clone returns an independent copy.
func (f *Frame) Clone() *Frame {
	c := &Frame{width: f.width, height: f.height, cells: make([]core.Cell, len(f.cells))}
	copy(c.cells, f.cells)
	return c
}

func (f *Frame) inBounds(row, col int) bool {
	return row >= 0 && row < f.height && col >= 0 && col < f.width
}
