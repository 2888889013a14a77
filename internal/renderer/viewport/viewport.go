// Package viewport tracks the visible rectangle of the document and keeps
// the cursor inside it.
package viewport

import (
	"fmt"
	"iter"
)

// DefaultMargin is the number of cells kept visible beside the cursor when
// scrolling horizontally.
const DefaultMargin = 4

// Rect is the visible rectangle: the first buffer line and cell column shown,
// and the size in terminal rows and cells.
type Rect struct {
	Top, Left     int
	Height, Width int
}

// String returns a compact description for logs and test failures.
func (r Rect) String() string {
	return fmt.Sprintf("top=%d left=%d %dx%d", r.Top, r.Left, r.Height, r.Width)
}

// Viewport represents the visible portion of the buffer. Columns are cell
// columns as produced by a ColumnMapper. A Viewport is owned by the event
// loop and is not safe for concurrent use.
type Viewport struct {
	rect   Rect
	margin int

	// Last position passed to EnsureVisible, reused by Resize.
	cursorLine int
	cursorCol  int
}

// NewViewport creates a viewport with the given size.
// Height and width are clamped to a minimum of 1.
func NewViewport(height, width int) *Viewport {
	return &Viewport{
		rect:   Rect{Height: max(height, 1), Width: max(width, 1)},
		margin: DefaultMargin,
	}
}

// Rect returns the visible rectangle.
func (v *Viewport) Rect() Rect {
	return v.rect
}

// Top returns the first visible line.
func (v *Viewport) Top() int {
	return v.rect.Top
}

// Left returns the first visible cell column.
func (v *Viewport) Left() int {
	return v.rect.Left
}

// Height returns the number of visible rows.
func (v *Viewport) Height() int {
	return v.rect.Height
}

// Width returns the number of visible cells per row.
func (v *Viewport) Width() int {
	return v.rect.Width
}

// Margin returns the configured horizontal margin.
func (v *Viewport) Margin() int {
	return v.margin
}

// SetMargin sets the horizontal margin. Negative values are treated as 0.
func (v *Viewport) SetMargin(m int) {
	v.margin = max(m, 0)
}

// effectiveMargin never lets the margin push the cursor out of view.
func (v *Viewport) effectiveMargin() int {
	return min(v.margin, v.rect.Width-1)
}

// Contains returns true if the cell (line, col) is inside the rectangle.
func (v *Viewport) Contains(line, col int) bool {
	r := v.rect
	return line >= r.Top && line < r.Top+r.Height &&
		col >= r.Left && col < r.Left+r.Width
}

// EnsureVisible scrolls by the minimum amount that brings (line, col) into
// view and reports whether the rectangle changed. Vertical scrolling is by
// whole lines. Horizontal scrolling keeps the margin as context beside the
// cursor. Calling it again with the same position changes nothing.
func (v *Viewport) EnsureVisible(line, col int) bool {
	line, col = max(line, 0), max(col, 0)
	v.cursorLine, v.cursorCol = line, col

	before := v.rect
	r := &v.rect

	switch {
	case line < r.Top:
		r.Top = line
	case line >= r.Top+r.Height:
		r.Top = line - r.Height + 1
	}

	m := v.effectiveMargin()
	switch {
	case col < r.Left:
		r.Left = max(col-m, 0)
	case col >= r.Left+r.Width:
		r.Left = col - r.Width + 1 + m
	}

	return v.rect != before
}

// Resize updates the dimensions and re-applies EnsureVisible against the last
// cursor position. It reports whether the rectangle changed.
func (v *Viewport) Resize(height, width int) bool {
	before := v.rect
	v.rect.Height = max(height, 1)
	v.rect.Width = max(width, 1)
	v.EnsureVisible(v.cursorLine, v.cursorCol)
	return v.rect != before
}

// ToScreen converts a buffer line and cell column to a screen row and column.
// The result is only meaningful when Contains(line, col) is true.
func (v *Viewport) ToScreen(line, col int) (row, screenCol int) {
	return line - v.rect.Top, col - v.rect.Left
}

// VisibleLines yields (buffer line, screen row) pairs for the rows that show
// document content, given the document's line count. Rows past the end of
// the document are not yielded. The sequence may be iterated any number of
// times.
func (v *Viewport) VisibleLines(lineCount int) iter.Seq2[int, int] {
	top, height := v.rect.Top, v.rect.Height
	return func(yield func(int, int) bool) {
		for row := 0; row < height && top+row < lineCount; row++ {
			if !yield(top+row, row) {
				return
			}
		}
	}
}
