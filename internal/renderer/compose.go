package renderer

import (
	"github.com/dshills/kilt/internal/engine/buffer"
	"github.com/dshills/kilt/internal/renderer/core"
	"github.com/dshills/kilt/internal/renderer/statusline"
	"github.com/dshills/kilt/internal/renderer/viewport"
)

// Placeholder is drawn for a rune whose display width differs from the
// number of cells the column mapper gives it, such as a wide rune under
// ScalarColumns.
const Placeholder = '?'

// Document is the read access rendering needs. buffer.Store satisfies it.
type Document interface {
	LineCount() int
	LineRunes(line int) ([]rune, error)
}

// Theme holds the styles used for document text.
type Theme struct {
	Text      core.Style
	Selection core.Style
}

// DefaultTheme uses the terminal defaults with reverse-video selection.
func DefaultTheme() Theme {
	return Theme{
		Text:      core.DefaultStyle(),
		Selection: core.DefaultStyle().Reverse(),
	}
}

// Scene is everything one frame is composed from.
type Scene struct {
	Doc      Document
	Viewport *viewport.Viewport
	Mapper   viewport.ColumnMapper
	Cursor   buffer.Position

	Selection    buffer.Range
	HasSelection bool

	// Status is drawn on the bottom row when non-nil.
	Status *statusline.StatusLine

	Theme Theme
}

// TextRows returns how many rows of a height-row screen show document text.
func TextRows(height int, status bool) int {
	if status && height > 1 {
		return height - 1
	}
	return max(height, 0)
}

// Compose builds the desired frame for a width x height screen. The
// viewport is expected to already be sized to TextRows by width and to
// contain the cursor.
func Compose(s Scene, width, height int) *Frame {
	f := NewFrame(width, height)
	textRows := TextRows(height, s.Status != nil)

	for line, row := range s.Viewport.VisibleLines(s.Doc.LineCount()) {
		if row >= textRows {
			break
		}
		runes, err := s.Doc.LineRunes(line)
		if err != nil {
			continue
		}
		s.composeLine(f, row, line, runes)
	}

	if s.Status != nil && textRows < height {
		f.SetCells(height-1, 0, s.Status.Cells(width))
	}
	return f
}

func (s Scene) composeLine(f *Frame, row, line int, runes []rune) {
	left := s.Viewport.Left()
	right := left + f.Width()

	x := 0
	for i, r := range runes {
		if x >= right {
			return
		}
		w := s.Mapper.Cells(r, x)
		if w > 0 && x+w > left {
			drawRune(f, row, x-left, w, r, s.styleAt(line, i))
		}
		x += w
	}

	// A selection that runs past the end of the line covers its terminator.
	if x >= left && x < right && s.selected(line, len(runes)) {
		f.SetCell(row, x-left, core.Cell{Rune: ' ', Width: 1, Style: s.Theme.Selection})
	}
}

func (s Scene) selected(line, col int) bool {
	return s.HasSelection && s.Selection.ContainsCell(line, col)
}

func (s Scene) styleAt(line, col int) core.Style {
	if s.selected(line, col) {
		return s.Theme.Selection
	}
	return s.Theme.Text
}

// drawRune draws r into w cells starting at col, which may be partly off
// screen. Cells outside the frame are dropped by SetCell.
func drawRune(f *Frame, row, col, w int, r rune, style core.Style) {
	blank := core.Cell{Rune: ' ', Width: 1, Style: style}

	switch {
	case r == '\t':
		for k := range w {
			f.SetCell(row, col+k, blank)
		}
	case core.RuneWidth(r) != w:
		for k := range w {
			f.SetCell(row, col+k, core.Cell{Rune: Placeholder, Width: 1, Style: style})
		}
	case w == 2:
		// A wide rune cut by either edge is shown as blanks.
		if col < 0 || col+1 >= f.Width() {
			f.SetCell(row, col, blank)
			f.SetCell(row, col+1, blank)
			return
		}
		f.SetCell(row, col, core.Cell{Rune: r, Width: 2, Style: style})
		f.SetCell(row, col+1, core.ContinuationCell(style))
	default:
		f.SetCell(row, col, core.Cell{Rune: r, Width: w, Style: style})
	}
}

// CursorScreen returns the screen position of the scene's cursor.
func CursorScreen(s Scene) core.ScreenPos {
	runes, _ := s.Doc.LineRunes(s.Cursor.Line)
	x := viewport.CellColumn(s.Mapper, runes, s.Cursor.Column)
	row, col := s.Viewport.ToScreen(s.Cursor.Line, x)
	return core.ScreenPos{Row: row, Col: col}
}

// CursorCell returns the cell column of the cursor within its line, the
// value to pass to Viewport.EnsureVisible.
func CursorCell(doc Document, m viewport.ColumnMapper, pos buffer.Position) int {
	runes, _ := doc.LineRunes(pos.Line)
	return viewport.CellColumn(m, runes, pos.Column)
}
