package backend

import (
	"bytes"
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"

	"github.com/dshills/kilt/internal/renderer"
	"github.com/dshills/kilt/internal/renderer/core"
)

// Encoder turns renderer operations into ANSI escape sequences.
//
// It tracks where the terminal cursor is after each write so that cells
// following each other on a row are written as one run after a single
// cursor move, and it emits SGR sequences only when the style changes.
type Encoder struct {
	buf bytes.Buffer

	style      core.Style
	styleKnown bool

	row, col int
	posKnown bool
}

// NewEncoder creates an encoder with no assumptions about terminal state.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Reset forgets the tracked cursor position and style, for example after
// another program wrote to the terminal.
func (e *Encoder) Reset() {
	e.styleKnown = false
	e.posKnown = false
}

// Encode returns the bytes that apply ops. The returned slice is valid until
// the next call.
func (e *Encoder) Encode(ops []renderer.Op) []byte {
	e.buf.Reset()

	drawing := renderer.CountCells(ops) > 0
	if drawing {
		e.buf.WriteString(ansi.HideCursor)
	}

	for _, op := range ops {
		switch op.Kind {
		case renderer.OpClear:
			e.buf.WriteString(ansi.ResetStyle)
			e.buf.WriteString(ansi.EraseEntireScreen)
			e.style = core.DefaultStyle()
			e.styleKnown = true
			e.posKnown = false
		case renderer.OpCell:
			e.cell(op)
		case renderer.OpCursor:
			e.moveTo(op.Row, op.Col)
		}
	}

	if drawing {
		e.buf.WriteString(ansi.ShowCursor)
	}
	return e.buf.Bytes()
}

func (e *Encoder) cell(op renderer.Op) {
	if op.Cell.IsContinuation() {
		return
	}
	e.moveTo(op.Row, op.Col)
	if !e.styleKnown || op.Cell.Style != e.style {
		e.buf.WriteString(SGR(op.Cell.Style))
		e.style = op.Cell.Style
		e.styleKnown = true
	}

	r := op.Cell.Rune
	if r < ' ' || r == utf8.RuneError || !utf8.ValidRune(r) {
		r = ' '
	}
	e.buf.WriteRune(r)
	e.col += max(op.Cell.Width, 1)
}

func (e *Encoder) moveTo(row, col int) {
	if e.posKnown && e.row == row && e.col == col {
		return
	}
	e.buf.WriteString(ansi.CursorPosition(col+1, row+1))
	e.row, e.col = row, col
	e.posKnown = true
}

// Enter returns the sequence that switches to the alternate screen and
// clears it.
func Enter() string {
	return ansi.SetAltScreenSaveCursorMode + ansi.ResetStyle + ansi.EraseEntireScreen
}

// Exit returns the sequence that restores the primary screen with a visible
// cursor and default style.
func Exit() string {
	return ansi.ResetStyle + ansi.ShowCursor + ansi.ResetAltScreenSaveCursorMode
}

// SGR returns the Select Graphic Rendition sequence for style. It always
// starts from a reset so the result does not depend on the previous style.
func SGR(style core.Style) string {
	s := ansi.Style{}.Reset()
	attrs := []struct {
		attr  core.Attribute
		apply func(ansi.Style) ansi.Style
	}{
		{core.AttrBold, ansi.Style.Bold},
		{core.AttrDim, ansi.Style.Faint},
		{core.AttrItalic, ansi.Style.Italic},
		{core.AttrUnderline, ansi.Style.Underline},
		{core.AttrReverse, ansi.Style.Reverse},
	}
	for _, a := range attrs {
		if style.Attributes.Has(a.attr) {
			s = a.apply(s)
		}
	}
	if c, ok := ansiColor(style.Foreground); ok {
		s = s.ForegroundColor(c)
	}
	if c, ok := ansiColor(style.Background); ok {
		s = s.BackgroundColor(c)
	}
	return s.String()
}

// ansiColor converts c for x/ansi. The default color has no parameter.
func ansiColor(c core.Color) (ansi.Color, bool) {
	switch {
	case c.Default:
		return nil, false
	case c.Indexed && c.R < 16:
		return ansi.BasicColor(c.R), true
	case c.Indexed:
		return ansi.IndexedColor(c.R), true
	default:
		return ansi.RGBColor{R: c.R, G: c.G, B: c.B}, true
	}
}
