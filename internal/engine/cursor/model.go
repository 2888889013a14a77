package cursor

import (
	"github.com/dshills/kilt/internal/engine/buffer"
)

// Options configures a Model.
type Options struct {
	// Grapheme makes Left, Right and the single-character deletes operate on
	// whole grapheme clusters instead of single runes.
	Grapheme bool

	// Debug panics on buffer errors instead of ignoring the operation.
	Debug bool
}

// Model tracks the cursor over a buffer and translates editing intents into
// buffer operations. A Model is not safe for concurrent use.
type Model struct {
	buf  buffer.Store
	cur  Cursor
	opts Options

	desiredCol int // sticky column for vertical movement
	pageSize   int
}

// New creates a model with the cursor at the start of buf.
func New(buf buffer.Store, opts Options) *Model {
	return &Model{buf: buf, opts: opts, pageSize: 1}
}

// Buffer returns the underlying store.
func (m *Model) Buffer() buffer.Store {
	return m.buf
}

// SetBuffer replaces the underlying store, for example after a reload,
// and clamps the cursor into the new content.
func (m *Model) SetBuffer(buf buffer.Store) {
	m.buf = buf
	m.Clamp()
}

// Cursor returns the current cursor.
func (m *Model) Cursor() Cursor {
	return m.cur
}

// Position returns the head position.
func (m *Model) Position() Position {
	return m.cur.Head
}

// SetPosition moves the head to pos and clears the selection.
func (m *Model) SetPosition(pos Position) error {
	if err := m.buf.Validate(pos); err != nil {
		return err
	}
	m.cur = At(pos)
	m.desiredCol = pos.Column
	return nil
}

// SetPageSize sets the number of lines PageUp and PageDown move.
func (m *Model) SetPageSize(lines int) {
	m.pageSize = max(lines, 1)
}

// Selection returns the selected range in document order.
func (m *Model) Selection() (Range, bool) {
	return m.cur.Selection()
}

// SelectedText returns the selected text, or "" if nothing is selected.
func (m *Model) SelectedText() string {
	r, ok := m.cur.Selection()
	if !ok {
		return ""
	}
	text, err := m.buf.Slice(r.Start, r.End)
	if err != nil {
		m.fail(err)
		return ""
	}
	return text
}

// SelectAll selects the whole document with the head at the end.
func (m *Model) SelectAll() {
	end := m.documentEnd()
	m.cur = Cursor{Head: end, Anchor: Position{}, HasAnchor: true}
	m.desiredCol = end.Column
}

// ClearSelection drops the anchor, keeping the head.
func (m *Model) ClearSelection() {
	m.cur = m.cur.Collapse()
}

// Clamp pulls the head and anchor back into the document. It is used after
// the content is replaced from outside the model.
func (m *Model) Clamp() {
	m.cur.Head = m.clampPosition(m.cur.Head)
	if m.cur.HasAnchor {
		m.cur.Anchor = m.clampPosition(m.cur.Anchor)
	}
	m.desiredCol = m.cur.Head.Column
}

func (m *Model) clampPosition(p Position) Position {
	p.Line = min(max(p.Line, 0), m.buf.LineCount()-1)
	p.Column = min(max(p.Column, 0), m.lineLen(p.Line))
	return p
}

// Navigation

// Move moves the head in dir. When extend is false the selection is cleared;
// when true the anchor is set to the pre-move head if absent.
func (m *Model) Move(dir Direction, extend bool) {
	head := m.cur.Head
	target := m.target(dir, head)

	if extend {
		m.cur = m.cur.Extend(target)
	} else {
		m.cur = m.cur.MoveTo(target)
	}
	if !dir.IsVertical() {
		m.desiredCol = target.Column
	}
}

// target computes where dir leads from head. Movements at document edges
// return head unchanged.
func (m *Model) target(dir Direction, head Position) Position {
	lastLine := m.buf.LineCount() - 1
	switch dir {
	case Up:
		if head.Line == 0 {
			return head
		}
		return m.vertical(head.Line - 1)
	case Down:
		if head.Line == lastLine {
			return head
		}
		return m.vertical(head.Line + 1)
	case PageUp:
		if head.Line == 0 {
			return head
		}
		return m.vertical(max(head.Line-m.pageSize, 0))
	case PageDown:
		if head.Line == lastLine {
			return head
		}
		return m.vertical(min(head.Line+m.pageSize, lastLine))
	case Left:
		if head.Column > 0 {
			return Position{Line: head.Line, Column: m.stepLeft(head)}
		}
		if head.Line > 0 {
			return Position{Line: head.Line - 1, Column: m.lineLen(head.Line - 1)}
		}
		return head
	case Right:
		if head.Column < m.lineLen(head.Line) {
			return Position{Line: head.Line, Column: m.stepRight(head)}
		}
		if head.Line < lastLine {
			return Position{Line: head.Line + 1}
		}
		return head
	case WordLeft:
		if col := prevWord(m.lineRunes(head.Line), head.Column); col >= 0 {
			return Position{Line: head.Line, Column: col}
		}
		if head.Column > 0 {
			return Position{Line: head.Line}
		}
		if head.Line > 0 {
			return Position{Line: head.Line - 1, Column: m.lineLen(head.Line - 1)}
		}
		return head
	case WordRight:
		if col := nextWord(m.lineRunes(head.Line), head.Column); col >= 0 {
			return Position{Line: head.Line, Column: col}
		}
		if n := m.lineLen(head.Line); head.Column < n {
			return Position{Line: head.Line, Column: n}
		}
		if head.Line < lastLine {
			return Position{Line: head.Line + 1}
		}
		return head
	case LineStart:
		return Position{Line: head.Line}
	case LineEnd:
		return Position{Line: head.Line, Column: m.lineLen(head.Line)}
	case BufferStart:
		return Position{}
	case BufferEnd:
		return m.documentEnd()
	default:
		return head
	}
}

// vertical lands on line at the sticky column, clamped to the line length.
func (m *Model) vertical(line int) Position {
	return Position{Line: line, Column: min(m.desiredCol, m.lineLen(line))}
}

func (m *Model) stepLeft(head Position) int {
	if !m.opts.Grapheme {
		return head.Column - 1
	}
	return prevGrapheme(m.lineRunes(head.Line), head.Column)
}

func (m *Model) stepRight(head Position) int {
	if !m.opts.Grapheme {
		return head.Column + 1
	}
	return nextGrapheme(m.lineRunes(head.Line), head.Column)
}

func (m *Model) documentEnd() Position {
	last := m.buf.LineCount() - 1
	return Position{Line: last, Column: m.lineLen(last)}
}

// Editing

// InsertText replaces the selection, if any, with text and leaves the head
// just past the inserted text.
func (m *Model) InsertText(text string) error {
	if m.cur.HasSelection() {
		if err := m.DeleteSelection(); err != nil {
			return err
		}
	}
	end, err := m.buf.Insert(m.cur.Head, text)
	if err != nil {
		return m.fail(err)
	}
	m.cur = At(end)
	m.desiredCol = end.Column
	return nil
}

// DeleteSelection removes the selected text. It does nothing without a
// selection.
func (m *Model) DeleteSelection() error {
	r, ok := m.cur.Selection()
	if !ok {
		m.cur = m.cur.Collapse()
		return nil
	}
	return m.deleteRange(r.Start, r.End)
}

// DeleteBefore removes the selection, or the character before the head.
// At column 0 it joins the line with the previous one.
func (m *Model) DeleteBefore() error {
	if m.cur.HasSelection() {
		return m.DeleteSelection()
	}
	head := m.cur.Head
	switch {
	case head.Column > 0:
		return m.deleteRange(Position{Line: head.Line, Column: m.stepLeft(head)}, head)
	case head.Line > 0:
		prev := Position{Line: head.Line - 1, Column: m.lineLen(head.Line - 1)}
		return m.deleteRange(prev, head)
	default:
		m.cur = m.cur.Collapse()
		return nil
	}
}

// DeleteAfter removes the selection, or the character at the head.
// At the end of a line it joins the next line onto it.
func (m *Model) DeleteAfter() error {
	if m.cur.HasSelection() {
		return m.DeleteSelection()
	}
	head := m.cur.Head
	switch {
	case head.Column < m.lineLen(head.Line):
		return m.deleteRange(head, Position{Line: head.Line, Column: m.stepRight(head)})
	case head.Line < m.buf.LineCount()-1:
		return m.deleteRange(head, Position{Line: head.Line + 1})
	default:
		m.cur = m.cur.Collapse()
		return nil
	}
}

func (m *Model) deleteRange(start, end Position) error {
	if _, err := m.buf.Delete(start, end); err != nil {
		return m.fail(err)
	}
	m.cur = At(start)
	m.desiredCol = start.Column
	return nil
}

// Helpers

func (m *Model) lineLen(line int) int {
	n, err := m.buf.LineLen(line)
	if err != nil {
		m.fail(err)
		return 0
	}
	return n
}

func (m *Model) lineRunes(line int) []rune {
	runes, err := m.buf.LineRunes(line)
	if err != nil {
		m.fail(err)
		return nil
	}
	return runes
}

// fail reports a buffer error. The model only passes validated positions,
// so any error here is a defect.
func (m *Model) fail(err error) error {
	if m.opts.Debug {
		panic(err)
	}
	return err
}
