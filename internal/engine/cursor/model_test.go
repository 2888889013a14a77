package cursor

import (
	"errors"
	"testing"

	"github.com/dshills/kilt/internal/engine/buffer"
)

func newModel(text string) *Model {
	return New(buffer.NewBufferFromString(text), Options{})
}

func pos(line, col int) Position {
	return Position{Line: line, Column: col}
}

func TestCursorSelection(t *testing.T) {
	c := At(pos(1, 2))
	if _, ok := c.Selection(); ok {
		t.Error("cursor without anchor should not select")
	}

	c = c.Extend(pos(0, 1))
	r, ok := c.Selection()
	if !ok {
		t.Fatal("extended cursor should select")
	}
	if r.Start != pos(0, 1) || r.End != pos(1, 2) {
		t.Errorf("Selection() = %s, want normalized (0:1)-(1:2)", r)
	}

	c = c.Extend(pos(1, 2))
	if c.HasSelection() {
		t.Error("head back at anchor should be an empty selection")
	}
	if c.Collapse().HasAnchor {
		t.Error("Collapse should clear anchor")
	}
}

func TestMoveBoundaries(t *testing.T) {
	m := newModel("ab\ncd")

	m.Move(Left, false)
	if m.Position() != pos(0, 0) {
		t.Errorf("Left at buffer start moved to %s", m.Position())
	}
	m.Move(Up, false)
	if m.Position() != pos(0, 0) {
		t.Errorf("Up on first line moved to %s", m.Position())
	}

	m.Move(BufferEnd, false)
	if m.Position() != pos(1, 2) {
		t.Fatalf("BufferEnd = %s, want (1:2)", m.Position())
	}
	m.Move(Right, false)
	if m.Position() != pos(1, 2) {
		t.Errorf("Right at buffer end moved to %s", m.Position())
	}
	m.Move(Down, false)
	if m.Position() != pos(1, 2) {
		t.Errorf("Down on last line moved to %s", m.Position())
	}
}

func TestMoveWraps(t *testing.T) {
	m := newModel("ab\ncd")
	m.SetPosition(pos(1, 0))

	m.Move(Left, false)
	if m.Position() != pos(0, 2) {
		t.Errorf("Left at column 0 = %s, want end of previous line (0:2)", m.Position())
	}
	m.Move(Right, false)
	if m.Position() != pos(1, 0) {
		t.Errorf("Right at line end = %s, want start of next line (1:0)", m.Position())
	}
}

func TestMoveDirections(t *testing.T) {
	text := "first line\nsecond\n\nlast line here"
	tests := []struct {
		name  string
		start Position
		dir   Direction
		want  Position
	}{
		{"line start", pos(1, 3), LineStart, pos(1, 0)},
		{"line end", pos(1, 3), LineEnd, pos(1, 6)},
		{"buffer start", pos(3, 4), BufferStart, pos(0, 0)},
		{"buffer end", pos(0, 4), BufferEnd, pos(3, 14)},
		{"down clamps", pos(0, 9), Down, pos(1, 6)},
		{"up", pos(1, 2), Up, pos(0, 2)},
		{"word right", pos(0, 0), WordRight, pos(0, 6)},
		{"word right to line end", pos(0, 6), WordRight, pos(0, 10)},
		{"word right wraps", pos(0, 10), WordRight, pos(1, 0)},
		{"word left", pos(3, 9), WordLeft, pos(3, 5)},
		{"word left to word start", pos(3, 7), WordLeft, pos(3, 5)},
		{"word left wraps", pos(3, 0), WordLeft, pos(2, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newModel(text)
			if err := m.SetPosition(tt.start); err != nil {
				t.Fatal(err)
			}
			m.Move(tt.dir, false)
			if m.Position() != tt.want {
				t.Errorf("Move(%s) from %s = %s, want %s", tt.dir, tt.start, m.Position(), tt.want)
			}
		})
	}
}

func TestStickyColumn(t *testing.T) {
	m := newModel("long line here\nab\n\nanother long line")
	m.SetPosition(pos(0, 10))

	m.Move(Down, false)
	if m.Position() != pos(1, 2) {
		t.Fatalf("Down onto short line = %s, want (1:2)", m.Position())
	}
	m.Move(Down, false)
	if m.Position() != pos(2, 0) {
		t.Fatalf("Down onto empty line = %s, want (2:0)", m.Position())
	}
	m.Move(Down, false)
	if m.Position() != pos(3, 10) {
		t.Errorf("Down onto long line = %s, want sticky column restored (3:10)", m.Position())
	}

	// Horizontal movement resets the desired column.
	m.Move(Left, false)
	m.Move(Up, false)
	m.Move(Up, false)
	m.Move(Up, false)
	if m.Position() != pos(0, 9) {
		t.Errorf("after Left then Up x3 = %s, want (0:9)", m.Position())
	}
}

func TestPageMovement(t *testing.T) {
	m := newModel("0\n1\n2\n3\n4\n5\n6\n7\n8\n9")
	m.SetPageSize(4)

	m.Move(PageDown, false)
	if m.Position().Line != 4 {
		t.Errorf("PageDown = line %d, want 4", m.Position().Line)
	}
	m.Move(PageDown, false)
	m.Move(PageDown, false)
	if m.Position().Line != 9 {
		t.Errorf("PageDown past end = line %d, want 9", m.Position().Line)
	}
	m.Move(PageUp, false)
	if m.Position().Line != 5 {
		t.Errorf("PageUp = line %d, want 5", m.Position().Line)
	}
}

func TestExtendSelection(t *testing.T) {
	m := newModel("hello\nworld")
	m.SetPosition(pos(0, 1))

	m.Move(Right, true)
	m.Move(Right, true)
	r, ok := m.Selection()
	if !ok || r.Start != pos(0, 1) || r.End != pos(0, 3) {
		t.Fatalf("Selection() = %s, %v; want (0:1)-(0:3)", r, ok)
	}
	if got := m.SelectedText(); got != "el" {
		t.Errorf("SelectedText() = %q, want %q", got, "el")
	}

	m.Move(Down, true)
	if got := m.SelectedText(); got != "ello\nwor" {
		t.Errorf("SelectedText() = %q, want %q", got, "ello\nwor")
	}

	m.Move(Left, false)
	if _, ok := m.Selection(); ok {
		t.Error("non-extending move should clear selection")
	}
}

func TestInsertText(t *testing.T) {
	m := newModel("ab\ncd")
	m.SetPosition(pos(0, 1))

	if err := m.InsertText("X"); err != nil {
		t.Fatal(err)
	}
	if got := m.Buffer().Text(); got != "aXb\ncd" {
		t.Errorf("Text() = %q, want %q", got, "aXb\ncd")
	}
	if m.Position() != pos(0, 2) {
		t.Errorf("Position() = %s, want (0:2)", m.Position())
	}

	m.InsertText("\n")
	if got := m.Buffer().Text(); got != "aX\nb\ncd" {
		t.Errorf("after newline Text() = %q", got)
	}
	if m.Position() != pos(1, 0) {
		t.Errorf("after newline Position() = %s, want (1:0)", m.Position())
	}
}

func TestInsertReplacesSelection(t *testing.T) {
	m := newModel("hello world")
	m.SetPosition(pos(0, 6))
	m.Move(LineEnd, true)

	m.InsertText("there")
	if got := m.Buffer().Text(); got != "hello there" {
		t.Errorf("Text() = %q, want %q", got, "hello there")
	}
	if m.Cursor().HasAnchor {
		t.Error("insert should clear the anchor")
	}
	if m.Position() != pos(0, 11) {
		t.Errorf("Position() = %s, want (0:11)", m.Position())
	}
}

func TestDeleteBefore(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		start   Position
		want    string
		wantPos Position
	}{
		{"mid line", "abc", pos(0, 2), "ac", pos(0, 1)},
		{"join lines", "ab\ncd", pos(1, 0), "abcd", pos(0, 2)},
		{"buffer start", "ab", pos(0, 0), "ab", pos(0, 0)},
		{"multi-byte", "a世b", pos(0, 2), "ab", pos(0, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newModel(tt.text)
			m.SetPosition(tt.start)
			if err := m.DeleteBefore(); err != nil {
				t.Fatal(err)
			}
			if got := m.Buffer().Text(); got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
			if m.Position() != tt.wantPos {
				t.Errorf("Position() = %s, want %s", m.Position(), tt.wantPos)
			}
		})
	}
}

func TestDeleteAfter(t *testing.T) {
	tests := []struct {
		name string
		text string
		at   Position
		want string
	}{
		{"mid line", "abc", pos(0, 1), "ac"},
		{"join lines", "ab\ncd", pos(0, 2), "abcd"},
		{"buffer end", "ab", pos(0, 2), "ab"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newModel(tt.text)
			m.SetPosition(tt.at)
			if err := m.DeleteAfter(); err != nil {
				t.Fatal(err)
			}
			if got := m.Buffer().Text(); got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
			if m.Position() != tt.at {
				t.Errorf("Position() = %s, want unchanged %s", m.Position(), tt.at)
			}
		})
	}
}

func TestDeleteSelection(t *testing.T) {
	m := newModel("hello\nworld")
	m.SetPosition(pos(1, 2))
	m.Move(Up, true)

	if err := m.DeleteBefore(); err != nil {
		t.Fatal(err)
	}
	if got := m.Buffer().Text(); got != "herld" {
		t.Errorf("Text() = %q, want %q", got, "herld")
	}
	if m.Position() != pos(0, 2) {
		t.Errorf("Position() = %s, want (0:2)", m.Position())
	}
}

func TestGraphemeMode(t *testing.T) {
	// "e" followed by a combining acute accent is one cluster of two runes.
	text := "ae\u0301b"
	m := New(buffer.NewBufferFromString(text), Options{Grapheme: true})
	m.SetPosition(pos(0, 3))

	if err := m.DeleteBefore(); err != nil {
		t.Fatal(err)
	}
	if got := m.Buffer().Text(); got != "ab" {
		t.Errorf("grapheme DeleteBefore Text() = %q, want %q", got, "ab")
	}

	m = New(buffer.NewBufferFromString(text), Options{Grapheme: true})
	m.SetPosition(pos(0, 1))
	m.Move(Right, false)
	if m.Position() != pos(0, 3) {
		t.Errorf("grapheme Right = %s, want (0:3)", m.Position())
	}
	m.DeleteBefore()
	m.DeleteAfter()
	if got := m.Buffer().Text(); got != "a" {
		t.Errorf("Text() = %q, want %q", got, "a")
	}

	m = New(buffer.NewBufferFromString(text), Options{})
	m.SetPosition(pos(0, 3))
	m.DeleteBefore()
	if got := m.Buffer().Text(); got != "aeb" {
		t.Errorf("rune DeleteBefore Text() = %q, want %q", got, "aeb")
	}
}

func TestSelectAll(t *testing.T) {
	m := newModel("one\ntwo")
	m.SelectAll()
	if got := m.SelectedText(); got != "one\ntwo" {
		t.Errorf("SelectedText() = %q", got)
	}
	m.DeleteSelection()
	if m.Buffer().Text() != "" || m.Position() != pos(0, 0) {
		t.Errorf("after delete: %q at %s", m.Buffer().Text(), m.Position())
	}
}

func TestClampAfterReplace(t *testing.T) {
	m := newModel("line one\nline two\nline three")
	m.SetPosition(pos(2, 8))

	m.SetBuffer(buffer.NewBufferFromString("short\nx"))
	if m.Position() != pos(1, 1) {
		t.Errorf("Position() after replace = %s, want (1:1)", m.Position())
	}
}

func TestSetPositionValidates(t *testing.T) {
	m := newModel("ab")
	if err := m.SetPosition(pos(3, 0)); !errors.Is(err, buffer.ErrOutOfRange) {
		t.Errorf("SetPosition error = %v, want ErrOutOfRange", err)
	}
}

// failingStore rejects every mutation, standing in for a logic defect.
type failingStore struct {
	*buffer.Buffer
}

func (failingStore) Insert(buffer.Position, string) (buffer.Position, error) {
	return buffer.Position{}, buffer.ErrOutOfRange
}

func TestErrorPolicy(t *testing.T) {
	release := New(failingStore{buffer.NewBufferFromString("ab")}, Options{})
	release.SetPosition(pos(0, 1))
	if err := release.InsertText("x"); !errors.Is(err, buffer.ErrOutOfRange) {
		t.Errorf("release InsertText error = %v", err)
	}
	if release.Position() != pos(0, 1) {
		t.Errorf("release mode should leave the cursor unchanged, got %s", release.Position())
	}

	debug := New(failingStore{buffer.NewBufferFromString("ab")}, Options{Debug: true})
	defer func() {
		if recover() == nil {
			t.Error("debug mode should panic on buffer errors")
		}
	}()
	debug.InsertText("x")
}

// sliceOnlyStore fails the test if the whole document is materialized.
type sliceOnlyStore struct {
	buffer.Store
	t *testing.T
}

func (s sliceOnlyStore) Text() string {
	s.t.Error("Text called")
	return s.Store.Text()
}

func TestSelectedTextSlicesStore(t *testing.T) {
	for _, store := range []buffer.Store{
		buffer.NewBufferFromString("one\ntwo\nthree"),
		buffer.NewRopeBufferFromString("one\ntwo\nthree"),
	} {
		m := New(sliceOnlyStore{Store: store, t: t}, Options{})
		m.SetPosition(pos(0, 2))
		m.Move(Down, true)
		m.Move(Down, true)
		if got := m.SelectedText(); got != "e\ntwo\nth" {
			t.Errorf("SelectedText() = %q, want %q", got, "e\ntwo\nth")
		}
	}
}
