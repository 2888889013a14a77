package buffer

import (
	"fmt"

	"github.com/dshills/kilt/internal/engine/rope"
)

// RopeBuffer is a Store backed by an immutable rope.
//
// Edits and line seeks are O(log n) in document size regardless of where
// they land. Each edit produces a new rope value that shares structure with
// the previous one.
type RopeBuffer struct {
	rope     rope.Rope
	revision uint64
}

var _ Store = (*RopeBuffer)(nil)

// NewRopeBuffer creates an empty rope-backed buffer.
func NewRopeBuffer() *RopeBuffer {
	return &RopeBuffer{rope: rope.New()}
}

// NewRopeBufferFromString creates a rope-backed buffer holding s.
// Line endings in s are normalized to "\n".
func NewRopeBufferFromString(s string) *RopeBuffer {
	return &RopeBuffer{rope: rope.FromString(NormalizeLineEndings(s))}
}

// Read Operations

// LineCount returns the number of lines.
func (b *RopeBuffer) LineCount() int {
	return b.rope.LineCount()
}

// Len returns the document length in runes, terminators included.
func (b *RopeBuffer) Len() int {
	return b.rope.Len()
}

// Revision returns the mutation counter.
func (b *RopeBuffer) Revision() uint64 {
	return b.revision
}

// Line returns the text of a line without its terminator.
func (b *RopeBuffer) Line(index int) (string, error) {
	if err := b.checkLine(index); err != nil {
		return "", err
	}
	return b.rope.LineText(index), nil
}

// LineRunes returns a copy of a line's runes.
func (b *RopeBuffer) LineRunes(index int) ([]rune, error) {
	if err := b.checkLine(index); err != nil {
		return nil, err
	}
	runes := b.rope.Runes(b.rope.LineStart(index), b.rope.LineEnd(index))
	if runes == nil {
		runes = []rune{}
	}
	return runes, nil
}

// LineLen returns the number of runes in a line.
func (b *RopeBuffer) LineLen(index int) (int, error) {
	if err := b.checkLine(index); err != nil {
		return 0, err
	}
	return b.rope.LineEnd(index) - b.rope.LineStart(index), nil
}

// Text returns the full document.
func (b *RopeBuffer) Text() string {
	return b.rope.String()
}

// Validate reports whether pos is a valid insertion point.
func (b *RopeBuffer) Validate(pos Position) error {
	n := b.rope.LineCount()
	if pos.Line < 0 || pos.Line >= n {
		return fmt.Errorf("position %s: line beyond %d lines: %w", pos, n, ErrOutOfRange)
	}
	length := b.rope.LineEnd(pos.Line) - b.rope.LineStart(pos.Line)
	if pos.Column < 0 || pos.Column > length {
		return fmt.Errorf("position %s: column beyond line length %d: %w", pos, length, ErrOutOfRange)
	}
	return nil
}

func (b *RopeBuffer) checkLine(index int) error {
	if n := b.rope.LineCount(); index < 0 || index >= n {
		return fmt.Errorf("line %d of %d: %w", index, n, ErrOutOfRange)
	}
	return nil
}

// Coordinate Conversion

// PositionToOffset converts a position to a rune offset.
func (b *RopeBuffer) PositionToOffset(pos Position) (int, error) {
	if err := b.Validate(pos); err != nil {
		return 0, err
	}
	return b.rope.LineStart(pos.Line) + pos.Column, nil
}

// OffsetToPosition converts a rune offset to a position.
func (b *RopeBuffer) OffsetToPosition(offset int) (Position, error) {
	if offset < 0 || offset > b.rope.Len() {
		return Position{}, fmt.Errorf("offset %d of %d: %w", offset, b.rope.Len(), ErrOutOfRange)
	}
	p := b.rope.OffsetToPoint(offset)
	return Position{Line: p.Line, Column: p.Column}, nil
}

// Write Operations

// Insert inserts text at pos and returns the position just past the
// inserted text. Line endings in text are normalized to "\n".
func (b *RopeBuffer) Insert(pos Position, text string) (Position, error) {
	offset, err := b.PositionToOffset(pos)
	if err != nil {
		return Position{}, err
	}
	if text == "" {
		return pos, nil
	}

	text = NormalizeLineEndings(text)
	b.rope = b.rope.Insert(offset, text)
	b.revision++
	return b.OffsetToPosition(offset + runeCount(text))
}

// Delete removes the text in [start, end) and returns it.
func (b *RopeBuffer) Delete(start, end Position) (string, error) {
	from, to, err := b.offsets("delete", start, end)
	if err != nil {
		return "", err
	}
	if from == to {
		return "", nil
	}

	removed := b.rope.Slice(from, to)
	b.rope = b.rope.Delete(from, to)
	b.revision++
	return removed, nil
}

// Slice returns the text in [start, end).
func (b *RopeBuffer) Slice(start, end Position) (string, error) {
	from, to, err := b.offsets("slice", start, end)
	if err != nil {
		return "", err
	}
	return b.rope.Slice(from, to), nil
}

// offsets converts a range to rune offsets, rejecting inverted ranges.
func (b *RopeBuffer) offsets(op string, start, end Position) (int, int, error) {
	from, err := b.PositionToOffset(start)
	if err != nil {
		return 0, 0, err
	}
	to, err := b.PositionToOffset(end)
	if err != nil {
		return 0, 0, err
	}
	if to < from {
		return 0, 0, fmt.Errorf("%s %s..%s: %w", op, start, end, ErrInvalidRange)
	}
	return from, to, nil
}
