package buffer

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"unicode/utf8"
)

// Errors returned by buffer operations.
var (
	// ErrOutOfRange indicates a position, line or offset outside the document.
	ErrOutOfRange = errors.New("position out of range")

	// ErrInvalidRange indicates a range whose start is after its end.
	ErrInvalidRange = errors.New("invalid range")
)

// Store is the TextBuffer contract shared by every backing representation.
// Implementations never clamp: invalid input is reported as ErrOutOfRange or
// ErrInvalidRange and leaves the content untouched.
type Store interface {
	// Insert inserts text at pos and returns the position just past it.
	Insert(pos Position, text string) (Position, error)

	// Delete removes [start, end) and returns the removed text.
	Delete(start, end Position) (string, error)

	// Slice returns the text in [start, end) without modifying the store.
	Slice(start, end Position) (string, error)

	// Line returns the text of a line without its terminator.
	Line(index int) (string, error)

	// LineRunes returns a copy of a line's runes without its terminator.
	LineRunes(index int) ([]rune, error)

	// LineLen returns the number of runes in a line without its terminator.
	LineLen(index int) (int, error)

	// LineCount returns the number of lines; an empty document has one line.
	LineCount() int

	// Len returns the number of runes in the document, terminators included.
	Len() int

	// PositionToOffset converts a position to a rune offset.
	PositionToOffset(pos Position) (int, error)

	// OffsetToPosition converts a rune offset to a position.
	OffsetToPosition(offset int) (Position, error)

	// Validate reports whether pos addresses a valid insertion point.
	Validate(pos Position) error

	// Text returns the whole document with "\n" terminators.
	Text() string

	// Revision increases on every successful mutation.
	Revision() uint64
}

// Buffer is the baseline Store: a line-indexed array of rune slices.
//
// Same-line edits cost O(line length). Splitting or joining lines shifts the
// line array. Line start offsets are cached and invalidated only from the
// first affected line onward; the cache is rebuilt lazily up to the line a
// query needs, so typing never pays for the size of the file.
//
// Buffer is not safe for concurrent use. It is owned by the editing loop.
type Buffer struct {
	lines    [][]rune
	starts   []int // starts[i] is the rune offset of line i, valid for i < valid
	valid    int
	length   int
	revision uint64
}

var _ Store = (*Buffer)(nil)

// NewBuffer creates an empty buffer with a single empty line.
func NewBuffer() *Buffer {
	return NewBufferFromString("")
}

// NewBufferFromString creates a buffer holding s.
// Line endings in s are normalized to "\n".
func NewBufferFromString(s string) *Buffer {
	s = NormalizeLineEndings(s)
	parts := strings.Split(s, "\n")
	lines := make([][]rune, len(parts))
	length := len(parts) - 1
	for i, p := range parts {
		lines[i] = []rune(p)
		length += len(lines[i])
	}
	return &Buffer{
		lines:  lines,
		starts: make([]int, len(lines)),
		length: length,
	}
}

// NormalizeLineEndings converts "\r\n" and lone "\r" to "\n".
func NormalizeLineEndings(s string) string {
	if !strings.ContainsRune(s, '\r') {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// Read Operations

// LineCount returns the number of lines.
func (b *Buffer) LineCount() int {
	return len(b.lines)
}

// Len returns the document length in runes, terminators included.
func (b *Buffer) Len() int {
	return b.length
}

// Revision returns the mutation counter.
func (b *Buffer) Revision() uint64 {
	return b.revision
}

// Line returns the text of a line without its terminator.
func (b *Buffer) Line(index int) (string, error) {
	if index < 0 || index >= len(b.lines) {
		return "", fmt.Errorf("line %d of %d: %w", index, len(b.lines), ErrOutOfRange)
	}
	return string(b.lines[index]), nil
}

// LineRunes returns a copy of a line's runes.
func (b *Buffer) LineRunes(index int) ([]rune, error) {
	if index < 0 || index >= len(b.lines) {
		return nil, fmt.Errorf("line %d of %d: %w", index, len(b.lines), ErrOutOfRange)
	}
	return slices.Clone(b.lines[index]), nil
}

// LineLen returns the number of runes in a line.
func (b *Buffer) LineLen(index int) (int, error) {
	if index < 0 || index >= len(b.lines) {
		return 0, fmt.Errorf("line %d of %d: %w", index, len(b.lines), ErrOutOfRange)
	}
	return len(b.lines[index]), nil
}

// Text returns the full document.
func (b *Buffer) Text() string {
	var sb strings.Builder
	sb.Grow(b.length)
	for i, line := range b.lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		for _, r := range line {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// Validate reports whether pos is a valid insertion point.
func (b *Buffer) Validate(pos Position) error {
	if pos.Line < 0 || pos.Line >= len(b.lines) {
		return fmt.Errorf("position %s: line beyond %d lines: %w", pos, len(b.lines), ErrOutOfRange)
	}
	if pos.Column < 0 || pos.Column > len(b.lines[pos.Line]) {
		return fmt.Errorf("position %s: column beyond line length %d: %w", pos, len(b.lines[pos.Line]), ErrOutOfRange)
	}
	return nil
}

// Coordinate Conversion

// PositionToOffset converts a position to a rune offset.
func (b *Buffer) PositionToOffset(pos Position) (int, error) {
	if err := b.Validate(pos); err != nil {
		return 0, err
	}
	b.ensureStarts(pos.Line)
	return b.starts[pos.Line] + pos.Column, nil
}

// OffsetToPosition converts a rune offset to a position.
func (b *Buffer) OffsetToPosition(offset int) (Position, error) {
	if offset < 0 || offset > b.length {
		return Position{}, fmt.Errorf("offset %d of %d: %w", offset, b.length, ErrOutOfRange)
	}
	last := len(b.lines) - 1
	b.ensureStarts(last)
	// Largest line whose start is <= offset.
	line := sort.Search(len(b.lines), func(i int) bool {
		return b.starts[i] > offset
	}) - 1
	return Position{Line: line, Column: offset - b.starts[line]}, nil
}

// ensureStarts makes starts[0..line] valid.
func (b *Buffer) ensureStarts(line int) {
	if b.valid > line {
		return
	}
	if b.valid == 0 {
		b.starts[0] = 0
		b.valid = 1
	}
	for i := b.valid; i <= line; i++ {
		b.starts[i] = b.starts[i-1] + len(b.lines[i-1]) + 1
	}
	b.valid = line + 1
}

// invalidateFrom marks line starts after line as stale and resizes the
// cache to the current line count.
func (b *Buffer) invalidateFrom(line int) {
	if b.valid > line+1 {
		b.valid = line + 1
	}
	if n := len(b.lines); len(b.starts) != n {
		if cap(b.starts) >= n {
			b.starts = b.starts[:n]
		} else {
			b.starts = append(b.starts[:cap(b.starts)], make([]int, n-cap(b.starts))...)
		}
		if b.valid > n {
			b.valid = n
		}
	}
}

// Write Operations

// Insert inserts text at pos and returns the position just past the
// inserted text. Line endings in text are normalized to "\n".
func (b *Buffer) Insert(pos Position, text string) (Position, error) {
	if err := b.Validate(pos); err != nil {
		return Position{}, err
	}
	if text == "" {
		return pos, nil
	}

	text = NormalizeLineEndings(text)
	segments := strings.Split(text, "\n")
	line := b.lines[pos.Line]

	if len(segments) == 1 {
		ins := []rune(text)
		b.lines[pos.Line] = slices.Insert(line, pos.Column, ins...)
		b.length += len(ins)
		b.touch(pos.Line)
		return Position{Line: pos.Line, Column: pos.Column + len(ins)}, nil
	}

	// Split the target line around the insertion point. Every line keeps
	// its own backing array so later in-place edits never alias.
	first := []rune(segments[0])
	head := make([]rune, 0, pos.Column+len(first))
	head = append(head, line[:pos.Column]...)
	head = append(head, first...)

	lastSeg := []rune(segments[len(segments)-1])
	tail := make([]rune, 0, len(lastSeg)+len(line)-pos.Column)
	tail = append(tail, lastSeg...)
	tail = append(tail, line[pos.Column:]...)

	newLines := make([][]rune, 0, len(segments))
	newLines = append(newLines, head)
	inserted := len(first) + len(lastSeg)
	for _, seg := range segments[1 : len(segments)-1] {
		r := []rune(seg)
		inserted += len(r)
		newLines = append(newLines, r)
	}
	newLines = append(newLines, tail)

	b.lines = slices.Replace(b.lines, pos.Line, pos.Line+1, newLines...)
	b.length += inserted + len(segments) - 1
	b.touch(pos.Line)

	return Position{Line: pos.Line + len(segments) - 1, Column: len(lastSeg)}, nil
}

// Delete removes the text in [start, end) and returns it.
func (b *Buffer) Delete(start, end Position) (string, error) {
	if err := b.checkRange("delete", start, end); err != nil {
		return "", err
	}
	if start == end {
		return "", nil
	}

	if start.Line == end.Line {
		line := b.lines[start.Line]
		removed := string(line[start.Column:end.Column])
		b.lines[start.Line] = slices.Delete(line, start.Column, end.Column)
		b.length -= end.Column - start.Column
		b.touch(start.Line)
		return removed, nil
	}

	removed := b.text(start, end)
	first := b.lines[start.Line]
	last := b.lines[end.Line]
	merged := make([]rune, 0, start.Column+len(last)-end.Column)
	merged = append(merged, first[:start.Column]...)
	merged = append(merged, last[end.Column:]...)

	b.lines = slices.Replace(b.lines, start.Line, end.Line+1, merged)
	b.length -= utf8.RuneCountInString(removed)
	b.touch(start.Line)

	return removed, nil
}

// Slice returns the text in [start, end).
func (b *Buffer) Slice(start, end Position) (string, error) {
	if err := b.checkRange("slice", start, end); err != nil {
		return "", err
	}
	return b.text(start, end), nil
}

func (b *Buffer) checkRange(op string, start, end Position) error {
	if err := b.Validate(start); err != nil {
		return err
	}
	if err := b.Validate(end); err != nil {
		return err
	}
	if end.Before(start) {
		return fmt.Errorf("%s %s..%s: %w", op, start, end, ErrInvalidRange)
	}
	return nil
}

// text returns [start, end) of a checked range.
func (b *Buffer) text(start, end Position) string {
	if start.Line == end.Line {
		return string(b.lines[start.Line][start.Column:end.Column])
	}
	var sb strings.Builder
	sb.WriteString(string(b.lines[start.Line][start.Column:]))
	for i := start.Line + 1; i < end.Line; i++ {
		sb.WriteByte('\n')
		sb.WriteString(string(b.lines[i]))
	}
	sb.WriteByte('\n')
	sb.WriteString(string(b.lines[end.Line][:end.Column]))
	return sb.String()
}

// touch records a mutation affecting line and everything after it.
func (b *Buffer) touch(line int) {
	b.revision++
	b.invalidateFrom(line)
}

// runeCount is shared by the Store implementations.
func runeCount(s string) int {
	return utf8.RuneCountInString(s)
}
