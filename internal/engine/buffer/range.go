package buffer

import "fmt"

// Range is a span of the document between two positions.
// Start is inclusive, End is exclusive: [Start, End).
type Range struct {
	Start Position // Inclusive start position
	End   Position // Exclusive end position
}

// NewRange creates a Range from two positions in either order.
// The result is always normalized so that Start <= End.
func NewRange(a, b Position) Range {
	return Range{Start: MinPosition(a, b), End: MaxPosition(a, b)}
}

// String returns a human-readable representation of the range.
func (r Range) String() string {
	return fmt.Sprintf("[%s:%s)", r.Start, r.End)
}

// IsEmpty returns true if start equals end.
func (r Range) IsEmpty() bool {
	return r.Start.Compare(r.End) == 0
}

// IsValid returns true if start <= end.
func (r Range) IsValid() bool {
	return r.Start.Compare(r.End) <= 0
}

// Contains returns true if the given position is within the range.
func (r Range) Contains(p Position) bool {
	return p.Compare(r.Start) >= 0 && p.Compare(r.End) < 0
}

// IsSingleLine returns true if the range spans only one line.
func (r Range) IsSingleLine() bool {
	return r.Start.Line == r.End.Line
}

// ContainsCell reports whether the rune at (line, col) is covered by the range.
// Used by the renderer to paint selections.
func (r Range) ContainsCell(line, col int) bool {
	return r.Contains(Position{Line: line, Column: col})
}
