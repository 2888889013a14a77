package cursor

import (
	"fmt"

	"github.com/dshills/kilt/internal/engine/buffer"
)

// Position is an alias for buffer.Position for convenience.
type Position = buffer.Position

// Range is an alias for buffer.Range for convenience.
type Range = buffer.Range

// Cursor is an active position with an optional selection anchor.
// Cursor is an immutable value type.
type Cursor struct {
	Head      Position // Where typing occurs
	Anchor    Position // Where the selection started; meaningful only if HasAnchor
	HasAnchor bool
}

// At creates a cursor at pos with no selection.
func At(pos Position) Cursor {
	return Cursor{Head: pos}
}

// MoveTo returns a cursor at pos with the anchor cleared.
func (c Cursor) MoveTo(pos Position) Cursor {
	return Cursor{Head: pos}
}

// Extend returns a cursor at pos that keeps the current anchor, or anchors
// at the current head when there is none.
func (c Cursor) Extend(pos Position) Cursor {
	anchor := c.Anchor
	if !c.HasAnchor {
		anchor = c.Head
	}
	return Cursor{Head: pos, Anchor: anchor, HasAnchor: true}
}

// Collapse returns the cursor with the anchor cleared.
func (c Cursor) Collapse() Cursor {
	return Cursor{Head: c.Head}
}

// HasSelection returns true if the cursor selects at least one rune.
func (c Cursor) HasSelection() bool {
	return c.HasAnchor && c.Anchor != c.Head
}

// Selection returns the selected range in document order.
// ok is false when nothing is selected.
func (c Cursor) Selection() (r Range, ok bool) {
	if !c.HasSelection() {
		return Range{Start: c.Head, End: c.Head}, false
	}
	return buffer.NewRange(c.Anchor, c.Head), true
}

// String returns a string representation of the cursor.
func (c Cursor) String() string {
	if c.HasAnchor {
		return fmt.Sprintf("Cursor(%s anchor %s)", c.Head, c.Anchor)
	}
	return fmt.Sprintf("Cursor(%s)", c.Head)
}
