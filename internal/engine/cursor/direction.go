package cursor

import "fmt"

// Direction is a cursor movement.
type Direction uint8

// Movement directions.
const (
	Up Direction = iota
	Down
	Left
	Right
	LineStart
	LineEnd
	BufferStart
	BufferEnd
	PageUp
	PageDown
	WordLeft
	WordRight
)

var directionNames = [...]string{
	Up:          "up",
	Down:        "down",
	Left:        "left",
	Right:       "right",
	LineStart:   "line-start",
	LineEnd:     "line-end",
	BufferStart: "buffer-start",
	BufferEnd:   "buffer-end",
	PageUp:      "page-up",
	PageDown:    "page-down",
	WordLeft:    "word-left",
	WordRight:   "word-right",
}

// String returns the direction name.
func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return fmt.Sprintf("Direction(%d)", d)
}

// IsVertical returns true for movements that keep the sticky column.
func (d Direction) IsVertical() bool {
	switch d {
	case Up, Down, PageUp, PageDown:
		return true
	default:
		return false
	}
}
