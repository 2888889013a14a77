package renderer

import (
	"fmt"

	"github.com/dshills/kilt/internal/renderer/core"
)

// OpKind identifies a terminal write operation.
type OpKind uint8

// Operation kinds.
const (
	// OpCell writes Cell at (Row, Col).
	OpCell OpKind = iota

	// OpCursor places the terminal cursor at (Row, Col).
	OpCursor

	// OpClear erases the whole screen to the default style.
	OpClear
)

// Op is a single terminal write.
type Op struct {
	Kind OpKind
	Row  int
	Col  int
	Cell core.Cell
}

// CellOp returns an OpCell operation.
func CellOp(row, col int, cell core.Cell) Op {
	return Op{Kind: OpCell, Row: row, Col: col, Cell: cell}
}

// CursorOp returns an OpCursor operation.
func CursorOp(row, col int) Op {
	return Op{Kind: OpCursor, Row: row, Col: col}
}

// ClearOp returns an OpClear operation.
func ClearOp() Op {
	return Op{Kind: OpClear}
}

// String returns a readable form for logs and test failures.
func (o Op) String() string {
	switch o.Kind {
	case OpCell:
		return fmt.Sprintf("cell(%d,%d,%q)", o.Row, o.Col, o.Cell.Rune)
	case OpCursor:
		return fmt.Sprintf("cursor(%d,%d)", o.Row, o.Col)
	case OpClear:
		return "clear"
	default:
		return fmt.Sprintf("Op(%d)", o.Kind)
	}
}

// CountCells returns the number of OpCell operations in ops.
func CountCells(ops []Op) int {
	n := 0
	for _, op := range ops {
		if op.Kind == OpCell {
			n++
		}
	}
	return n
}
