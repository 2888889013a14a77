// Package engine ties the text buffer and cursor model together and applies
// editor commands to them.
//
// # Architecture
//
// The engine is built on several sub-packages:
//
//   - rope: B+ tree rope for rune-indexed text storage
//   - buffer: the Store contract, its line-array and rope implementations,
//     and the file codec
//   - cursor: the single cursor with selection anchor and sticky column
//
// # Ownership
//
// An Engine is owned by the editor's event loop and is not safe for
// concurrent use. Each command is applied to completion before the next is
// read, so no edit is ever observed half-done.
//
// # Basic Usage
//
//	e, _ := engine.New(engine.WithContent("ab\ncd"))
//	e.Apply(command.New(command.MoveRight))
//	e.Apply(command.InsertText("X"))
//	text := e.Text() // "aXb\ncd"
//
// Apply reports an Effect so the caller knows whether to re-render, save or
// quit; the engine itself never performs I/O.
package engine
