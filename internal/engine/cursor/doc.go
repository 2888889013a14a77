// Package cursor implements the cursor and selection model of the editor.
//
// A Model owns a single Cursor over a buffer.Store: an active head position
// plus an optional selection anchor. Navigation commands move the head while
// clamping at document boundaries, and editing commands are translated into
// buffer operations at the head, replacing the selection when one exists.
//
// Selection Model:
//
//   - Head: the current position, where typing occurs
//   - Anchor: where the selection started, present only while extending
//
// A selection is non-empty when the anchor is present and differs from the
// head. Moving without extending clears the anchor.
//
// Vertical movement keeps a desired ("sticky") column so that passing over
// short lines does not lose the horizontal position.
//
// Basic usage:
//
//	buf := buffer.NewBufferFromString("ab\ncd")
//	m := cursor.New(buf, cursor.Options{})
//	m.Move(cursor.Right, false)
//	m.InsertText("X") // "aXb\ncd", head at (0,2)
//
// The Model calls the Store only with positions it has validated. A Store
// error therefore signals a defect: it panics when Options.Debug is set and
// otherwise leaves the model unchanged and returns the error.
package cursor
