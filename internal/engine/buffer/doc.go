// Package buffer holds the document text of the editor.
//
// Text is addressed by Position, a zero-based (line, column) pair whose column
// counts Unicode scalar values (runes), never bytes or display cells. Every
// mutation goes through a Store, which validates its input and reports
// ErrOutOfRange or ErrInvalidRange instead of clamping. Callers, the cursor
// model in particular, are expected to compute valid positions first.
//
// Two Store implementations share the contract:
//
//   - Buffer: an array of rune lines. Same-line edits touch one line and
//     line-start offsets are re-indexed lazily from the first changed line.
//   - RopeBuffer: a rune-indexed rope with O(log n) edits and line seeks,
//     useful for very large files.
//
// Basic usage:
//
//	buf := buffer.NewBufferFromString("ab\ncd")
//	end, _ := buf.Insert(buffer.Position{Line: 0, Column: 1}, "X") // "aXb\ncd"
//	removed, _ := buf.Delete(buffer.Position{}, end)              // "aX"
//
// Files are converted to and from document text by Decode and Encode, which
// normalize "\r\n" to "\n" on load and restore it on save.
//
// Stores are not safe for concurrent use; the editing loop owns them.
package buffer
