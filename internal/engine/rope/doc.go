// Package rope provides an immutable rope for rune-indexed text storage.
//
// A rope is a B+ tree whose leaves hold bounded rune chunks and whose
// internal nodes cache aggregated metrics (rune count and newline count) for
// each child. Offsets are measured in Unicode scalar values, never bytes, so
// an edit can never split a multi-byte character.
//
// Key features:
//   - O(log n) insertion, deletion and line seeking
//   - Immutable operations return new ropes; originals are never modified
//   - Line lookups descend by cached newline counts instead of scanning
//
// Basic usage:
//
//	r := rope.FromString("hello world")
//	r = r.Insert(5, ",")           // "hello, world"
//	r = r.Delete(0, 7)             // "world"
//	text := r.String()             // "world"
package rope
