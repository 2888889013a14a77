// Package renderer turns editor state into the minimal set of terminal
// writes.
//
// Rendering is split in two steps. Compose builds the desired screen as a
// Frame: visible document rows mapped through the viewport, the selection in
// reverse video, and the status line on the bottom row. A Differ then
// compares that frame against the last one it rendered and returns the
// write operations for the cells that changed, followed by a cursor
// placement.
//
// The first render, and the first render after Invalidate or Resize, starts
// with OpClear and writes every cell.
//
// Usage:
//
//	d := renderer.NewDiffer()
//	frame := renderer.Compose(scene, width, height)
//	ops := d.Render(frame, renderer.CursorScreen(scene))
//	term.Apply(ops)
package renderer
