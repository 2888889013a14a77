// Package input turns raw terminal bytes into editor commands.
//
// A Dispatcher is an incremental decoder. Bytes arrive one at a time from the
// terminal and the dispatcher tracks whether it is between keys, inside an
// escape sequence, or inside a multi-byte UTF-8 character:
//
//	StateIdle             -> next byte starts a key
//	StatePendingEscape    -> ESC seen, collecting a CSI or SS3 sequence
//	StatePendingMultiByte -> UTF-8 lead byte seen, collecting continuations
//
// Completed keys are resolved through a keymap.Keymap. Printable characters
// that are not bound insert themselves; other unbound keys are dropped.
//
// A lone ESC cannot be told apart from the start of a sequence until more
// bytes arrive, so the caller arms a timer while Pending reports true and
// calls Flush when it fires. Flush turns a lone ESC into the Escape key.
//
// Malformed input is counted and logged, then discarded. It never surfaces
// as an error to the caller.
//
// # Usage
//
//	d := input.New(keymap.Default(), input.WithLogger(logger))
//	for _, b := range chunk {
//	    for _, cmd := range d.Feed(b) {
//	        eng.Apply(cmd)
//	    }
//	}
package input
