// Package keymap maps key events to editor commands.
//
// A Keymap is a fixed table from key.Event to command.Kind. Lookups are a
// single map access; there are no modes, sequences or conditions.
//
// # Defaults
//
// Default returns the built-in bindings: arrows and navigation keys move the
// cursor, their Shift variants extend the selection, Escape and Ctrl+Q quit,
// Ctrl+S saves, Ctrl+A selects all and Ctrl+L redraws.
//
// # Overrides
//
// Override files are YAML or TOML, chosen by file extension:
//
//	bindings:
//	  - keys: "<C-w>"
//	    action: "cursor.wordForward"
//	  - keys: "Ctrl+Q"
//	    action: "none"
//
//	[[bindings]]
//	keys = "Ctrl+S"
//	action = "file.save"
//
// Key specifications accept the readable form ("Ctrl+S", "Shift+Up") and the
// angle bracket form ("<C-s>", "<S-Up>"). Actions are command names as
// returned by command.Kind.String. The action "none" removes a binding.
package keymap
