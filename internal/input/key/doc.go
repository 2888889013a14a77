// Package key defines the closed set of key events the editor understands.
//
//   - Key: identifies a special key, or KeyRune for characters
//   - Modifier: Ctrl, Alt, Shift and Meta flags
//   - Event: a key, its rune and modifiers; comparable, so it can key a map
//
// Rune events never carry Shift: the rune itself is already upper or lower
// case. Ctrl combinations use the lower-case letter.
//
// # Key Specifications
//
// Key specifications can be written in two formats:
//
//   - With modifiers: "a", "Enter", "Ctrl+S", "Alt+Left", "Shift+Up"
//   - Vim-style: "<C-s>", "<A-f>", "<S-Up>", "<CR>", "<Esc>"
package key
