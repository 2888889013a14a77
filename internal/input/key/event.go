package key

import (
	"fmt"
	"strings"
	"unicode"
)

// Event represents a single key press. Events are comparable and are used
// directly as keymap keys.
type Event struct {
	// Key identifies the key pressed.
	Key Key

	// Rune is the character for KeyRune events.
	Rune rune

	// Modifiers contains the active modifier keys.
	Modifiers Modifier
}

// NewRuneEvent creates a key event for a character. Shift is dropped since
// the rune already reflects it, and Ctrl combinations use lower case.
func NewRuneEvent(r rune, mods Modifier) Event {
	mods = mods.Without(ModShift)
	if mods.Has(ModCtrl) {
		r = unicode.ToLower(r)
	}
	return Event{Key: KeyRune, Rune: r, Modifiers: mods}
}

// NewSpecialEvent creates a key event for a special key.
func NewSpecialEvent(key Key, mods Modifier) Event {
	return Event{Key: key, Modifiers: mods}
}

// IsRune returns true if this is a character key event.
func (e Event) IsRune() bool {
	return e.Key == KeyRune && e.Rune != 0
}

// IsChar returns true if this is a character with no modifiers that is not
// a C0 or C1 control, that is, one that inserts itself when unbound.
// Format characters and non-ASCII spaces such as U+200D and U+3000 count.
func (e Event) IsChar() bool {
	return e.IsRune() && e.Modifiers == ModNone && !unicode.IsControl(e.Rune)
}

// String returns a canonical specification that Parse accepts.
// Examples: "a", "Ctrl+S", "Shift+Up", "Enter", "Space".
func (e Event) String() string {
	var parts []string
	if e.Modifiers.Has(ModCtrl) {
		parts = append(parts, "Ctrl")
	}
	if e.Modifiers.Has(ModAlt) {
		parts = append(parts, "Alt")
	}
	if e.Modifiers.Has(ModShift) {
		parts = append(parts, "Shift")
	}
	if e.Modifiers.Has(ModMeta) {
		parts = append(parts, "Meta")
	}

	switch {
	case e.Key != KeyRune:
		parts = append(parts, e.Key.String())
	case e.Rune == ' ':
		parts = append(parts, "Space")
	case e.Rune == '+' && len(parts) > 0:
		parts = append(parts, "Plus")
	case e.Modifiers.Has(ModCtrl):
		parts = append(parts, strings.ToUpper(string(e.Rune)))
	default:
		parts = append(parts, string(e.Rune))
	}
	return strings.Join(parts, "+")
}

// GoString implements fmt.GoStringer for debugging.
func (e Event) GoString() string {
	return fmt.Sprintf("Event{Key: %s, Rune: %q, Modifiers: %s}",
		e.Key, e.Rune, e.Modifiers)
}
