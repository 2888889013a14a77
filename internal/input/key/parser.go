package key

import (
	"errors"
	"fmt"
	"strings"
)

// Parse errors
var (
	ErrEmptySpec   = errors.New("empty key specification")
	ErrInvalidSpec = errors.New("invalid key specification")
)

// Parse parses a key specification string into an Event.
//
// Supported formats:
//   - Single character: "a", "A", "1", "@"
//   - Special keys: "Enter", "Escape", "Tab", "Backspace", "Space"
//   - With modifiers: "Ctrl+S", "Alt+F4", "Shift+Up", "Ctrl+Plus"
//   - Vim-style: "<C-s>", "<A-f>", "<S-Up>", "<CR>", "<Esc>"
func Parse(spec string) (Event, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Event{}, ErrEmptySpec
	}

	if len(spec) > 2 && strings.HasPrefix(spec, "<") && strings.HasSuffix(spec, ">") {
		return parseParts(strings.Split(spec[1:len(spec)-1], "-"), vimModifier)
	}
	if len(spec) > 1 && strings.Contains(spec, "+") {
		return parseParts(strings.Split(spec, "+"), ModifierFromName)
	}
	return parseKey(spec, ModNone)
}

// vimModifier decodes the single-letter modifiers of Vim notation.
func vimModifier(p string) Modifier {
	switch strings.ToLower(strings.TrimSpace(p)) {
	case "c":
		return ModCtrl
	case "a", "m":
		return ModAlt
	case "s":
		return ModShift
	case "d":
		return ModMeta
	default:
		return ModNone
	}
}

// parseParts treats all but the last part as modifiers.
func parseParts(parts []string, modifier func(string) Modifier) (Event, error) {
	var mods Modifier
	for _, p := range parts[:len(parts)-1] {
		mod := modifier(p)
		if mod == ModNone {
			return Event{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, p)
		}
		mods = mods.With(mod)
	}
	return parseKey(parts[len(parts)-1], mods)
}

// parseKey parses a key part with already-known modifiers.
func parseKey(keyPart string, mods Modifier) (Event, error) {
	keyPart = strings.TrimSpace(keyPart)
	if keyPart == "" {
		return Event{}, fmt.Errorf("%w: missing key", ErrInvalidSpec)
	}

	switch strings.ToLower(keyPart) {
	case "space":
		return NewRuneEvent(' ', mods), nil
	case "plus":
		return NewRuneEvent('+', mods), nil
	case "minus":
		return NewRuneEvent('-', mods), nil
	case "lt":
		return NewRuneEvent('<', mods), nil
	case "gt":
		return NewRuneEvent('>', mods), nil
	}

	if k := KeyFromName(keyPart); k != KeyNone {
		return NewSpecialEvent(k, mods), nil
	}

	runes := []rune(keyPart)
	if len(runes) != 1 {
		return Event{}, fmt.Errorf("%w: unknown key %q", ErrInvalidSpec, keyPart)
	}
	r := runes[0]
	if mods.Has(ModShift) && !mods.Has(ModCtrl) {
		r = []rune(strings.ToUpper(string(r)))[0]
	}
	return NewRuneEvent(r, mods), nil
}

// MustParse parses a key specification and panics on error.
// Use only for known-valid specs in initialization code.
func MustParse(spec string) Event {
	event, err := Parse(spec)
	if err != nil {
		panic("invalid key specification: " + spec + ": " + err.Error())
	}
	return event
}
