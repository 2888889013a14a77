package keymap

import (
	"github.com/dshills/kilt/internal/command"
	"github.com/dshills/kilt/internal/input/key"
)

// Default returns a keymap with the built-in bindings.
func Default() *Keymap {
	km := New()
	for _, b := range defaultBindings {
		km.Bind(b.ev, b.kind)
	}
	return km
}

type defaultBinding struct {
	ev   key.Event
	kind command.Kind
}

func special(k key.Key, mods key.Modifier) key.Event {
	return key.NewSpecialEvent(k, mods)
}

func ctrl(r rune) key.Event {
	return key.NewRuneEvent(r, key.ModCtrl)
}

var defaultBindings = []defaultBinding{
	// Session
	{special(key.KeyEscape, key.ModNone), command.Quit},
	{ctrl('q'), command.Quit},
	{ctrl('s'), command.Save},
	{ctrl('l'), command.Redraw},

	// Editing
	{special(key.KeyEnter, key.ModNone), command.InsertNewline},
	{special(key.KeyTab, key.ModNone), command.InsertTab},
	{special(key.KeyBackspace, key.ModNone), command.DeleteBefore},
	{special(key.KeyDelete, key.ModNone), command.DeleteAfter},

	// Movement
	{special(key.KeyUp, key.ModNone), command.MoveUp},
	{special(key.KeyDown, key.ModNone), command.MoveDown},
	{special(key.KeyLeft, key.ModNone), command.MoveLeft},
	{special(key.KeyRight, key.ModNone), command.MoveRight},
	{special(key.KeyHome, key.ModNone), command.MoveLineStart},
	{special(key.KeyEnd, key.ModNone), command.MoveLineEnd},
	{special(key.KeyHome, key.ModCtrl), command.MoveBufferStart},
	{special(key.KeyEnd, key.ModCtrl), command.MoveBufferEnd},
	{special(key.KeyPageUp, key.ModNone), command.MovePageUp},
	{special(key.KeyPageDown, key.ModNone), command.MovePageDown},
	{special(key.KeyLeft, key.ModCtrl), command.MoveWordLeft},
	{special(key.KeyRight, key.ModCtrl), command.MoveWordRight},

	// Selection
	{special(key.KeyUp, key.ModShift), command.SelectUp},
	{special(key.KeyDown, key.ModShift), command.SelectDown},
	{special(key.KeyLeft, key.ModShift), command.SelectLeft},
	{special(key.KeyRight, key.ModShift), command.SelectRight},
	{special(key.KeyHome, key.ModShift), command.SelectLineStart},
	{special(key.KeyEnd, key.ModShift), command.SelectLineEnd},
	{special(key.KeyHome, key.ModCtrl|key.ModShift), command.SelectBufferStart},
	{special(key.KeyEnd, key.ModCtrl|key.ModShift), command.SelectBufferEnd},
	{special(key.KeyPageUp, key.ModShift), command.SelectPageUp},
	{special(key.KeyPageDown, key.ModShift), command.SelectPageDown},
	{special(key.KeyLeft, key.ModCtrl|key.ModShift), command.SelectWordLeft},
	{special(key.KeyRight, key.ModCtrl|key.ModShift), command.SelectWordRight},
	{ctrl('a'), command.SelectAll},
}
