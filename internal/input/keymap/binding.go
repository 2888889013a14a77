package keymap

import (
	"fmt"

	"github.com/dshills/kilt/internal/command"
	"github.com/dshills/kilt/internal/input/key"
)

// Binding is a single key-to-action mapping as written in an override file.
type Binding struct {
	// Keys is the key specification.
	// Formats: "a", "Ctrl+S", "<C-s>", "Shift+Up"
	Keys string `yaml:"keys" toml:"keys"`

	// Action is the command name, or "none" to unbind.
	// Examples: "cursor.moveUp", "file.save"
	Action string `yaml:"action" toml:"action"`

	// Description documents the binding. It is not interpreted.
	Description string `yaml:"description,omitempty" toml:"description,omitempty"`
}

// NewBinding creates a new binding with the given keys and action.
func NewBinding(keys, action string) Binding {
	return Binding{
		Keys:   keys,
		Action: action,
	}
}

// Resolve parses the binding into a key event and command kind.
func (b Binding) Resolve() (key.Event, command.Kind, error) {
	ev, err := key.Parse(b.Keys)
	if err != nil {
		return key.Event{}, command.None, fmt.Errorf("binding %q: %w", b.Keys, err)
	}
	kind, err := command.ParseKind(b.Action)
	if err != nil {
		return key.Event{}, command.None, fmt.Errorf("binding %q: %w", b.Keys, err)
	}
	return ev, kind, nil
}

// String returns a human-readable representation.
func (b Binding) String() string {
	return b.Keys + " -> " + b.Action
}
