package keymap

import (
	"errors"
	"sort"

	"github.com/dshills/kilt/internal/command"
	"github.com/dshills/kilt/internal/input/key"
)

// Keymap is a table of key bindings. The zero value is not usable; create
// one with New or Default. A Keymap is not safe for concurrent mutation.
type Keymap struct {
	bindings map[key.Event]command.Kind
}

// New creates an empty keymap.
func New() *Keymap {
	return &Keymap{bindings: make(map[key.Event]command.Kind)}
}

// Lookup returns the command bound to ev.
func (km *Keymap) Lookup(ev key.Event) (command.Kind, bool) {
	kind, ok := km.bindings[ev]
	return kind, ok
}

// Bind binds ev to kind, replacing any existing binding. Binding to
// command.None removes the binding.
func (km *Keymap) Bind(ev key.Event, kind command.Kind) {
	if kind == command.None {
		delete(km.bindings, ev)
		return
	}
	km.bindings[ev] = kind
}

// Unbind removes the binding for ev.
func (km *Keymap) Unbind(ev key.Event) {
	delete(km.bindings, ev)
}

// Len returns the number of bindings.
func (km *Keymap) Len() int {
	return len(km.bindings)
}

// Clone returns an independent copy.
func (km *Keymap) Clone() *Keymap {
	c := &Keymap{bindings: make(map[key.Event]command.Kind, len(km.bindings))}
	for ev, kind := range km.bindings {
		c.bindings[ev] = kind
	}
	return c
}

// Merge applies bindings over the keymap in order. Later bindings win.
// Invalid entries are skipped and reported together; valid entries are
// still applied.
func (km *Keymap) Merge(bindings []Binding) error {
	var errs []error
	for _, b := range bindings {
		ev, kind, err := b.Resolve()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		km.Bind(ev, kind)
	}
	return errors.Join(errs...)
}

// Bindings returns the table as bindings sorted by key specification.
func (km *Keymap) Bindings() []Binding {
	out := make([]Binding, 0, len(km.bindings))
	for ev, kind := range km.bindings {
		out = append(out, NewBinding(ev.String(), kind.String()))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Keys < out[j].Keys
	})
	return out
}
