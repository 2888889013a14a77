// Package command defines the closed set of editing intents produced by the
// input dispatcher and applied by the engine.
package command

import (
	"fmt"
	"sort"
)

// Kind identifies a command.
type Kind uint8

// Command kinds.
const (
	None Kind = iota

	// Insert inserts Command.Text at the cursor.
	Insert
	InsertNewline
	InsertTab

	MoveUp
	MoveDown
	MoveLeft
	MoveRight
	MoveLineStart
	MoveLineEnd
	MoveBufferStart
	MoveBufferEnd
	MovePageUp
	MovePageDown
	MoveWordLeft
	MoveWordRight

	SelectUp
	SelectDown
	SelectLeft
	SelectRight
	SelectLineStart
	SelectLineEnd
	SelectBufferStart
	SelectBufferEnd
	SelectPageUp
	SelectPageDown
	SelectWordLeft
	SelectWordRight
	SelectAll

	DeleteBefore
	DeleteAfter

	Save
	Quit
	Redraw

	kindCount
)

var kindNames = [kindCount]string{
	None:              "none",
	Insert:            "editor.insert",
	InsertNewline:     "editor.newline",
	InsertTab:         "editor.tab",
	MoveUp:            "cursor.moveUp",
	MoveDown:          "cursor.moveDown",
	MoveLeft:          "cursor.moveLeft",
	MoveRight:         "cursor.moveRight",
	MoveLineStart:     "cursor.moveLineStart",
	MoveLineEnd:       "cursor.moveLineEnd",
	MoveBufferStart:   "cursor.moveBufferStart",
	MoveBufferEnd:     "cursor.moveBufferEnd",
	MovePageUp:        "cursor.pageUp",
	MovePageDown:      "cursor.pageDown",
	MoveWordLeft:      "cursor.wordBackward",
	MoveWordRight:     "cursor.wordForward",
	SelectUp:          "selection.extendUp",
	SelectDown:        "selection.extendDown",
	SelectLeft:        "selection.extendLeft",
	SelectRight:       "selection.extendRight",
	SelectLineStart:   "selection.extendLineStart",
	SelectLineEnd:     "selection.extendLineEnd",
	SelectBufferStart: "selection.extendBufferStart",
	SelectBufferEnd:   "selection.extendBufferEnd",
	SelectPageUp:      "selection.extendPageUp",
	SelectPageDown:    "selection.extendPageDown",
	SelectWordLeft:    "selection.extendWordBackward",
	SelectWordRight:   "selection.extendWordForward",
	SelectAll:         "selection.all",
	DeleteBefore:      "editor.deleteCharBefore",
	DeleteAfter:       "editor.deleteChar",
	Save:              "file.save",
	Quit:              "app.quit",
	Redraw:            "view.redraw",
}

var kindsByName = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames))
	for k, name := range kindNames {
		m[name] = Kind(k)
	}
	return m
}()

// String returns the canonical command name.
func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// IsMove returns true for cursor movements without selection.
func (k Kind) IsMove() bool {
	return k >= MoveUp && k <= MoveWordRight
}

// IsSelect returns true for movements that extend the selection.
func (k Kind) IsSelect() bool {
	return k >= SelectUp && k <= SelectWordRight
}

// IsEdit returns true for commands that may change the document.
func (k Kind) IsEdit() bool {
	switch k {
	case Insert, InsertNewline, InsertTab, DeleteBefore, DeleteAfter:
		return true
	default:
		return false
	}
}

// ParseKind returns the kind with the given canonical name.
func ParseKind(name string) (Kind, error) {
	if k, ok := kindsByName[name]; ok {
		return k, nil
	}
	return None, fmt.Errorf("unknown command %q", name)
}

// Names returns all command names in sorted order.
func Names() []string {
	names := make([]string, 0, len(kindsByName))
	for name := range kindsByName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Command is a decoded editing intent.
type Command struct {
	Kind Kind

	// Text is the text to insert for Insert commands.
	Text string
}

// New creates a command of the given kind.
func New(kind Kind) Command {
	return Command{Kind: kind}
}

// InsertText creates an Insert command for text.
func InsertText(text string) Command {
	return Command{Kind: Insert, Text: text}
}

// String returns a readable form of the command.
func (c Command) String() string {
	if c.Kind == Insert {
		return fmt.Sprintf("%s(%q)", c.Kind, c.Text)
	}
	return c.Kind.String()
}
