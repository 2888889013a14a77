package engine

import (
	"fmt"
	"strings"

	"github.com/dshills/kilt/internal/command"
	"github.com/dshills/kilt/internal/engine/buffer"
	"github.com/dshills/kilt/internal/engine/cursor"
)

// Re-export commonly used types for convenience.
type (
	// Position is a line/column position in runes.
	Position = buffer.Position

	// Range is a pair of positions.
	Range = buffer.Range

	// Cursor is the head position with optional anchor.
	Cursor = cursor.Cursor
)

// Effect tells the caller what applying a command changed or requested.
type Effect uint8

// Effects, in increasing order of impact on the screen.
const (
	// EffectNone means nothing changed.
	EffectNone Effect = iota

	// EffectCursor means the cursor or selection changed.
	EffectCursor

	// EffectEdit means the document changed.
	EffectEdit

	// EffectSave requests the document be written.
	EffectSave

	// EffectQuit requests the session end.
	EffectQuit

	// EffectRedraw requests a full repaint.
	EffectRedraw
)

var effectNames = [...]string{"none", "cursor", "edit", "save", "quit", "redraw"}

// String returns the effect name.
func (e Effect) String() string {
	if int(e) < len(effectNames) {
		return effectNames[e]
	}
	return fmt.Sprintf("Effect(%d)", e)
}

// moves maps movement commands to cursor directions.
var moves = map[command.Kind]cursor.Direction{
	command.MoveUp:            cursor.Up,
	command.MoveDown:          cursor.Down,
	command.MoveLeft:          cursor.Left,
	command.MoveRight:         cursor.Right,
	command.MoveLineStart:     cursor.LineStart,
	command.MoveLineEnd:       cursor.LineEnd,
	command.MoveBufferStart:   cursor.BufferStart,
	command.MoveBufferEnd:     cursor.BufferEnd,
	command.MovePageUp:        cursor.PageUp,
	command.MovePageDown:      cursor.PageDown,
	command.MoveWordLeft:      cursor.WordLeft,
	command.MoveWordRight:     cursor.WordRight,
	command.SelectUp:          cursor.Up,
	command.SelectDown:        cursor.Down,
	command.SelectLeft:        cursor.Left,
	command.SelectRight:       cursor.Right,
	command.SelectLineStart:   cursor.LineStart,
	command.SelectLineEnd:     cursor.LineEnd,
	command.SelectBufferStart: cursor.BufferStart,
	command.SelectBufferEnd:   cursor.BufferEnd,
	command.SelectPageUp:      cursor.PageUp,
	command.SelectPageDown:    cursor.PageDown,
	command.SelectWordLeft:    cursor.WordLeft,
	command.SelectWordRight:   cursor.WordRight,
}

// Engine is the editing core: one document and one cursor.
type Engine struct {
	model *cursor.Model

	// Configuration
	backend    buffer.Backend
	cursorOpts cursor.Options
	tabWidth   int
	expandTabs bool
	readOnly   bool

	// Initialization
	initContent string

	// savedRevision is the buffer revision last written or loaded.
	savedRevision uint64
}

// New creates a new Engine with the given options.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		backend:  buffer.BackendLines,
		tabWidth: DefaultTabWidth,
	}
	for _, opt := range opts {
		opt(e)
	}

	buf, err := buffer.New(e.backend, e.initContent)
	if err != nil {
		return nil, err
	}
	e.model = cursor.New(buf, e.cursorOpts)
	e.savedRevision = buf.Revision()
	return e, nil
}

// Read Operations

// Buffer returns the document store.
func (e *Engine) Buffer() buffer.Store {
	return e.model.Buffer()
}

// Text returns the full document.
func (e *Engine) Text() string {
	return e.model.Buffer().Text()
}

// LineCount returns the number of lines.
func (e *Engine) LineCount() int {
	return e.model.Buffer().LineCount()
}

// Cursor returns the current cursor.
func (e *Engine) Cursor() Cursor {
	return e.model.Cursor()
}

// Position returns the cursor head.
func (e *Engine) Position() Position {
	return e.model.Position()
}

// Selection returns the selected range, if any.
func (e *Engine) Selection() (Range, bool) {
	return e.model.Selection()
}

// SelectedText returns the selected text.
func (e *Engine) SelectedText() string {
	return e.model.SelectedText()
}

// Revision returns the buffer revision.
func (e *Engine) Revision() uint64 {
	return e.model.Buffer().Revision()
}

// Modified returns true if the document changed since it was loaded or
// last saved.
func (e *Engine) Modified() bool {
	return e.model.Buffer().Revision() != e.savedRevision
}

// IsReadOnly returns true if edits are rejected.
func (e *Engine) IsReadOnly() bool {
	return e.readOnly
}

// State Operations

// MarkSaved records the current revision as persisted.
func (e *Engine) MarkSaved() {
	e.savedRevision = e.model.Buffer().Revision()
}

// Reset replaces the document with content, keeping the cursor as close to
// its old position as the new content allows. The result is unmodified.
func (e *Engine) Reset(content string) error {
	buf, err := buffer.New(e.backend, content)
	if err != nil {
		return err
	}
	e.model.SetBuffer(buf)
	e.savedRevision = buf.Revision()
	return nil
}

// SetPageSize sets how many lines PageUp/PageDown move, normally the
// viewport height.
func (e *Engine) SetPageSize(lines int) {
	e.model.SetPageSize(lines)
}

// Command Application

// Apply applies cmd and reports its effect. Errors come from the buffer
// (only in release mode, see cursor.Options.Debug) or from read-only
// protection; the document is unchanged when an error is returned.
func (e *Engine) Apply(cmd command.Command) (Effect, error) {
	if dir, ok := moves[cmd.Kind]; ok {
		before := e.model.Cursor()
		e.model.Move(dir, cmd.Kind.IsSelect())
		if e.model.Cursor() == before {
			return EffectNone, nil
		}
		return EffectCursor, nil
	}

	switch cmd.Kind {
	case command.None:
		return EffectNone, nil
	case command.SelectAll:
		e.model.SelectAll()
		return EffectCursor, nil
	case command.Save:
		return EffectSave, nil
	case command.Quit:
		return EffectQuit, nil
	case command.Redraw:
		return EffectRedraw, nil
	}

	if !cmd.Kind.IsEdit() {
		return EffectNone, fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
	}
	if e.readOnly {
		return EffectNone, ErrReadOnly
	}

	rev := e.model.Buffer().Revision()
	var err error
	switch cmd.Kind {
	case command.Insert:
		if cmd.Text == "" {
			return EffectNone, nil
		}
		err = e.model.InsertText(cmd.Text)
	case command.InsertNewline:
		err = e.model.InsertText("\n")
	case command.InsertTab:
		err = e.model.InsertText(e.tabText())
	case command.DeleteBefore:
		err = e.model.DeleteBefore()
	case command.DeleteAfter:
		err = e.model.DeleteAfter()
	}
	if err != nil {
		return EffectNone, err
	}
	if e.model.Buffer().Revision() == rev {
		return EffectCursor, nil
	}
	return EffectEdit, nil
}

func (e *Engine) tabText() string {
	if e.expandTabs {
		return strings.Repeat(" ", e.tabWidth)
	}
	return "\t"
}
