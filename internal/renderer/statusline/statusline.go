// Package statusline builds the bottom status row: file name, modified flag,
// cursor position and the last message.
package statusline

import (
	"strconv"

	"github.com/mattn/go-runewidth"

	"github.com/dshills/kilt/internal/renderer/core"
)

// MessageType indicates the type of status message.
type MessageType int

const (
	MessageNone MessageType = iota
	MessageInfo
	MessageWarning
	MessageError
)

// NoName is shown for a document without a file name.
const NoName = "[No Name]"

// Styles configures the status row colors.
type Styles struct {
	Bar     core.Style
	Warning core.Style
	Error   core.Style
}

// DefaultStyles returns reverse video for the bar with colored messages.
func DefaultStyles() Styles {
	bar := core.DefaultStyle().Reverse()
	return Styles{
		Bar:     bar,
		Warning: bar.WithForeground(core.ColorFromIndex(3)),
		Error:   bar.WithForeground(core.ColorFromIndex(1)).Bold(),
	}
}

// StatusLine holds what the status row displays.
type StatusLine struct {
	filename   string
	modified   bool
	readOnly   bool
	line       int // 1-indexed for display
	col        int // 1-indexed for display
	totalLines int

	message     string
	messageType MessageType

	styles Styles
}

// New creates a new status line.
func New(styles Styles) *StatusLine {
	return &StatusLine{styles: styles, line: 1, col: 1}
}

// SetStyles replaces the styles.
func (s *StatusLine) SetStyles(styles Styles) {
	s.styles = styles
}

// SetFilename updates the displayed filename.
func (s *StatusLine) SetFilename(filename string) {
	s.filename = filename
}

// SetModified updates the modified indicator.
func (s *StatusLine) SetModified(modified bool) {
	s.modified = modified
}

// SetReadOnly updates the read-only indicator.
func (s *StatusLine) SetReadOnly(readOnly bool) {
	s.readOnly = readOnly
}

// SetPosition updates the cursor position from zero-based coordinates.
func (s *StatusLine) SetPosition(line, col, totalLines int) {
	s.line = line + 1
	s.col = col + 1
	s.totalLines = totalLines
}

// SetMessage displays a status message until it is replaced or cleared.
func (s *StatusLine) SetMessage(msg string, msgType MessageType) {
	s.message = msg
	s.messageType = msgType
}

// ClearMessage clears the status message.
func (s *StatusLine) ClearMessage() {
	s.message = ""
	s.messageType = MessageNone
}

// Message returns the current message and its type.
func (s *StatusLine) Message() (string, MessageType) {
	return s.message, s.messageType
}

// Left returns the left-aligned text: file name, flags and message.
func (s *StatusLine) Left() string {
	text := " " + s.filename
	if s.filename == "" {
		text = " " + NoName
	}
	if s.modified {
		text += " [+]"
	}
	if s.readOnly {
		text += " [RO]"
	}
	if s.message != "" {
		text += "  " + s.message
	}
	return text
}

// Right returns the right-aligned position text, e.g. "Ln 3, Col 7 / 120 ".
func (s *StatusLine) Right() string {
	return "Ln " + strconv.Itoa(s.line) + ", Col " + strconv.Itoa(s.col) +
		" / " + strconv.Itoa(s.totalLines) + " "
}

// Cells lays the status row out in exactly width cells. The left text is
// truncated first so the position stays visible; if even the position does
// not fit it is truncated too.
func (s *StatusLine) Cells(width int) []core.Cell {
	if width <= 0 {
		return nil
	}
	style := s.styles.Bar
	switch s.messageType {
	case MessageWarning:
		style = s.styles.Warning
	case MessageError:
		style = s.styles.Error
	}

	right := s.Right()
	if rw := runewidth.StringWidth(right); rw >= width {
		right = runewidth.Truncate(right, width, "")
	}
	room := width - runewidth.StringWidth(right)
	left := ""
	if room > 1 {
		// One cell separates the two sides.
		left = runewidth.Truncate(s.Left(), room-1, "…")
	}
	text := runewidth.FillRight(left, room) + right

	cells := make([]core.Cell, 0, width)
	for _, r := range text {
		c := core.NewStyledCell(r, style)
		cells = append(cells, c)
		if c.Width == 2 {
			cells = append(cells, core.ContinuationCell(style))
		}
	}
	for len(cells) < width {
		cells = append(cells, core.Cell{Rune: ' ', Width: 1, Style: style})
	}
	return cells[:width]
}
