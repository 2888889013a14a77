package config

import (
	"errors"
	"time"

	"github.com/dshills/kilt/internal/engine/buffer"
	"github.com/dshills/kilt/internal/renderer/core"
)

// Limits enforced by Validate.
const (
	MaxTabWidth      = 16
	MaxEscapeTimeout = 2 * time.Second
)

// Validate checks every setting and returns all problems joined.
func (c *Config) Validate() error {
	var errs []error
	bad := func(key string, value any, reason string) {
		errs = append(errs, &ValidationError{Key: key, Value: value, Reason: reason})
	}

	if c.Editor.TabWidth < 1 || c.Editor.TabWidth > MaxTabWidth {
		bad("editor.tab_width", c.Editor.TabWidth, "must be between 1 and 16")
	}
	switch c.Editor.ColumnMode {
	case ColumnScalar, ColumnDisplay:
	default:
		bad("editor.column_mode", c.Editor.ColumnMode, `must be "scalar" or "display"`)
	}
	if _, err := buffer.ParseBackend(c.Buffer.Backend); err != nil {
		bad("buffer.backend", c.Buffer.Backend, `must be "lines" or "rope"`)
	}
	if c.Viewport.Margin < 0 {
		bad("viewport.margin", c.Viewport.Margin, "must not be negative")
	}
	if d := c.Input.EscapeTimeout.Duration; d <= 0 || d > MaxEscapeTimeout {
		bad("input.escape_timeout", d, "must be positive and at most 2s")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		bad("log.level", c.Log.Level, "must be debug, info, warn or error")
	}
	if _, err := core.ColorFromHex(c.UI.StatusFG); err != nil {
		bad("ui.status_fg", c.UI.StatusFG, err.Error())
	}
	if _, err := core.ColorFromHex(c.UI.StatusBG); err != nil {
		bad("ui.status_bg", c.UI.StatusBG, err.Error())
	}

	return errors.Join(errs...)
}

// StatusColors returns the parsed status line colors. Call Validate first;
// unparsable values fall back to the terminal default.
func (c *Config) StatusColors() (fg, bg core.Color) {
	fg, err := core.ColorFromHex(c.UI.StatusFG)
	if err != nil {
		fg = core.ColorDefault
	}
	bg, err = core.ColorFromHex(c.UI.StatusBG)
	if err != nil {
		bg = core.ColorDefault
	}
	return fg, bg
}
