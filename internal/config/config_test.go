package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dshills/kilt/internal/renderer/core"
)

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if c.Input.EscapeTimeout.Duration != 25*time.Millisecond {
		t.Errorf("escape timeout = %v", c.Input.EscapeTimeout)
	}
	if c.Editor.ColumnMode != ColumnScalar {
		t.Errorf("column mode = %q", c.Editor.ColumnMode)
	}
}

func TestLoadReader(t *testing.T) {
	const doc = `
debug = true

[editor]
tab_width = 8
grapheme_delete = true
column_mode = "display"

[buffer]
backend = "rope"

[input]
escape_timeout = "50ms"

[ui]
status_bg = "#d79921"
`
	c := Default()
	if err := c.LoadReader(strings.NewReader(doc)); err != nil {
		t.Fatalf("LoadReader: %v", err)
	}

	if !c.Debug || c.Editor.TabWidth != 8 || !c.Editor.GraphemeDelete {
		t.Errorf("editor settings not applied: %+v debug=%v", c.Editor, c.Debug)
	}
	if c.Editor.ColumnMode != ColumnDisplay || c.Buffer.Backend != "rope" {
		t.Errorf("modes not applied: %+v %+v", c.Editor, c.Buffer)
	}
	if c.Input.EscapeTimeout.Duration != 50*time.Millisecond {
		t.Errorf("escape timeout = %v", c.Input.EscapeTimeout)
	}
	// Keys absent from the file keep their defaults.
	if c.Viewport.Margin != 4 || c.Log.Level != "info" {
		t.Errorf("defaults lost: margin=%d level=%q", c.Viewport.Margin, c.Log.Level)
	}

	_, bg := c.StatusColors()
	if bg != core.ColorFromRGB(0xd7, 0x99, 0x21) {
		t.Errorf("status bg = %s", bg)
	}
}

func TestLoadReaderErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		line int // 0 skips the position check
	}{
		{"syntax", "[editor\ntab_width = 4", 1},
		{"unknown key", "[editor]\ntab_wdith = 4", 2},
		{"wrong type", "[editor]\ntab_width = \"four\"", 0},
		{"bad duration", "[input]\nescape_timeout = \"soon\"", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Default().LoadReader(strings.NewReader(tt.doc))
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("error = %v, want *ParseError", err)
			}
			if tt.line != 0 && pe.Line != tt.line {
				t.Errorf("line = %d, want %d (%v)", pe.Line, tt.line, err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		key    string
	}{
		{"tab width zero", func(c *Config) { c.Editor.TabWidth = 0 }, "editor.tab_width"},
		{"tab width large", func(c *Config) { c.Editor.TabWidth = 17 }, "editor.tab_width"},
		{"column mode", func(c *Config) { c.Editor.ColumnMode = "grapheme" }, "editor.column_mode"},
		{"backend", func(c *Config) { c.Buffer.Backend = "gap" }, "buffer.backend"},
		{"margin", func(c *Config) { c.Viewport.Margin = -1 }, "viewport.margin"},
		{"escape zero", func(c *Config) { c.Input.EscapeTimeout.Duration = 0 }, "input.escape_timeout"},
		{"escape long", func(c *Config) { c.Input.EscapeTimeout.Duration = time.Minute }, "input.escape_timeout"},
		{"log level", func(c *Config) { c.Log.Level = "trace" }, "log.level"},
		{"status color", func(c *Config) { c.UI.StatusFG = "#zzzzzz" }, "ui.status_fg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.modify(c)
			err := c.Validate()
			if !errors.Is(err, ErrValidationFailed) {
				t.Fatalf("Validate() = %v, want ErrValidationFailed", err)
			}
			var ve *ValidationError
			if !errors.As(err, &ve) || ve.Key != tt.key {
				t.Errorf("Validate() = %v, want key %s", err, tt.key)
			}
		})
	}

	c := Default()
	c.Editor.TabWidth = 0
	c.Log.Level = "loud"
	if got := strings.Count(c.Validate().Error(), "\n"); got != 1 {
		t.Errorf("expected two joined errors, got %q", c.Validate())
	}
}

func TestSet(t *testing.T) {
	c := Default()
	pairs := []string{
		"editor.tab_width=2",
		"editor.expand_tabs=yes",
		"viewport.margin = 0",
		"input.escape_timeout=10ms",
		"keymap.file=keys.toml",
		"debug=on",
	}
	for _, p := range pairs {
		if err := c.SetPair(p); err != nil {
			t.Fatalf("SetPair(%q): %v", p, err)
		}
	}
	if c.Editor.TabWidth != 2 || !c.Editor.ExpandTabs || c.Viewport.Margin != 0 || !c.Debug {
		t.Errorf("values not set: %+v", c)
	}
	if c.Input.EscapeTimeout.Duration != 10*time.Millisecond || c.Keymap.File != "keys.toml" {
		t.Errorf("values not set: %+v %+v", c.Input, c.Keymap)
	}

	if err := c.Set("editor.width", "1"); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("unknown key error = %v", err)
	}
	if err := c.SetPair("debug"); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("missing '=' error = %v", err)
	}
	for _, bad := range []string{"editor.tab_width=four", "debug=maybe", "input.escape_timeout=1"} {
		if err := c.SetPair(bad); err == nil {
			t.Errorf("SetPair(%q) should fail", bad)
		}
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"KILT_TAB_WIDTH":  "3",
		"KILT_BACKEND":    "rope",
		"KILT_LOG_LEVEL":  "debug",
		"KILT_DEBUG":      "1",
		"UNRELATED_THING": "x",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	c := Default()
	if err := c.ApplyEnv(lookup); err != nil {
		t.Fatal(err)
	}
	if c.Editor.TabWidth != 3 || c.Buffer.Backend != "rope" || c.Log.Level != "debug" || !c.Debug {
		t.Errorf("env not applied: %+v", c)
	}

	env["KILT_MARGIN"] = "wide"
	if err := Default().ApplyEnv(lookup); err == nil || !strings.Contains(err.Error(), "KILT_MARGIN") {
		t.Errorf("bad env error = %v", err)
	}
}

func TestKeysHaveEnv(t *testing.T) {
	for _, k := range Keys() {
		if !strings.HasPrefix(EnvVar(k), "KILT_") {
			t.Errorf("key %s has env %q", k, EnvVar(k))
		}
		if err := Default().Set(k, "x"); errors.Is(err, ErrUnknownKey) {
			t.Errorf("Set(%s) reports unknown key", k)
		}
	}
	if EnvVar("nope") != "" {
		t.Error("EnvVar of unknown key should be empty")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("KILT_TAB_WIDTH", "6")

	// No file at the default location.
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load default: %v", err)
	}
	if c.Editor.TabWidth != 6 {
		t.Errorf("env not applied over defaults: %d", c.Editor.TabWidth)
	}

	// An explicit path must exist.
	if _, err := Load(filepath.Join(dir, "missing.toml")); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Load missing explicit = %v", err)
	}

	// Default location with a file; env still wins.
	path := DefaultPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("[editor]\ntab_width = 2\nexpand_tabs = true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err = Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Editor.TabWidth != 6 || !c.Editor.ExpandTabs {
		t.Errorf("precedence wrong: %+v", c.Editor)
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	c := Default()
	c.Editor.TabWidth = 7
	c.Input.EscapeTimeout.Duration = 40 * time.Millisecond

	data, err := Marshal(c)
	if err != nil {
		t.Fatal(err)
	}
	got := Default()
	if err := got.LoadReader(strings.NewReader(string(data))); err != nil {
		t.Fatalf("LoadReader(Marshal()): %v\n%s", err, data)
	}
	if *got != *c {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, c)
	}
	if !strings.Contains(c.String(), `escape_timeout = '40ms'`) && !strings.Contains(c.String(), `escape_timeout = "40ms"`) {
		t.Errorf("String() = %s", c.String())
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := ExpandHome("~/x.toml"); got != filepath.Join(home, "x.toml") {
		t.Errorf("ExpandHome = %q", got)
	}
	if got := ExpandHome("/abs/x.toml"); got != "/abs/x.toml" {
		t.Errorf("ExpandHome changed absolute path: %q", got)
	}
}
