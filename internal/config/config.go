package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Column modes.
const (
	ColumnScalar  = "scalar"
	ColumnDisplay = "display"
)

// Config holds every kilt setting.
type Config struct {
	Editor   EditorConfig   `toml:"editor"`
	Buffer   BufferConfig   `toml:"buffer"`
	Viewport ViewportConfig `toml:"viewport"`
	Input    InputConfig    `toml:"input"`
	Keymap   KeymapConfig   `toml:"keymap"`
	Log      LogConfig      `toml:"log"`
	UI       UIConfig       `toml:"ui"`

	// Debug panics on internal consistency errors instead of logging them.
	Debug bool `toml:"debug"`
}

// EditorConfig controls editing behavior.
type EditorConfig struct {
	TabWidth       int    `toml:"tab_width"`
	ExpandTabs     bool   `toml:"expand_tabs"`
	GraphemeDelete bool   `toml:"grapheme_delete"`
	ColumnMode     string `toml:"column_mode"`
}

// BufferConfig selects the text store.
type BufferConfig struct {
	Backend string `toml:"backend"`
}

// ViewportConfig controls scrolling.
type ViewportConfig struct {
	// Margin is the number of columns kept visible beside the cursor when
	// scrolling horizontally.
	Margin int `toml:"margin"`
}

// InputConfig controls input decoding.
type InputConfig struct {
	// EscapeTimeout is how long a lone ESC waits for the rest of a
	// sequence before it counts as the Escape key.
	EscapeTimeout Duration `toml:"escape_timeout"`
}

// KeymapConfig locates keybinding overrides.
type KeymapConfig struct {
	File string `toml:"file"`
}

// LogConfig controls the log file.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// UIConfig holds colors as "#rrggbb" strings, or "default".
type UIConfig struct {
	StatusFG string `toml:"status_fg"`
	StatusBG string `toml:"status_bg"`
}

// Duration is a time.Duration written as a string such as "25ms".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Editor: EditorConfig{
			TabWidth:   4,
			ColumnMode: ColumnScalar,
		},
		Buffer:   BufferConfig{Backend: "lines"},
		Viewport: ViewportConfig{Margin: 4},
		Input:    InputConfig{EscapeTimeout: Duration{25 * time.Millisecond}},
		Log: LogConfig{
			Level: "info",
			File:  DefaultLogPath(),
		},
		UI: UIConfig{
			StatusFG: "default",
			StatusBG: "default",
		},
	}
}

// DefaultPath returns the user configuration file path. It returns "" when
// no configuration directory can be determined.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "kilt", "config.toml")
}

// DefaultLogPath returns $XDG_STATE_HOME/kilt/kilt.log, falling back to
// ~/.local/state and finally the temporary directory.
func DefaultLogPath() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "kilt", "kilt.log")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "state", "kilt", "kilt.log")
	}
	return filepath.Join(os.TempDir(), "kilt.log")
}

// Clone returns a copy of c.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// String returns the configuration as TOML, for logging.
func (c *Config) String() string {
	data, err := Marshal(c)
	if err != nil {
		return fmt.Sprintf("config(%v)", err)
	}
	return string(data)
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) string {
	if len(path) < 2 || path[:2] != "~/" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
