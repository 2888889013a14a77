package config

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

// setting describes one dotted key.
type setting struct {
	key string
	env string
	set func(c *Config, v string) error
}

// settings lists every key in the order used by Keys.
var settings = []setting{
	{"editor.tab_width", "KILT_TAB_WIDTH", intSetter(func(c *Config) *int { return &c.Editor.TabWidth })},
	{"editor.expand_tabs", "KILT_EXPAND_TABS", boolSetter(func(c *Config) *bool { return &c.Editor.ExpandTabs })},
	{"editor.grapheme_delete", "KILT_GRAPHEME_DELETE", boolSetter(func(c *Config) *bool { return &c.Editor.GraphemeDelete })},
	{"editor.column_mode", "KILT_COLUMN_MODE", stringSetter(func(c *Config) *string { return &c.Editor.ColumnMode })},
	{"buffer.backend", "KILT_BACKEND", stringSetter(func(c *Config) *string { return &c.Buffer.Backend })},
	{"viewport.margin", "KILT_MARGIN", intSetter(func(c *Config) *int { return &c.Viewport.Margin })},
	{"input.escape_timeout", "KILT_ESCAPE_TIMEOUT", durationSetter(func(c *Config) *time.Duration { return &c.Input.EscapeTimeout.Duration })},
	{"keymap.file", "KILT_KEYMAP", stringSetter(func(c *Config) *string { return &c.Keymap.File })},
	{"log.level", "KILT_LOG_LEVEL", stringSetter(func(c *Config) *string { return &c.Log.Level })},
	{"log.file", "KILT_LOG_FILE", stringSetter(func(c *Config) *string { return &c.Log.File })},
	{"ui.status_fg", "KILT_STATUS_FG", stringSetter(func(c *Config) *string { return &c.UI.StatusFG })},
	{"ui.status_bg", "KILT_STATUS_BG", stringSetter(func(c *Config) *string { return &c.UI.StatusBG })},
	{"debug", "KILT_DEBUG", boolSetter(func(c *Config) *bool { return &c.Debug })},
}

// Keys returns every setting key.
func Keys() []string {
	keys := make([]string, len(settings))
	for i, s := range settings {
		keys[i] = s.key
	}
	return keys
}

// EnvVar returns the environment variable for key, or "".
func EnvVar(key string) string {
	i := slices.IndexFunc(settings, func(s setting) bool { return s.key == key })
	if i < 0 {
		return ""
	}
	return settings[i].env
}

// Set parses value into the setting named by key.
func (c *Config) Set(key, value string) error {
	for _, s := range settings {
		if s.key == key {
			if err := s.set(c, value); err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownKey, key)
}

// SetPair parses "key=value".
func (c *Config) SetPair(pair string) error {
	key, value, ok := strings.Cut(pair, "=")
	if !ok {
		return fmt.Errorf("%w: expected key=value, got %q", ErrUnknownKey, pair)
	}
	return c.Set(strings.TrimSpace(key), strings.TrimSpace(value))
}

// ApplyEnv overlays environment variables found by lookup, usually
// os.LookupEnv. Empty values are treated as set.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	for _, s := range settings {
		v, ok := lookup(s.env)
		if !ok {
			continue
		}
		if err := s.set(c, v); err != nil {
			return fmt.Errorf("%s: %w", s.env, err)
		}
	}
	return nil
}

func intSetter(field func(*Config) *int) func(*Config, string) error {
	return func(c *Config, v string) error {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid integer %q", v)
		}
		*field(c) = n
		return nil
	}
}

func boolSetter(field func(*Config) *bool) func(*Config, string) error {
	return func(c *Config, v string) error {
		b, err := parseBool(v)
		if err != nil {
			return err
		}
		*field(c) = b
		return nil
	}
}

func stringSetter(field func(*Config) *string) func(*Config, string) error {
	return func(c *Config, v string) error {
		*field(c) = v
		return nil
	}
}

func durationSetter(field func(*Config) *time.Duration) func(*Config, string) error {
	return func(c *Config, v string) error {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid duration %q", v)
		}
		*field(c) = d
		return nil
	}
}

// parseBool accepts the usual spellings of a boolean in the environment.
func parseBool(v string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off", "":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean %q", v)
	}
}
