// Package config provides configuration for kilt.
//
// Values are resolved in increasing order of precedence:
//
//  1. Built-in defaults (Default)
//  2. A TOML file, by default $XDG_CONFIG_HOME/kilt/config.toml
//  3. KILT_* environment variables
//  4. Command line flags
//
// Example file:
//
//	debug = false
//
//	[editor]
//	tab_width = 4
//	expand_tabs = false
//	grapheme_delete = true
//	column_mode = "display"
//
//	[buffer]
//	backend = "rope"
//
//	[viewport]
//	margin = 4
//
//	[input]
//	escape_timeout = "25ms"
//
//	[keymap]
//	file = "~/.config/kilt/keys.yaml"
//
//	[log]
//	level = "debug"
//	file = "/tmp/kilt.log"
//
//	[ui]
//	status_fg = "#1d2021"
//	status_bg = "#d79921"
//
// Every setting has a dotted key (editor.tab_width) usable with Set, and
// most have an environment variable (KILT_TAB_WIDTH); see Keys.
package config
