// Package core provides the cell and style types shared by the renderer and
// its backends.
package core

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"
)

// Attribute represents text attributes (bold, reverse, etc.).
type Attribute uint8

// Text attribute flags.
const (
	AttrNone      Attribute = 0
	AttrBold      Attribute = 1 << (iota - 1)
	AttrDim                 // Faint/dim text
	AttrItalic              // Italic text
	AttrUnderline           // Underlined text
	AttrReverse             // Reverse video (swap fg/bg)
)

// Has returns true if the attribute set contains the given attribute.
func (a Attribute) Has(attr Attribute) bool {
	return a&attr != 0
}

// With returns a new attribute set with the given attribute added.
func (a Attribute) With(attr Attribute) Attribute {
	return a | attr
}

// Without returns a new attribute set with the given attribute removed.
func (a Attribute) Without(attr Attribute) Attribute {
	return a &^ attr
}

// Color is a terminal color: the terminal default, a palette index, or an
// RGB value. Colors are comparable.
type Color struct {
	R, G, B uint8
	// If Indexed is true, R contains the palette index (0-255).
	Indexed bool
	// Default indicates the terminal's default color. Other fields are zero.
	Default bool
}

// ColorDefault represents the terminal's default color.
var ColorDefault = Color{Default: true}

// ColorFromRGB creates a true color from RGB components.
func ColorFromRGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// ColorFromIndex creates an indexed palette color.
func ColorFromIndex(index uint8) Color {
	return Color{R: index, Indexed: true}
}

// ColorFromHex parses "#rrggbb" or "#rgb". The empty string and "default"
// yield ColorDefault.
func ColorFromHex(hex string) (Color, error) {
	if hex == "" || hex == "default" {
		return ColorDefault, nil
	}
	if hex[0] != '#' {
		hex = "#" + hex
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	return fromColorful(c), nil
}

func fromColorful(c colorful.Color) Color {
	r, g, b := c.Clamped().RGB255()
	return Color{R: r, G: g, B: b}
}

func (c Color) colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}
}

// IsDefault returns true if this is the default color.
func (c Color) IsDefault() bool {
	return c.Default
}

// String returns a string representation of the color.
func (c Color) String() string {
	switch {
	case c.Default:
		return "default"
	case c.Indexed:
		return fmt.Sprintf("idx(%d)", c.R)
	default:
		return c.colorful().Hex()
	}
}

// Lighten returns the color with its HSL lightness raised by amount (0-1).
// Default and indexed colors are returned unchanged.
func (c Color) Lighten(amount float64) Color {
	if c.Default || c.Indexed {
		return c
	}
	h, s, l := c.colorful().Hsl()
	return fromColorful(colorful.Hsl(h, s, min(l+amount, 1)))
}

// Darken returns the color with its HSL lightness lowered by amount (0-1).
func (c Color) Darken(amount float64) Color {
	if c.Default || c.Indexed {
		return c
	}
	h, s, l := c.colorful().Hsl()
	return fromColorful(colorful.Hsl(h, s, max(l-amount, 0)))
}

// Blend mixes c toward other in Lab space. Default and indexed colors
// cannot be mixed; the nearer endpoint is returned.
func (c Color) Blend(other Color, amount float64) Color {
	if c.Default || c.Indexed || other.Default || other.Indexed {
		if amount < 0.5 {
			return c
		}
		return other
	}
	return fromColorful(c.colorful().BlendLab(other.colorful(), amount))
}

// Style represents the visual style of a cell. The zero value is not the
// default style; use DefaultStyle.
type Style struct {
	Foreground Color
	Background Color
	Attributes Attribute
}

// DefaultStyle returns the default terminal style.
func DefaultStyle() Style {
	return Style{
		Foreground: ColorDefault,
		Background: ColorDefault,
	}
}

// WithForeground returns a new style with the given foreground color.
func (s Style) WithForeground(fg Color) Style {
	s.Foreground = fg
	return s
}

// WithBackground returns a new style with the given background color.
func (s Style) WithBackground(bg Color) Style {
	s.Background = bg
	return s
}

// Bold returns a new style with bold attribute added.
func (s Style) Bold() Style {
	s.Attributes |= AttrBold
	return s
}

// Reverse returns a new style with reverse video attribute added.
func (s Style) Reverse() Style {
	s.Attributes |= AttrReverse
	return s
}

// IsDefault returns true if this is the default style.
func (s Style) IsDefault() bool {
	return s == DefaultStyle()
}

// Cell represents a single terminal cell.
type Cell struct {
	// Rune is the character to display. It is 0 in the continuation cell
	// that follows a wide rune.
	Rune rune

	// Width is the display width: 1, 2 for wide runes, 0 for continuations.
	Width int

	// Style is the visual style for this cell.
	Style Style
}

// EmptyCell returns a blank cell with default style.
func EmptyCell() Cell {
	return Cell{Rune: ' ', Width: 1, Style: DefaultStyle()}
}

// NewStyledCell creates a cell with the given rune and style. Runes with no
// display width, such as control characters, are shown as a blank.
func NewStyledCell(r rune, style Style) Cell {
	w := RuneWidth(r)
	if w == 0 {
		return Cell{Rune: ' ', Width: 1, Style: style}
	}
	return Cell{Rune: r, Width: w, Style: style}
}

// ContinuationCell returns the placeholder that follows a wide rune.
func ContinuationCell(style Style) Cell {
	return Cell{Style: style}
}

// IsContinuation returns true if this is a continuation cell.
func (c Cell) IsContinuation() bool {
	return c.Width == 0 && c.Rune == 0
}

// RuneWidth returns the number of terminal columns r occupies.
func RuneWidth(r rune) int {
	return runewidth.RuneWidth(r)
}

// StringWidth returns the number of terminal columns s occupies.
func StringWidth(s string) int {
	return runewidth.StringWidth(s)
}

// ScreenPos is a row/column position on the terminal, zero based.
type ScreenPos struct {
	Row int
	Col int
}

// String returns "row:col".
func (p ScreenPos) String() string {
	return fmt.Sprintf("%d:%d", p.Row, p.Col)
}
