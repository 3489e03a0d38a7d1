package ui2d

import (
	"fmt"
	"strconv"
	"strings"
)

// Color represents an RGBA color with float components (0.0 to 1.0).
type Color struct {
	R, G, B, A float32
}

var (
	ColorTransparent = Color{0, 0, 0, 0}
	ColorWhite       = Color{1, 1, 1, 1}
	ColorBlack       = Color{0, 0, 0, 1}
)

// Theme is the palette widgets are drawn with.
type Theme struct {
	PanelBg      Color
	PanelBorder  Color
	ButtonNormal Color
	ButtonHover  Color
	ButtonActive Color
	InputBg      Color
	Text         Color
	TextDim      Color
	Highlight    Color
	ErrorBg      Color
	ErrorText    Color
	TooltipBg    Color
}

// LightTheme pairs with the gray-100 background.
var LightTheme = Theme{
	PanelBg:      MustHex("#FFFFFF").WithAlpha(0.92),
	PanelBorder:  MustHex("#D1D5DB"),
	ButtonNormal: MustHex("#E5E7EB"),
	ButtonHover:  MustHex("#D1D5DB"),
	ButtonActive: MustHex("#9CA3AF"),
	InputBg:      MustHex("#F3F4F6"),
	Text:         MustHex("#111827"),
	TextDim:      MustHex("#6B7280"),
	Highlight:    MustHex("#3B82F6"),
	ErrorBg:      MustHex("#FEE2E2"),
	ErrorText:    MustHex("#B91C1C"),
	TooltipBg:    MustHex("#1F2937"),
}

// DarkTheme pairs with the gray-900 background.
var DarkTheme = Theme{
	PanelBg:      MustHex("#1F2937").WithAlpha(0.92),
	PanelBorder:  MustHex("#374151"),
	ButtonNormal: MustHex("#374151"),
	ButtonHover:  MustHex("#4B5563"),
	ButtonActive: MustHex("#6B7280"),
	InputBg:      MustHex("#111827"),
	Text:         MustHex("#F9FAFB"),
	TextDim:      MustHex("#9CA3AF"),
	Highlight:    MustHex("#60A5FA"),
	ErrorBg:      MustHex("#7F1D1D"),
	ErrorText:    MustHex("#FECACA"),
	TooltipBg:    MustHex("#F9FAFB"),
}

// TooltipText returns a color readable on TooltipBg.
func (t Theme) TooltipText() Color {
	if t.TooltipBg.Luminance() > 0.5 {
		return ColorBlack
	}
	return ColorWhite
}

// RGBA creates a color from 8-bit RGBA values (0-255).
func RGBA(r, g, b, a uint8) Color {
	return Color{
		R: float32(r) / 255.0,
		G: float32(g) / 255.0,
		B: float32(b) / 255.0,
		A: float32(a) / 255.0,
	}
}

// RGB creates a color from 8-bit RGB values with full alpha.
func RGB(r, g, b uint8) Color {
	return RGBA(r, g, b, 255)
}

// ParseHex parses "#RRGGBB" or "#RRGGBBAA".
func ParseHex(s string) (Color, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 && len(hex) != 8 {
		return Color{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	if len(hex) == 6 {
		v = v<<8 | 0xFF
	}
	return RGBA(uint8(v>>24), uint8(v>>16), uint8(v>>8), uint8(v)), nil
}

// MustHex is ParseHex that panics on error. For package-level palettes.
func MustHex(s string) Color {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// WithAlpha returns a copy of the color with a different alpha value.
func (c Color) WithAlpha(a float32) Color {
	return Color{c.R, c.G, c.B, a}
}

// Luminance returns the relative luminance in [0,1].
func (c Color) Luminance() float32 {
	return 0.2126*c.R + 0.7152*c.G + 0.0722*c.B
}
