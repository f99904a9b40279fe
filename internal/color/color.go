// Package color implements the compile-time color math used by theme colors:
// alpha blending, lightening and darkening, contrast selection and hex
// minification. Every function takes and returns hex strings.
package color

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// RGBA is a parsed hex color with an alpha channel in [0,1].
type RGBA struct {
	colorful.Color
	A float64
}

// Parse parses #rgb, #rgba, #rrggbb and #rrggbbaa.
func Parse(hex string) (RGBA, error) {
	s := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	switch len(s) {
	case 3, 4:
		var b strings.Builder
		for _, ch := range s {
			b.WriteRune(ch)
			b.WriteRune(ch)
		}
		s = b.String()
	case 6, 8:
	default:
		return RGBA{}, fmt.Errorf("invalid hex color %q", hex)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return RGBA{}, fmt.Errorf("invalid hex color %q", hex)
	}
	a := uint64(255)
	if len(s) == 8 {
		a = v & 0xff
		v >>= 8
	}
	return RGBA{
		Color: colorful.Color{
			R: float64(v>>16&0xff) / 255,
			G: float64(v>>8&0xff) / 255,
			B: float64(v&0xff) / 255,
		},
		A: float64(a) / 255,
	}, nil
}

// ValidateThemeHex accepts only 3- or 6-digit hex colors without alpha.
func ValidateThemeHex(hex string) error {
	s, ok := strings.CutPrefix(hex, "#")
	if !ok || len(s) != 3 && len(s) != 6 {
		return fmt.Errorf("theme color %q must be a 3 or 6 digit hex color", hex)
	}
	for _, ch := range s {
		if !isHexDigit(ch) {
			return fmt.Errorf("theme color %q must be a 3 or 6 digit hex color", hex)
		}
	}
	return nil
}

func isHexDigit(ch rune) bool {
	return ch >= '0' && ch <= '9' || ch >= 'a' && ch <= 'f' || ch >= 'A' && ch <= 'F'
}

// Hex formats c as the shortest equivalent hex string.
func (c RGBA) Hex() string {
	cl := c.Clamped()
	r, g, b := channel(cl.R), channel(cl.G), channel(cl.B)
	a := channel(math.Max(0, math.Min(1, c.A)))
	return Minify(r, g, b, a)
}

func channel(v float64) uint8 {
	return uint8(math.Round(v * 255))
}

// Minify renders the channels as #rgb / #rgba when every channel's two hex
// digits repeat, otherwise as #rrggbb / #rrggbbaa. Alpha is omitted when
// fully opaque.
func Minify(r, g, b, a uint8) string {
	short := func(v uint8) bool { return v>>4 == v&0xf }
	if a == 255 {
		if short(r) && short(g) && short(b) {
			return fmt.Sprintf("#%x%x%x", r&0xf, g&0xf, b&0xf)
		}
		return fmt.Sprintf("#%02x%02x%02x", r, g, b)
	}
	if short(r) && short(g) && short(b) && short(a) {
		return fmt.Sprintf("#%x%x%x%x", r&0xf, g&0xf, b&0xf, a&0xf)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", r, g, b, a)
}

// MinifyHex re-renders a hex color in its shortest form.
func MinifyHex(hex string) (string, error) {
	c, err := Parse(hex)
	if err != nil {
		return "", err
	}
	return c.Hex(), nil
}

// Alpha scales the color's opacity by amount.
func Alpha(hex string, amount float64) (string, error) {
	c, err := Parse(hex)
	if err != nil {
		return "", err
	}
	c.A = clamp(c.A * amount)
	return c.Hex(), nil
}

// Lighter raises HSL lightness by amount.
func Lighter(hex string, amount float64) (string, error) {
	return adjustHSL(hex, 0, amount)
}

// Darker lowers HSL lightness by amount.
func Darker(hex string, amount float64) (string, error) {
	return adjustHSL(hex, 0, -amount)
}

// SaturatedDarker lowers lightness and raises saturation by amount.
func SaturatedDarker(hex string, amount float64) (string, error) {
	return adjustHSL(hex, amount, -amount)
}

func adjustHSL(hex string, ds, dl float64) (string, error) {
	c, err := Parse(hex)
	if err != nil {
		return "", err
	}
	h, s, l := c.Hsl()
	c.Color = colorful.Hsl(h, clamp(s+ds), clamp(l+dl))
	return c.Hex(), nil
}

// Contrast returns #000 for bright colors and #fff for dark ones using the
// YIQ brightness formula with a threshold of 128.
func Contrast(hex string) (string, error) {
	c, err := Parse(hex)
	if err != nil {
		return "", err
	}
	r, g, b := c.RGB255()
	yiq := (float64(r)*299 + float64(g)*587 + float64(b)*114) / 1000
	if yiq >= 128 {
		return "#000", nil
	}
	return "#fff", nil
}

// ContrastOptions lists the candidates ContrastOptimal chooses between.
type ContrastOptions struct {
	Dark  string
	Light string
}

// ContrastOptimal returns whichever candidate has the higher WCAG contrast
// ratio against hex. Empty candidates default to #000 and #fff.
func ContrastOptimal(hex string, opts ContrastOptions) (string, error) {
	if opts.Dark == "" {
		opts.Dark = "#000"
	}
	if opts.Light == "" {
		opts.Light = "#fff"
	}
	base, err := Parse(hex)
	if err != nil {
		return "", err
	}
	dark, err := Parse(opts.Dark)
	if err != nil {
		return "", err
	}
	light, err := Parse(opts.Light)
	if err != nil {
		return "", err
	}
	if ContrastRatio(base, dark) >= ContrastRatio(base, light) {
		return dark.Hex(), nil
	}
	return light.Hex(), nil
}

// ContrastRatio is the WCAG 2 contrast ratio between a and b.
func ContrastRatio(a, b RGBA) float64 {
	la, lb := luminance(a.Color), luminance(b.Color)
	if la < lb {
		la, lb = lb, la
	}
	return (la + 0.05) / (lb + 0.05)
}

func luminance(c colorful.Color) float64 {
	r, g, b := c.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
