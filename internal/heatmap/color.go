package heatmap

import (
	"fmt"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is an RGB triple. Channels are expected in [0,255] but not clamped.
type Color struct {
	Red   int
	Green int
	Blue  int
}

// RGB builds a Color from explicit channel values.
func RGB(red, green, blue int) Color {
	return Color{Red: red, Green: green, Blue: blue}
}

// FromHex parses a 6-digit hex color, with or without the leading '#'.
func FromHex(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 || !isHex(hex) {
		return Color{}, fmt.Errorf("%w: %q is not a 6-digit hex color", ErrInvalidArgument, s)
	}

	c, err := colorful.Hex("#" + hex)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	r, g, b := c.RGB255()
	return RGB(int(r), int(g), int(b)), nil
}

// ParseRGB parses the String form back into a Color.
func ParseRGB(s string) (Color, error) {
	var c Color
	compact := strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if _, err := fmt.Sscanf(compact, "rgb(%d,%d,%d)", &c.Red, &c.Green, &c.Blue); err != nil || !strings.HasSuffix(compact, ")") {
		return Color{}, fmt.Errorf("%w: %q is not an rgb() color", ErrInvalidArgument, s)
	}
	return c, nil
}

// MustHex is FromHex for package-level literals.
func MustHex(s string) Color {
	c, err := FromHex(s)
	if err != nil {
		panic("heatmap.MustHex: " + err.Error())
	}
	return c
}

// String renders the color as a CSS value, e.g. "rgb(255,63,63)".
func (c Color) String() string {
	return fmt.Sprintf("rgb(%d,%d,%d)", c.Red, c.Green, c.Blue)
}

// Hex renders the color as "#rrggbb", clamping out-of-range channels.
func (c Color) Hex() string {
	return colorful.Color{
		R: float64(c.Red) / 255.0,
		G: float64(c.Green) / 255.0,
		B: float64(c.Blue) / 255.0,
	}.Clamped().Hex()
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		switch b := s[i]; {
		case b >= '0' && b <= '9', b >= 'a' && b <= 'f', b >= 'A' && b <= 'F':
		default:
			return false
		}
	}
	return true
}

// Anchor colors used for low/mid/high values and for period comparisons.
var (
	Red    = MustHex("#FF3F3F")
	Yellow = MustHex("#FCEF64")
	Green  = MustHex("#4AE27A")
)

// IncreaseColor is applied when a value went up compared to the previous period.
func IncreaseColor() string { return Red.String() }

// DecreaseColor is applied when a value went down compared to the previous period.
func DecreaseColor() string { return Green.String() }
