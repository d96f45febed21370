package imaging

import (
	"fmt"
	"image/color"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an opaque 8-bit RGB color.
type Color struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

var (
	White = Color{255, 255, 255}
	Black = Color{0, 0, 0}
)

// GrayLevel returns the color with all components set to v.
func GrayLevel(v uint8) Color {
	return Color{R: v, G: v, B: v}
}

// RGBA converts c to a fully opaque color.RGBA.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// Luma returns the grayscale value of c using the standard library weights.
func (c Color) Luma() uint8 {
	return color.GrayModel.Convert(c.RGBA()).(color.Gray).Y
}

// Hex returns c as "#RRGGBB".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

func (c Color) String() string { return c.Hex() }

// ParseColor parses a color given as "#RRGGBB", "R,G,B" or a single gray
// level "0"-"255".
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Color{}, fmt.Errorf("empty color string")
	}

	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		if err != nil {
			return Color{}, fmt.Errorf("invalid hex color %q: %w", s, err)
		}
		r, g, b := c.RGB255()
		return Color{R: r, G: g, B: b}, nil
	}

	parts := strings.Split(s, ",")
	switch len(parts) {
	case 1:
		v, err := parseComponent(parts[0])
		if err != nil {
			return Color{}, fmt.Errorf("invalid gray level %q: %w", s, err)
		}
		return GrayLevel(v), nil
	case 3:
		var comps [3]uint8
		for i, p := range parts {
			v, err := parseComponent(p)
			if err != nil {
				return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
			}
			comps[i] = v
		}
		return Color{R: comps[0], G: comps[1], B: comps[2]}, nil
	default:
		return Color{}, fmt.Errorf("invalid color %q: want #RRGGBB, R,G,B or a gray level", s)
	}
}

func parseComponent(s string) (uint8, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 8)
	if err != nil {
		return 0, err
	}
	return uint8(v), nil
}

// RandomColor draws each component independently and uniformly from 0-255.
func RandomColor(rng *rand.Rand) Color {
	return Color{
		R: uint8(rng.IntN(256)),
		G: uint8(rng.IntN(256)),
		B: uint8(rng.IntN(256)),
	}
}

// Style is the fully resolved coloring of one rendered sample.
type Style struct {
	Mode       ColorMode `json:"mode"`
	Foreground Color     `json:"foreground"`
	Background Color     `json:"background"`
}

// ResolveStyle fills in default colors for the nil arguments.
//
// RGB mode defaults to a random foreground drawn from rng on a white
// background. Gray mode defaults to black on white, and explicit colors are
// reduced to their luma.
func ResolveStyle(mode ColorMode, fg, bg *Color, rng *rand.Rand) Style {
	s := Style{Mode: mode}

	switch mode {
	case Gray:
		s.Foreground, s.Background = Black, White
		if fg != nil {
			s.Foreground = GrayLevel(fg.Luma())
		}
		if bg != nil {
			s.Background = GrayLevel(bg.Luma())
		}
	default:
		s.Background = White
		if fg != nil {
			s.Foreground = *fg
		} else {
			s.Foreground = RandomColor(rng)
		}
		if bg != nil {
			s.Background = *bg
		}
	}

	return s
}
