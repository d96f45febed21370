package imaging

import (
	"fmt"
	"image"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
)

// HSLColor represents a color in HSL space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees
	S int `json:"s"` // Saturation: 0-100 percent
	L int `json:"l"` // Lightness: 0-100 percent
}

// ColorResult contains a sampled pixel in several representations.
type ColorResult struct {
	Hex  string   `json:"hex"`  // "#RRGGBB"
	RGB  Color    `json:"rgb"`  // 8-bit components
	Gray uint8    `json:"gray"` // luma
	HSL  HSLColor `json:"hsl"`
}

// colorAt reads the pixel at (x, y) as an 8-bit Color.
func colorAt(img image.Image, x, y int) Color {
	r, g, b, _ := img.At(x, y).RGBA()
	return Color{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}
}

// SampleColor returns the color of the pixel at (x, y).
//
// Coordinates are 0-based from the top-left corner; points outside the image
// bounds are an error.
func SampleColor(img image.Image, x, y int) (*ColorResult, error) {
	if !image.Pt(x, y).In(img.Bounds()) {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds", x, y)
	}

	c := colorAt(img, x, y)
	h, s, l := colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hsl()

	return &ColorResult{
		Hex:  c.Hex(),
		RGB:  c,
		Gray: c.Luma(),
		HSL:  HSLColor{H: int(h), S: int(s * 100), L: int(l * 100)},
	}, nil
}

// ColorFrequency is a quantized color and the share of pixels it covers.
type ColorFrequency struct {
	Hex        string  `json:"hex"`
	Percentage float64 `json:"percentage"` // 0-100
	RGB        Color   `json:"rgb"`
}

// DominantColorsResult lists colors by descending frequency.
type DominantColorsResult struct {
	Colors []ColorFrequency `json:"colors"`
}

// DominantColors returns up to count of the most frequent colors in img.
// Components are quantized to multiples of 16 before counting, so nearly
// equal colors, such as anti-aliased glyph edges, are grouped.
func DominantColors(img image.Image, count int) (*DominantColorsResult, error) {
	if count <= 0 {
		return nil, fmt.Errorf("count must be positive, got %d", count)
	}

	bounds := img.Bounds()
	counts := make(map[Color]int)
	total := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := colorAt(img, x, y)
			counts[Color{R: c.R / 16 * 16, G: c.G / 16 * 16, B: c.B / 16 * 16}]++
			total++
		}
	}

	colors := make([]ColorFrequency, 0, len(counts))
	for c, n := range counts {
		colors = append(colors, ColorFrequency{
			Hex:        c.Hex(),
			Percentage: float64(n) / float64(total) * 100,
			RGB:        c,
		})
	}

	sort.Slice(colors, func(i, j int) bool {
		if colors[i].Percentage != colors[j].Percentage {
			return colors[i].Percentage > colors[j].Percentage
		}
		return colors[i].Hex < colors[j].Hex
	})

	if len(colors) > count {
		colors = colors[:count]
	}
	return &DominantColorsResult{Colors: colors}, nil
}

// InkBounds returns the smallest rectangle containing every pixel whose
// color differs from bg by more than tolerance in any component. ok is false
// for a blank image.
func InkBounds(img image.Image, bg Color, tolerance int) (rect image.Rectangle, ok bool) {
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := colorAt(img, x, y)
			if absDiff(c.R, bg.R) <= tolerance && absDiff(c.G, bg.G) <= tolerance && absDiff(c.B, bg.B) <= tolerance {
				continue
			}
			px := image.Rect(x, y, x+1, y+1)
			if !ok {
				rect, ok = px, true
			} else {
				rect = rect.Union(px)
			}
		}
	}
	return rect, ok
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
