package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/textart-gen/internal/typeset"
)

// ColorMode selects the pixel format of a canvas.
type ColorMode string

const (
	RGB  ColorMode = "rgb"  // three channels, *image.RGBA
	Gray ColorMode = "gray" // one channel, *image.Gray
)

// ParseColorMode accepts "rgb"/"color" and "gray"/"grey"/"l".
func ParseColorMode(s string) (ColorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rgb", "color", "colour":
		return RGB, nil
	case "gray", "grey", "grayscale", "l":
		return Gray, nil
	default:
		return "", fmt.Errorf("unknown color mode %q (valid: rgb, gray)", s)
	}
}

// NewCanvas returns a width x height canvas filled with bg.
func NewCanvas(width, height int, mode ColorMode, bg Color) (draw.Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid canvas size %dx%d", width, height)
	}

	rect := image.Rect(0, 0, width, height)
	var img draw.Image
	switch mode {
	case RGB:
		img = image.NewRGBA(rect)
	case Gray:
		img = image.NewGray(rect)
	default:
		return nil, fmt.Errorf("unknown color mode %q", mode)
	}

	draw.Draw(img, rect, image.NewUniform(paint(mode, bg)), image.Point{}, draw.Src)
	return img, nil
}

// paint converts c into the native color of a canvas in the given mode.
func paint(mode ColorMode, c Color) color.Color {
	if mode == Gray {
		return color.Gray{Y: c.Luma()}
	}
	return c.RGBA()
}

// Channels returns 1 for grayscale images and 3 for everything else.
func Channels(img image.Image) int {
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		return 1
	default:
		return 3
	}
}

// TextPosition returns the top-left corner of a w x h text box centered on a
// canvasW x canvasH canvas.
func TextPosition(canvasW, canvasH, w, h int) image.Point {
	return image.Pt((canvasW-w)/2, (canvasH-h)/2)
}

// DrawCentered draws text with face onto dst, centered on dst's bounds, and
// returns the top-left corner of the text box.
func DrawCentered(dst draw.Image, face font.Face, text string, mode ColorMode, fg Color) image.Point {
	b := dst.Bounds()
	w, h := typeset.MeasureFace(face, text)
	pos := TextPosition(b.Dx(), b.Dy(), w, h).Add(b.Min)

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(paint(mode, fg)),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(pos.X), Y: fixed.I(pos.Y) + face.Metrics().Ascent},
	}
	d.DrawString(text)
	return pos
}

// RenderText creates a canvas in style's mode and background and draws text
// centered on it with face.
func RenderText(face font.Face, text string, width, height int, style Style) (draw.Image, error) {
	img, err := NewCanvas(width, height, style.Mode, style.Background)
	if err != nil {
		return nil, err
	}
	DrawCentered(img, face, text, style.Mode, style.Foreground)
	return img, nil
}
