package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
)

// Blur applies a gaussian blur with the given radius. A radius of zero or
// less returns img unchanged. Grayscale input stays single-channel.
func Blur(img image.Image, radius float64) image.Image {
	if radius <= 0 {
		return img
	}

	blurred := blur.Gaussian(img, radius)
	if Channels(img) == 1 {
		return effect.Grayscale(blurred)
	}
	return blurred
}
