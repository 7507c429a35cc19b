package capture

import (
	"image"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/effect"

	"github.com/ironsheep/hextech-overlay/internal/imaging"
)

// Preprocess enlarges img by scale with bicubic smoothing, applies an
// optional contrast change (-100..100, 0 leaves it) and converts the result
// to greyscale.
func Preprocess(img image.Image, scale, contrast float64) (*image.Gray, error) {
	scaled, err := imaging.Scale(img, scale)
	if err != nil {
		return nil, err
	}
	var src image.Image = scaled
	if contrast != 0 {
		src = adjust.Contrast(scaled, contrast/100)
	}
	return effect.Grayscale(src), nil
}
