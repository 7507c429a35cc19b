package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Crop extracts r from img. r must lie inside img's bounds and be non-empty;
// the result is re-based to (0,0).
func Crop(img image.Image, r image.Rectangle) (*image.NRGBA, error) {
	bounds := img.Bounds()
	if r.Empty() {
		return nil, fmt.Errorf("invalid crop region %v: empty", r)
	}
	if !r.In(bounds) {
		return nil, fmt.Errorf("crop region %v outside image bounds %v", r, bounds)
	}
	return imaging.Crop(img, r), nil
}

// Scale resizes img by factor with Catmull-Rom (bicubic) interpolation.
//
// Parameters:
//   - img: the source image, any bounds.
//   - factor: the size multiplier. 1 returns a copy; values below 1 shrink.
//
// Returns:
//   - *image.NRGBA: the resized image with bounds starting at (0, 0).
//   - error: Non-nil if factor is not positive or the result would be empty.
//
// # Performance
//
// The cost grows with the output area, so a 2x upscale costs about four times
// the input size. Crop to the region of interest before scaling.
func Scale(img image.Image, factor float64) (*image.NRGBA, error) {
	if factor <= 0 {
		return nil, fmt.Errorf("invalid scale factor %v", factor)
	}
	b := img.Bounds()
	if factor == 1 {
		return imaging.Clone(img), nil
	}
	w := int(float64(b.Dx())*factor + 0.5)
	h := int(float64(b.Dy())*factor + 0.5)
	if w < 1 || h < 1 {
		return nil, fmt.Errorf("scale %v collapses %dx%d image", factor, b.Dx(), b.Dy())
	}
	return imaging.Resize(img, w, h, imaging.CatmullRom), nil
}

// Save writes img to path; the format follows the file extension.
func Save(img image.Image, path string) error {
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("failed to save image %s: %w", path, err)
	}
	return nil
}
