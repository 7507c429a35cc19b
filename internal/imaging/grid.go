package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// LineHeight is the vertical advance of one text line drawn by DrawText.
const LineHeight = 15

// NamedRect is a labelled rectangle in image coordinates.
type NamedRect struct {
	Name string
	Rect image.Rectangle
}

// CalibrationSheet draws a coordinate grid and the given regions over a copy
// of img. Each region gets an outline and its name plus coordinates above it,
// so the fixed capture geometry can be checked against a real screenshot.
// offset is added to the printed coordinates to report them in screen space
// when img does not start at the desktop origin.
func CalibrationSheet(img image.Image, regions []NamedRect, gridSpacing int, offset image.Point) *image.RGBA {
	bounds := img.Bounds()
	sheet := image.NewRGBA(bounds)
	draw.Draw(sheet, bounds, img, bounds.Min, draw.Src)

	gridColor := color.RGBA{255, 0, 0, 96}
	labelColor := color.RGBA{255, 255, 255, 255}
	boxColor := color.RGBA{0, 255, 0, 255}

	if gridSpacing > 0 {
		for x := bounds.Min.X + gridSpacing; x < bounds.Max.X; x += gridSpacing {
			for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
				blend(sheet, x, y, gridColor)
			}
		}
		for y := bounds.Min.Y + gridSpacing; y < bounds.Max.Y; y += gridSpacing {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				blend(sheet, x, y, gridColor)
			}
		}
		for y := bounds.Min.Y + gridSpacing; y < bounds.Max.Y; y += gridSpacing {
			for x := bounds.Min.X + gridSpacing; x < bounds.Max.X; x += gridSpacing {
				DrawText(sheet, x+2, y+2, fmt.Sprintf("%d,%d", x+offset.X, y+offset.Y), labelColor)
			}
		}
	}

	for _, r := range regions {
		outline(sheet, r.Rect, 2, boxColor)
		label := fmt.Sprintf("%s (%d,%d %dx%d)", r.Name, r.Rect.Min.X+offset.X, r.Rect.Min.Y+offset.Y, r.Rect.Dx(), r.Rect.Dy())
		DrawText(sheet, r.Rect.Min.X, r.Rect.Min.Y-LineHeight-2, label, boxColor)
	}

	return sheet
}

// DrawText draws text with its top-left corner at (x, y) on a translucent
// backdrop. Newlines start a new line. Glyphs outside basicfont's range are
// drawn as the font's fallback box.
func DrawText(dst draw.Image, x, y int, text string, fg color.Color) {
	lines := strings.Split(text, "\n")
	face := basicfont.Face7x13

	size := TextSize(text)
	backdrop := image.Rect(x-2, y-1, x+size.X+2, y+size.Y+1).Intersect(dst.Bounds())
	draw.Draw(dst, backdrop, image.NewUniform(color.RGBA{0, 0, 0, 160}), image.Point{}, draw.Over)

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(fg),
		Face: face,
	}
	for i, line := range lines {
		d.Dot = fixed.P(x, y+i*LineHeight+face.Ascent)
		d.DrawString(line)
	}
}

// TextSize returns the pixel size DrawText needs for text.
func TextSize(text string) image.Point {
	lines := strings.Split(text, "\n")
	width := 0
	for _, line := range lines {
		if w := font.MeasureString(basicfont.Face7x13, line).Ceil(); w > width {
			width = w
		}
	}
	return image.Pt(width, len(lines)*LineHeight)
}

func outline(img *image.RGBA, r image.Rectangle, thickness int, c color.Color) {
	for t := 0; t < thickness; t++ {
		inner := r.Inset(-t)
		for x := inner.Min.X; x < inner.Max.X; x++ {
			setIn(img, x, inner.Min.Y, c)
			setIn(img, x, inner.Max.Y-1, c)
		}
		for y := inner.Min.Y; y < inner.Max.Y; y++ {
			setIn(img, inner.Min.X, y, c)
			setIn(img, inner.Max.X-1, y, c)
		}
	}
}

func setIn(img *image.RGBA, x, y int, c color.Color) {
	if image.Pt(x, y).In(img.Bounds()) {
		img.Set(x, y, c)
	}
}

// blend composites a translucent color over one pixel.
func blend(img *image.RGBA, x, y int, c color.RGBA) {
	draw.Draw(img, image.Rect(x, y, x+1, y+1), image.NewUniform(c), image.Point{}, draw.Over)
}
