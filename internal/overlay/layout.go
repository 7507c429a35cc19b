package overlay

import (
	"fmt"
	"image"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/hextech-overlay/internal/analyzer"
)

// Anchor says which point of a label Pos refers to.
type Anchor int

const (
	AnchorTopLeft Anchor = iota
	AnchorCenter
)

// Label is one piece of text on the overlay, in overlay coordinates.
type Label struct {
	Key    string
	Text   string
	Pos    image.Point
	Anchor Anchor
	Color  colorful.Color
}

// Frame is the full overlay content at one moment.
type Frame struct {
	Size   image.Point
	Labels []Label
}

// Layout places labels on an overlay window covering Desktop.
//
// Result labels use their region's left edge and one shared row above the
// first region, so the three labels line up even when regions do not.
type Layout struct {
	Desktop image.Rectangle
	Regions []analyzer.Region
	// Lift is the distance from the first region's top to the label row.
	Lift int
}

// Size is the overlay window size.
func (l Layout) Size() image.Point { return l.Desktop.Size() }

// Row is the shared label Y in overlay coordinates.
func (l Layout) Row() int {
	if len(l.Regions) == 0 {
		return 0
	}
	return l.Regions[0].Rect.Min.Y - l.Desktop.Min.Y - l.Lift
}

// RegionPos returns where the label for region key goes.
func (l Layout) RegionPos(key string) (image.Point, bool) {
	for _, r := range l.Regions {
		if r.Key == key {
			return image.Pt(r.Rect.Min.X-l.Desktop.Min.X, l.Row()), true
		}
	}
	return image.Point{}, false
}

// Center is the middle of the overlay.
func (l Layout) Center() image.Point {
	s := l.Size()
	return image.Pt(s.X/2, s.Y/2)
}

// Palette holds the label colors.
type Palette struct {
	Normal colorful.Color
	Best   colorful.Color
	Status colorful.Color
	Error  colorful.Color
}

// DefaultPalette is green, gold, yellow and red.
func DefaultPalette() Palette {
	p, _ := ParsePalette("#00FF00", "#FFD700", "#FFFF00", "#FF3333")
	return p
}

// ParsePalette reads four #RRGGBB colors.
func ParsePalette(normal, best, status, errColor string) (Palette, error) {
	var p Palette
	for _, c := range []struct {
		name string
		hex  string
		dst  *colorful.Color
	}{
		{"normal", normal, &p.Normal},
		{"best", best, &p.Best},
		{"status", status, &p.Status},
		{"error", errColor, &p.Error},
	} {
		v, err := colorful.Hex(c.hex)
		if err != nil {
			return Palette{}, fmt.Errorf("invalid %s color %q: %w", c.name, c.hex, err)
		}
		*c.dst = v
	}
	return p, nil
}

// For picks the color for a result: error, then best, then normal.
func (p Palette) For(r analyzer.Result) colorful.Color {
	switch {
	case r.IsError:
		return p.Error
	case r.IsBest:
		return p.Best
	default:
		return p.Normal
	}
}
