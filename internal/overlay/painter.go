package overlay

import (
	"errors"
	"image"
	"sync"

	"github.com/ironsheep/hextech-overlay/internal/imaging"
	"github.com/ironsheep/hextech-overlay/internal/logger"
)

// Painter puts a frame on screen. The renderer calls Paint from its own
// goroutine whenever the labels change; an empty frame hides everything.
type Painter interface {
	Paint(f Frame) error
}

// NopPainter discards frames.
type NopPainter struct{}

// Paint implements Painter.
func (NopPainter) Paint(Frame) error { return nil }

// Multi paints to every painter in order, collecting their errors.
type Multi []Painter

// Paint implements Painter.
func (m Multi) Paint(f Frame) error {
	var errs []error
	for _, p := range m {
		if err := p.Paint(f); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LogPainter writes each frame to the log, one event per label.
type LogPainter struct {
	Log *logger.Logger
}

// Paint implements Painter.
func (p LogPainter) Paint(f Frame) error {
	log := logger.Or(p.Log, "overlay")
	if len(f.Labels) == 0 {
		log.Debug().Msg("overlay hidden")
		return nil
	}
	for _, l := range f.Labels {
		log.Info().
			Str("key", l.Key).
			Int("x", l.Pos.X).
			Int("y", l.Pos.Y).
			Str("color", l.Color.Hex()).
			Msg(l.Text)
	}
	return nil
}

// Canvas rasterizes frames onto a transparent image, the form a compositor
// or browser source can display. When DumpPath is set every non-empty frame
// is also written there as PNG.
//
// Glyphs come from basicfont, which only covers ASCII; other characters are
// drawn as boxes, so the canvas is for layout checks rather than reading.
type Canvas struct {
	DumpPath string

	mu    sync.Mutex
	frame *image.RGBA
}

// Paint implements Painter.
func (c *Canvas) Paint(f Frame) error {
	img := Render(f)

	c.mu.Lock()
	c.frame = img
	c.mu.Unlock()

	if c.DumpPath == "" || len(f.Labels) == 0 {
		return nil
	}
	return imaging.Save(img, c.DumpPath)
}

// Frame returns the last painted image, nil before the first Paint.
func (c *Canvas) Frame() *image.RGBA {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frame
}

// Render draws f onto a new transparent image of f.Size.
func Render(f Frame) *image.RGBA {
	img := image.NewRGBA(image.Rectangle{Max: f.Size})
	for _, l := range f.Labels {
		pos := l.Pos
		if l.Anchor == AnchorCenter {
			size := imaging.TextSize(l.Text)
			pos = pos.Sub(size.Div(2))
		}
		imaging.DrawText(img, pos.X, pos.Y, l.Text, l.Color)
	}
	return img
}
