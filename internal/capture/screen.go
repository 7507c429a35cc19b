package capture

import (
	"fmt"
	"image"

	"github.com/kbinani/screenshot"
)

// Screen captures from the live desktop. Regions may span monitors; the
// desktop is the union of all active display bounds.
type Screen struct {
	desktop image.Rectangle
}

// NewScreen snapshots the desktop geometry. It fails when no display is
// active.
func NewScreen() (*Screen, error) {
	desktop, err := Desktop()
	if err != nil {
		return nil, err
	}
	return &Screen{desktop: desktop}, nil
}

// ScreenFactory is a Factory producing Screen capturers.
func ScreenFactory() (Capturer, error) {
	s, err := NewScreen()
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Capture grabs r from the screen.
func (s *Screen) Capture(r image.Rectangle) (image.Image, error) {
	if r.Empty() {
		return nil, fmt.Errorf("invalid capture region %v: empty", r)
	}
	if !r.In(s.desktop) {
		return nil, fmt.Errorf("capture region %v outside desktop %v", r, s.desktop)
	}
	img, err := screenshot.CaptureRect(r)
	if err != nil {
		return nil, fmt.Errorf("failed to capture %v: %w", r, err)
	}
	return img, nil
}

// Desktop returns the virtual desktop rectangle covering every active
// display. Its Min is the top-left origin, which is negative when a monitor
// sits left of or above the primary one.
func Desktop() (image.Rectangle, error) {
	n := screenshot.NumActiveDisplays()
	if n <= 0 {
		return image.Rectangle{}, fmt.Errorf("no active displays")
	}
	var desktop image.Rectangle
	for i := 0; i < n; i++ {
		desktop = desktop.Union(screenshot.GetDisplayBounds(i))
	}
	return desktop, nil
}

// Full captures the whole virtual desktop.
func Full() (*image.RGBA, image.Rectangle, error) {
	desktop, err := Desktop()
	if err != nil {
		return nil, image.Rectangle{}, err
	}
	img, err := screenshot.CaptureRect(desktop)
	if err != nil {
		return nil, image.Rectangle{}, fmt.Errorf("failed to capture desktop: %w", err)
	}
	return img, desktop, nil
}
