// Package capture grabs screen regions and prepares them for recognition.
//
// A Capturer is not assumed to be safe for concurrent use. The analyzer gives
// each worker its own Capturer created from a Factory on first use.
package capture

import (
	"image"
)

// Capturer returns the pixels inside r, where r is in screen coordinates.
type Capturer interface {
	Capture(r image.Rectangle) (image.Image, error)
}

// Factory creates a Capturer for one worker.
type Factory func() (Capturer, error)
