//go:build !cgo

package ocr

import (
	"errors"
	"image"
)

// ErrUnavailable is returned by every recognizer in builds without cgo.
var ErrUnavailable = errors.New("tesseract unavailable: built without cgo")

// Tesseract is a placeholder that always fails.
type Tesseract struct{}

// NewTesseract always fails without cgo.
func NewTesseract(Options) (*Tesseract, error) {
	return nil, ErrUnavailable
}

// TesseractFactory returns a Factory that always fails.
func TesseractFactory(opts Options) Factory {
	return func() (Recognizer, error) {
		return nil, ErrUnavailable
	}
}

// Recognize always fails.
func (*Tesseract) Recognize(image.Image) ([]string, error) {
	return nil, ErrUnavailable
}

// Close does nothing.
func (*Tesseract) Close() error { return nil }

// Version reports that no engine is linked.
func Version() string { return "unavailable" }
