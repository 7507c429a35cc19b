package ocr

import (
	"image"
	"strings"
	"unicode"
)

// Recognizer extracts ordered text fragments from an image.
type Recognizer interface {
	Recognize(img image.Image) ([]string, error)
}

// Factory creates a Recognizer for one worker.
type Factory func() (Recognizer, error)

// Options configures a Tesseract recognizer.
type Options struct {
	Language       string
	TessdataPrefix string
	// PageSegMode is a Tesseract page segmentation mode; 7 treats the image
	// as a single text line.
	PageSegMode int
}

// Clean joins fragments and removes whitespace and periods, both ASCII and
// ideographic, leaving the bare augment name.
func Clean(fragments []string) string {
	var b strings.Builder
	for _, f := range fragments {
		for _, r := range f {
			if unicode.IsSpace(r) || r == '.' || r == '。' || r == '·' {
				continue
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}
