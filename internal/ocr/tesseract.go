//go:build cgo

package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Tesseract is a Recognizer backed by one gosseract client. It is not safe
// for concurrent use.
type Tesseract struct {
	client *gosseract.Client
}

// NewTesseract creates a gosseract client configured for single-line UI text.
//
// Parameters:
//   - opts.Language: Tesseract language code (e.g., "chi_sim"). The language
//     data must be installed, or reachable through opts.TessdataPrefix.
//   - opts.TessdataPrefix: directory holding the .traineddata files. Empty
//     uses the system default.
//   - opts.PageSegMode: Tesseract page segmentation mode (7 is one text line).
//
// Returns:
//   - *Tesseract: a recognizer holding the client until Close.
//   - error: Non-nil if any setting is rejected. The client is closed first.
//
// The client is not safe for concurrent use; the analyzer gives each worker
// its own through TesseractFactory.
func NewTesseract(opts Options) (*Tesseract, error) {
	client := gosseract.NewClient()

	if opts.TessdataPrefix != "" {
		if err := client.SetTessdataPrefix(opts.TessdataPrefix); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to set tessdata path: %w", err)
		}
	}
	if err := client.SetLanguage(opts.Language); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetPageSegMode(gosseract.PageSegMode(opts.PageSegMode)); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set page segmentation mode: %w", err)
	}

	return &Tesseract{client: client}, nil
}

// TesseractFactory returns a Factory creating one client per call.
func TesseractFactory(opts Options) Factory {
	return func() (Recognizer, error) {
		t, err := NewTesseract(opts)
		if err != nil {
			return nil, err
		}
		return t, nil
	}
}

// Recognize returns the text lines Tesseract finds in img, top to bottom.
func (t *Tesseract) Recognize(img image.Image) ([]string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	if err := t.client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := t.client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err == nil {
		lines := make([]string, 0, len(boxes))
		for _, box := range boxes {
			if w := strings.TrimSpace(box.Word); w != "" {
				lines = append(lines, w)
			}
		}
		return lines, nil
	}

	// Fall back to plain text when layout analysis fails.
	text, err := t.client.Text()
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}
	return strings.Fields(text), nil
}

// Close releases the native client.
func (t *Tesseract) Close() error {
	if t.client == nil {
		return nil
	}
	err := t.client.Close()
	t.client = nil
	return err
}

// Version reports the linked Tesseract version.
func Version() string {
	client := gosseract.NewClient()
	defer client.Close()
	return client.Version()
}
