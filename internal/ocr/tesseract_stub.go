//go:build !ocr
// +build !ocr

package ocr

import (
	"context"
	"image"
)

// Tesseract is unavailable in builds without the ocr tag.
type Tesseract struct {
	Language       string
	TessdataPrefix string
}

// NewTesseract returns a word finder that always reports ErrUnavailable.
func NewTesseract(language string) *Tesseract {
	return &Tesseract{Language: language}
}

// Available reports whether this build can run OCR.
func (t *Tesseract) Available() bool { return false }

// Words returns ErrUnavailable.
func (t *Tesseract) Words(ctx context.Context, img image.Image) ([]Word, error) {
	_ = ctx
	_ = img
	return nil, ErrUnavailable
}
