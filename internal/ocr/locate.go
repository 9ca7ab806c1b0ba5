package ocr

import (
	"context"
	"errors"
	"image"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/challenge-layout/internal/layout"
)

// ErrUnavailable is returned when the binary was built without an OCR backend.
var ErrUnavailable = errors.New("ocr backend unavailable")

const (
	// ScanFraction is the top share of the image searched for words.
	ScanFraction = 0.35

	// DefaultMinConfidence drops words Tesseract is unsure about (0.0 to 1.0).
	DefaultMinConfidence = 0.5

	bandPadding = 10
)

// Word is one recognized word and its box in image coordinates.
type Word struct {
	Text       string
	Confidence float64
	Box        layout.Box
}

// WordFinder returns the words in an image.
type WordFinder interface {
	Words(ctx context.Context, img image.Image) ([]Word, error)
}

// TopStrip returns the part of img scanned for instruction text, with its
// origin at (0, 0).
func TopStrip(img image.Image) *image.NRGBA {
	b := img.Bounds()
	h := int(float64(b.Dy()) * ScanFraction)
	if h < 1 {
		h = 1
	}
	return imaging.Crop(img, image.Rect(b.Min.X, b.Min.Y, b.Max.X, b.Min.Y+h))
}

// InstructionBand merges confident, non-empty words into a full-width band
// starting at the top of the image.
//
// The band ends bandPadding pixels below the lowest word, capped at the scan
// limit. It reports false when no word qualifies.
func InstructionBand(words []Word, minConfidence float64, width, height int) (layout.Box, bool) {
	limit := int(float64(height) * ScanFraction)
	bottom := -1
	for _, w := range words {
		if w.Text == "" || w.Confidence < minConfidence || w.Box.Empty() {
			continue
		}
		if w.Box.Y >= limit {
			continue
		}
		if w.Box.Bottom() > bottom {
			bottom = w.Box.Bottom()
		}
	}
	if bottom < 0 {
		return layout.Box{}, false
	}
	bottom += bandPadding
	if bottom > limit {
		bottom = limit
	}
	return layout.Box{X: 0, Y: 0, W: width, H: bottom}, true
}

// LocateInstruction runs f over the top of img and returns the instruction band
// its words describe.
func LocateInstruction(ctx context.Context, f WordFinder, img image.Image) (layout.Box, bool, error) {
	words, err := f.Words(ctx, TopStrip(img))
	if err != nil {
		return layout.Box{}, false, err
	}
	b := img.Bounds()
	box, ok := InstructionBand(words, DefaultMinConfidence, b.Dx(), b.Dy())
	return box, ok, nil
}
