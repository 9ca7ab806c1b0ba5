//go:build ocr
// +build ocr

package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"

	"github.com/ironsheep/challenge-layout/internal/layout"
)

// Tesseract finds words with the Tesseract engine.
type Tesseract struct {
	// Language is a Tesseract language code such as "eng".
	Language string

	// TessdataPrefix overrides the directory holding the language data.
	TessdataPrefix string
}

// NewTesseract returns a word finder for the given language.
func NewTesseract(language string) *Tesseract {
	return &Tesseract{Language: language}
}

// Available reports whether this build can run OCR.
func (t *Tesseract) Available() bool { return true }

// Words returns the word-level boxes Tesseract finds in img, in img coordinates.
// Empty words are dropped. Confidence is scaled to 0.0 - 1.0.
func (t *Tesseract) Words(ctx context.Context, img image.Image) ([]Word, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode image for OCR: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if t.TessdataPrefix != "" {
		if err := client.SetTessdataPrefix(t.TessdataPrefix); err != nil {
			return nil, fmt.Errorf("failed to set tessdata path: %w", err)
		}
	}
	if err := client.SetLanguage(t.Language); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetPageSegMode(gosseract.PSM_SPARSE_TEXT); err != nil {
		return nil, fmt.Errorf("failed to set page segmentation: %w", err)
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("failed to get word boxes: %w", err)
	}

	origin := img.Bounds().Min
	words := make([]Word, 0, len(boxes))
	for _, box := range boxes {
		text := strings.TrimSpace(box.Word)
		if text == "" {
			continue
		}
		r := box.Box.Add(origin)
		words = append(words, Word{
			Text:       text,
			Confidence: box.Confidence / 100.0,
			Box:        layout.Box{X: r.Min.X, Y: r.Min.Y, W: r.Dx(), H: r.Dy()},
		})
	}
	return words, nil
}
