package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/challenge-layout/internal/layout"
)

// CropBox extracts a box from an image. The result has its origin at (0, 0).
func CropBox(img image.Image, b layout.Box) (*image.NRGBA, error) {
	bounds := img.Bounds()
	rect := image.Rect(b.X, b.Y, b.Right(), b.Bottom()).Add(bounds.Min)
	if b.Empty() {
		return nil, fmt.Errorf("invalid crop region %s", b)
	}
	if !rect.In(bounds) {
		return nil, fmt.Errorf("crop region %s outside image bounds (%d,%d)-(%d,%d)",
			b, bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
	}
	return imaging.Crop(img, rect), nil
}

// EncodePNG encodes an image as PNG bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}
