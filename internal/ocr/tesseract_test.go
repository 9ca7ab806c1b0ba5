//go:build ocr
// +build ocr

package ocr

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"testing"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// textImage renders black text onto a white canvas scaled up so Tesseract can
// read the 7x13 bitmap face.
func textImage(text string) image.Image {
	small := image.NewRGBA(image.Rect(0, 0, 200, 30))
	draw.Draw(small, small.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	d := &font.Drawer{
		Dst:  small,
		Src:  image.NewUniform(color.Black),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(10, 20),
	}
	d.DrawString(text)

	const scale = 4
	big := image.NewRGBA(image.Rect(0, 0, 200*scale, 30*scale))
	for y := 0; y < 30*scale; y++ {
		for x := 0; x < 200*scale; x++ {
			big.Set(x, y, small.At(x/scale, y/scale))
		}
	}
	return big
}

func TestTesseract_Words(t *testing.T) {
	tess := NewTesseract("eng")
	if !tess.Available() {
		t.Fatal("ocr build should report availability")
	}
	words, err := tess.Words(context.Background(), textImage("SELECT ALL"))
	if err != nil {
		t.Skipf("tesseract not usable here: %v", err)
	}
	if len(words) == 0 {
		t.Fatal("expected at least one word")
	}
	for _, w := range words {
		if w.Box.Empty() {
			t.Errorf("word %q has an empty box", w.Text)
		}
		if w.Confidence < 0 || w.Confidence > 1 {
			t.Errorf("word %q confidence %v outside [0, 1]", w.Text, w.Confidence)
		}
	}
}
