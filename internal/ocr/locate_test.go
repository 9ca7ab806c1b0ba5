package ocr

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/ironsheep/challenge-layout/internal/layout"
	"github.com/ironsheep/challenge-layout/internal/testutil"
)

type stubFinder struct {
	words []Word
	err   error
	seen  image.Rectangle
}

func (s *stubFinder) Words(_ context.Context, img image.Image) ([]Word, error) {
	s.seen = img.Bounds()
	return s.words, s.err
}

func TestTopStrip(t *testing.T) {
	strip := TopStrip(testutil.Blank(200, 100))
	if strip.Bounds() != image.Rect(0, 0, 200, 35) {
		t.Errorf("strip bounds: got %v, want 200x35", strip.Bounds())
	}
}

func TestInstructionBand(t *testing.T) {
	words := []Word{
		{Text: "Select", Confidence: 0.9, Box: layout.Box{X: 20, Y: 10, W: 60, H: 14}},
		{Text: "all", Confidence: 0.8, Box: layout.Box{X: 90, Y: 30, W: 20, H: 14}},
		// Too uncertain to count.
		{Text: "~~", Confidence: 0.2, Box: layout.Box{X: 10, Y: 60, W: 20, H: 20}},
		// Blank word.
		{Text: "", Confidence: 0.99, Box: layout.Box{X: 10, Y: 70, W: 20, H: 20}},
	}

	box, ok := InstructionBand(words, DefaultMinConfidence, 400, 400)
	if !ok {
		t.Fatal("expected a band")
	}
	want := layout.Box{X: 0, Y: 0, W: 400, H: 54}
	if box != want {
		t.Errorf("band: got %s, want %s", box, want)
	}
}

func TestInstructionBand_CappedAndEmpty(t *testing.T) {
	words := []Word{{Text: "tap", Confidence: 0.9, Box: layout.Box{X: 0, Y: 120, W: 30, H: 30}}}
	box, ok := InstructionBand(words, DefaultMinConfidence, 400, 400)
	if !ok || box.H != 140 {
		t.Errorf("band: got %s ok=%v, want height capped at 140", box, ok)
	}

	// Words starting below the scan limit are ignored.
	words = []Word{{Text: "footer", Confidence: 0.9, Box: layout.Box{X: 0, Y: 300, W: 30, H: 20}}}
	if _, ok := InstructionBand(words, DefaultMinConfidence, 400, 400); ok {
		t.Error("words below the scan limit should not form a band")
	}
	if _, ok := InstructionBand(nil, DefaultMinConfidence, 400, 400); ok {
		t.Error("no words should not form a band")
	}
}

func TestLocateInstruction(t *testing.T) {
	f := &stubFinder{words: []Word{{Text: "Click", Confidence: 0.95, Box: layout.Box{X: 5, Y: 5, W: 40, H: 12}}}}
	box, ok, err := LocateInstruction(context.Background(), f, testutil.Blank(300, 200))
	if err != nil || !ok {
		t.Fatalf("LocateInstruction: ok=%v err=%v", ok, err)
	}
	if f.seen != image.Rect(0, 0, 300, 70) {
		t.Errorf("finder saw %v, want the top strip", f.seen)
	}
	if box != (layout.Box{X: 0, Y: 0, W: 300, H: 27}) {
		t.Errorf("band: got %s", box)
	}

	f = &stubFinder{err: ErrUnavailable}
	if _, _, err := LocateInstruction(context.Background(), f, testutil.Blank(300, 200)); !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}
