package reconcile

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/challenge-layout/internal/detection"
	"github.com/ironsheep/challenge-layout/internal/layout"
	"github.com/ironsheep/challenge-layout/internal/ocr"
	"github.com/ironsheep/challenge-layout/internal/testutil"
)

type fakeWords struct {
	words []ocr.Word
	err   error
	calls int
}

func (f *fakeWords) Words(ctx context.Context, img image.Image) ([]ocr.Word, error) {
	f.calls++
	return f.words, f.err
}

func TestLocateAreas_Detected(t *testing.T) {
	cands := detection.Candidates{
		detection.CategoryInstruction: {
			{Box: layout.Box{X: 0, Y: 0, W: 500, H: 40}, Score: score(0.5)},
			{Box: layout.Box{X: 0, Y: 0, W: 500, H: 50}, Score: score(0.9)},
		},
		detection.CategoryBody: {
			{Box: layout.Box{X: -10, Y: 50, W: 600, H: 400}, Score: score(0.8)},
		},
	}
	words := &fakeWords{}

	areas := LocateAreas(context.Background(), testutil.Blank(500, 430), cands, words)

	assert.Equal(t, OriginDetected, areas.InstructionOrigin)
	assert.Equal(t, layout.Box{X: 0, Y: 0, W: 500, H: 50}, areas.Instruction)
	assert.Equal(t, OriginDetected, areas.BodyOrigin)
	assert.Equal(t, layout.Box{X: 0, Y: 50, W: 500, H: 380}, areas.Body)
	assert.Zero(t, words.calls, "OCR is not consulted when a box was detected")
}

func TestLocateAreas_DetectedOutsideImage(t *testing.T) {
	cands := detection.Candidates{
		detection.CategoryInstruction: {{Box: layout.Box{X: 600, Y: 0, W: 50, H: 50}}},
	}

	areas := LocateAreas(context.Background(), testutil.Blank(500, 430), cands, nil)

	assert.Equal(t, OriginDefault, areas.InstructionOrigin)
	assert.Equal(t, layout.Box{X: 0, Y: 0, W: 500, H: 86}, areas.Instruction)
}

func TestLocateAreas_Profile(t *testing.T) {
	words := &fakeWords{}
	areas := LocateAreas(context.Background(), testutil.ChallengeImage(), detection.Candidates{}, words)

	assert.Equal(t, OriginProfile, areas.InstructionOrigin)
	assert.GreaterOrEqual(t, areas.Instruction.H, testutil.BarHeight)
	assert.Less(t, areas.Instruction.H, testutil.TileTop)

	assert.Equal(t, OriginBelow, areas.BodyOrigin)
	assert.Equal(t, areas.Instruction.Bottom(), areas.Body.Y)
	assert.Equal(t, testutil.SceneHeight, areas.Body.Bottom())
	assert.Equal(t, testutil.SceneWidth, areas.Body.W)
	assert.Zero(t, words.calls)
}

func TestLocateAreas_OCR(t *testing.T) {
	words := &fakeWords{words: []ocr.Word{
		{Text: "Select", Confidence: 0.92, Box: layout.Box{X: 20, Y: 10, W: 80, H: 20}},
		{Text: "buses", Confidence: 0.88, Box: layout.Box{X: 110, Y: 12, W: 60, H: 22}},
		{Text: "~", Confidence: 0.10, Box: layout.Box{X: 200, Y: 100, W: 10, H: 10}},
	}}

	areas := LocateAreas(context.Background(), testutil.Blank(500, 430), detection.Candidates{}, words)

	require.Equal(t, 1, words.calls)
	require.NoError(t, areas.TextErr)
	assert.Equal(t, OriginOCR, areas.InstructionOrigin)
	assert.Equal(t, layout.Box{X: 0, Y: 0, W: 500, H: 44}, areas.Instruction)
	assert.Equal(t, layout.Box{X: 0, Y: 44, W: 500, H: 386}, areas.Body)
}

func TestLocateAreas_OCRFailure(t *testing.T) {
	boom := errors.New("tesseract crashed")
	words := &fakeWords{err: boom}

	areas := LocateAreas(context.Background(), testutil.Blank(500, 430), detection.Candidates{}, words)

	assert.ErrorIs(t, areas.TextErr, boom)
	assert.Equal(t, OriginDefault, areas.InstructionOrigin)
	assert.Equal(t, layout.Box{X: 0, Y: 0, W: 500, H: 86}, areas.Instruction)
}

func TestLocateAreas_Defaults(t *testing.T) {
	areas := LocateAreas(context.Background(), testutil.Blank(500, 430), nil, nil)

	assert.Equal(t, OriginDefault, areas.InstructionOrigin)
	assert.Equal(t, layout.Box{X: 0, Y: 0, W: 500, H: 86}, areas.Instruction)
	assert.Equal(t, OriginBelow, areas.BodyOrigin)
	assert.Equal(t, testBody, areas.Body)
	assert.NoError(t, areas.TextErr)
}
