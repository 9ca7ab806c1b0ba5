package reconcile

import (
	"context"
	"image"

	"github.com/ironsheep/challenge-layout/internal/detection"
	"github.com/ironsheep/challenge-layout/internal/imaging"
	"github.com/ironsheep/challenge-layout/internal/layout"
	"github.com/ironsheep/challenge-layout/internal/ocr"
)

// AreaOrigin records how an area was located.
type AreaOrigin string

const (
	OriginDetected AreaOrigin = "detected"
	OriginProfile  AreaOrigin = "profile"
	OriginOCR      AreaOrigin = "ocr"
	OriginDefault  AreaOrigin = "default"
	OriginBelow    AreaOrigin = "below_instruction"
)

// Areas are the instruction and body boxes of an image.
type Areas struct {
	Instruction       layout.Box
	Body              layout.Box
	InstructionOrigin AreaOrigin
	BodyOrigin        AreaOrigin

	// TextErr is the word finder failure, if one was consulted and failed.
	TextErr error
}

// LocateAreas picks the instruction and body areas. It never fails.
//
// The instruction area is, in order of preference: the best detected
// instruction box clipped to the image, the dark band found by the brightness
// profile, the band covered by words from text (when text is not nil), or the
// top 20% of the image. The body is the best detected body box clipped to the
// image, or everything below the instruction area.
func LocateAreas(ctx context.Context, img image.Image, cands detection.Candidates, text ocr.WordFinder) Areas {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	frame := layout.Box{X: 0, Y: 0, W: width, H: height}

	var areas Areas
	if c, ok := cands.Best(detection.CategoryInstruction); ok {
		if box, ok := c.Box.Intersect(frame); ok {
			areas.Instruction, areas.InstructionOrigin = box, OriginDetected
		}
	}
	if areas.InstructionOrigin == "" {
		if box, ok := imaging.InstructionBand(img); ok {
			areas.Instruction, areas.InstructionOrigin = box, OriginProfile
		}
	}
	if areas.InstructionOrigin == "" && text != nil {
		box, ok, err := ocr.LocateInstruction(ctx, text, img)
		switch {
		case err != nil:
			areas.TextErr = err
		case ok:
			areas.Instruction, areas.InstructionOrigin = box, OriginOCR
		}
	}
	if areas.InstructionOrigin == "" {
		areas.Instruction, areas.InstructionOrigin = imaging.DefaultInstructionArea(width, height), OriginDefault
	}

	if c, ok := cands.Best(detection.CategoryBody); ok {
		if box, ok := c.Box.Intersect(frame); ok {
			areas.Body, areas.BodyOrigin = box, OriginDetected
		}
	}
	if areas.BodyOrigin == "" {
		instruction := areas.Instruction
		areas.Body, areas.BodyOrigin = imaging.BodyBelow(&instruction, width, height), OriginBelow
	}
	return areas
}
