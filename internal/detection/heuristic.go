package detection

import (
	"context"
	"image"

	"github.com/ironsheep/challenge-layout/internal/imaging"
	"github.com/ironsheep/challenge-layout/internal/layout"
)

const (
	// DefaultMinTileArea is the smallest contour bounding box, in square
	// pixels, accepted as a tile.
	DefaultMinTileArea = 2000

	// DefaultMaxTileAreaRatio rejects contours covering more than this share of
	// the body. Those are frames around the grid, not tiles.
	DefaultMaxTileAreaRatio = 0.5

	minContourPixels = 10
)

// HeuristicSource proposes tile boxes from edges and contours. It needs no
// model files and never fails on a decodable image.
type HeuristicSource struct {
	// MinArea and MaxAreaRatio bound the accepted contour bounding boxes.
	MinArea      int
	MaxAreaRatio float64

	// Edges tunes the edge mask computed over the body area.
	Edges imaging.EdgeOptions
}

// NewHeuristicSource returns a source with the default contour gate.
func NewHeuristicSource() *HeuristicSource {
	return &HeuristicSource{
		MinArea:      DefaultMinTileArea,
		MaxAreaRatio: DefaultMaxTileAreaRatio,
		Edges:        imaging.DefaultEdgeOptions(),
	}
}

// Name identifies the source in region provenance.
func (h *HeuristicSource) Name() layout.Source { return layout.SourceHeuristic }

// Detect finds tile candidates in the body area of img.
//
// # Algorithm
//
//  1. Body area: everything below the instruction band found by the brightness
//     profile, or below the top-20% line
//  2. Edge mask: blur, Canny-style gradients and dilation over the body only
//  3. Contour finding: flood-fill groups connected edge pixels
//  4. Bounding box: the bounding rectangle of each contour, in image coordinates
//  5. Filtering: boxes under MinArea or over MaxAreaRatio of the body are dropped
//
// Tiles carry no score. Duplicates (nested outlines of one tile) are left to the
// size-based suppressor.
func (h *HeuristicSource) Detect(ctx context.Context, img image.Image) (*Batch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	band, _ := imaging.InstructionBand(img)
	body := imaging.BodyBelow(&band, width, height)

	rect := image.Rect(body.X, body.Y, body.Right(), body.Bottom()).Add(bounds.Min)
	edges := imaging.EdgeMask(img, rect, h.Edges)
	if edges == nil {
		return &Batch{Source: layout.SourceHeuristic}, nil
	}

	maxArea := int(h.MaxAreaRatio * float64(body.Area()))
	detections := make([]Detection, 0)
	for _, contour := range findContours(edges, body.W, body.H, minContourPixels) {
		r := boundingRect(contour)
		box := layout.Box{X: r.Min.X, Y: r.Min.Y, W: r.Dx(), H: r.Dy()}.Translate(body.X, body.Y)
		if box.Area() < h.MinArea {
			continue
		}
		if h.MaxAreaRatio > 0 && box.Area() > maxArea {
			continue
		}
		detections = append(detections, Detection{Box: box, Category: CategoryTile})
	}

	return &Batch{Source: layout.SourceHeuristic, Detections: detections}, nil
}
