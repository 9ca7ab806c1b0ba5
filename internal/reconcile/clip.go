package reconcile

import (
	"github.com/ironsheep/challenge-layout/internal/detection"
	"github.com/ironsheep/challenge-layout/internal/layout"
)

// ClipCells intersects every cell with bounds. Cells with no positive-area
// overlap are dropped; the rest keep their id and score and get the clipped box
// and its center.
func ClipCells(cells []layout.GridCell, bounds layout.Box) []layout.GridCell {
	out := make([]layout.GridCell, 0, len(cells))
	for _, c := range cells {
		clipped, ok := c.BBox.Intersect(bounds)
		if !ok {
			continue
		}
		out = append(out, layout.NewGridCell(c.ID, clipped, c.Score))
	}
	return out
}

// ClipCandidates applies the same rule to candidates before they become cells.
func ClipCandidates(list []detection.Candidate, bounds layout.Box) []detection.Candidate {
	out := make([]detection.Candidate, 0, len(list))
	for _, c := range list {
		clipped, ok := c.Box.Intersect(bounds)
		if !ok {
			continue
		}
		c.Box = clipped
		out = append(out, c)
	}
	return out
}

// renumber returns copies of cells with ids 1..n in their current order.
func renumber(cells []layout.GridCell) []layout.GridCell {
	out := make([]layout.GridCell, len(cells))
	for i, c := range cells {
		out[i] = c.WithID(i + 1)
	}
	return out
}
