package reconcile

import (
	"sort"

	"github.com/ironsheep/challenge-layout/internal/detection"
	"github.com/ironsheep/challenge-layout/internal/layout"
)

// Markers are the reconciled ball collections.
type Markers struct {
	Balls   []layout.GridCell
	Targets []layout.GridCell
}

// readingOrder returns a copy of list sorted by center y, then center x.
// Candidates at the same position keep their source order.
func readingOrder(list []detection.Candidate) []detection.Candidate {
	out := append([]detection.Candidate(nil), list...)
	sort.SliceStable(out, func(i, j int) bool {
		ci, cj := out[i].Box.Center(), out[j].Box.Center()
		if ci.Y != cj.Y {
			return ci.Y < cj.Y
		}
		if ci.X != cj.X {
			return ci.X < cj.X
		}
		return out[i].Order < out[j].Order
	})
	return out
}

// ReconcileMarkers orders suppressed ball and target candidates and numbers
// each collection from 1.
//
// Markers are clipped to the body and sorted in reading order. Only the first
// target in reading order stays a target; any other target is demoted to an
// ordinary ball with its box unchanged.
func ReconcileMarkers(balls, targets []detection.Candidate, body layout.Box) Markers {
	targets = readingOrder(ClipCandidates(targets, body))
	balls = ClipCandidates(balls, body)

	if len(targets) > 1 {
		balls = append(balls, targets[1:]...)
		targets = targets[:1]
	}
	balls = readingOrder(balls)

	return Markers{
		Balls:   markerCells(balls),
		Targets: markerCells(targets),
	}
}

func markerCells(list []detection.Candidate) []layout.GridCell {
	cells := make([]layout.GridCell, 0, len(list))
	for i, c := range list {
		cells = append(cells, layout.NewGridCell(i+1, c.Box, c.Score))
	}
	return cells
}
