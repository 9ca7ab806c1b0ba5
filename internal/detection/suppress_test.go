package detection

import (
	"testing"

	"github.com/ironsheep/challenge-layout/internal/layout"
)

func TestScoreNMS(t *testing.T) {
	list := []Candidate{
		{Box: layout.Box{X: 0, Y: 0, W: 100, H: 100}, Score: score(0.6), Order: 0},
		{Box: layout.Box{X: 10, Y: 10, W: 100, H: 100}, Score: score(0.9), Order: 1},
		{Box: layout.Box{X: 300, Y: 0, W: 100, H: 100}, Score: score(0.5), Order: 2},
		{Box: layout.Box{X: 60, Y: 0, W: 100, H: 100}, Score: score(0.7), Order: 3},
	}
	// 0 and 1 overlap with IoU 0.68; 3 overlaps 0 and 1 by 0.25 and 0.29.

	kept := ScoreNMS{Threshold: DefaultIoUThreshold}.Suppress(list)

	orders := make([]int, len(kept))
	for i, c := range kept {
		orders[i] = c.Order
	}
	if len(kept) != 3 || orders[0] != 1 || orders[1] != 3 || orders[2] != 2 {
		t.Fatalf("kept orders: got %v, want [1 3 2]", orders)
	}

	for i := range kept {
		for j := i + 1; j < len(kept); j++ {
			if iou := layout.IoU(kept[i].Box, kept[j].Box); iou > DefaultIoUThreshold {
				t.Errorf("kept boxes %d and %d overlap with IoU %.3f", kept[i].Order, kept[j].Order, iou)
			}
		}
	}
}

func TestScoreNMS_DoesNotMutateInput(t *testing.T) {
	list := []Candidate{
		{Box: layout.Box{W: 10, H: 10}, Score: score(0.1), Order: 0},
		{Box: layout.Box{W: 10, H: 10}, Score: score(0.9), Order: 1},
	}
	ScoreNMS{Threshold: DefaultIoUThreshold}.Suppress(list)
	if list[0].Order != 0 || list[1].Order != 1 {
		t.Error("Suppress reordered its input")
	}
}

func TestSizeNMS_KeepsLarger(t *testing.T) {
	outer := layout.Box{X: 100, Y: 100, W: 80, H: 80}
	inner := layout.Box{X: 104, Y: 104, W: 72, H: 72}
	other := layout.Box{X: 200, Y: 100, W: 80, H: 80}

	kept := SizeNMS{Threshold: DefaultOverlapThreshold}.Suppress([]Candidate{
		{Box: inner, Order: 0},
		{Box: outer, Order: 1},
		{Box: other, Order: 2},
	})

	if len(kept) != 2 {
		t.Fatalf("kept %d candidates, want 2", len(kept))
	}
	if kept[0].Box != outer || kept[1].Box != other {
		t.Errorf("kept boxes: got %s, %s", kept[0].Box, kept[1].Box)
	}
}

func TestSizeNMS_PartialOverlapSurvives(t *testing.T) {
	a := layout.Box{X: 0, Y: 0, W: 100, H: 100}
	b := layout.Box{X: 50, Y: 0, W: 100, H: 100}

	kept := SizeNMS{Threshold: DefaultOverlapThreshold}.Suppress([]Candidate{{Box: a}, {Box: b, Order: 1}})
	if len(kept) != 2 {
		t.Errorf("kept %d, want 2", len(kept))
	}
}

func TestSuppressAll(t *testing.T) {
	dup := layout.Box{X: 0, Y: 0, W: 50, H: 50}
	in := Candidates{
		CategoryTile: {{Box: dup, Score: score(0.9)}, {Box: dup, Score: score(0.8), Order: 1}},
		CategoryBall: {{Box: dup, Score: score(0.9), Order: 2}},
	}
	out := SuppressAll(ScoreNMS{Threshold: DefaultIoUThreshold}, in)
	if len(out[CategoryTile]) != 1 || len(out[CategoryBall]) != 1 {
		t.Errorf("unexpected result: %v", out)
	}
	if len(in[CategoryTile]) != 2 {
		t.Error("SuppressAll modified its input")
	}
}
