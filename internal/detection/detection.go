package detection

import (
	"context"
	"errors"
	"image"
	"sort"

	"github.com/ironsheep/challenge-layout/internal/layout"
)

var (
	// ErrModelUnavailable reports missing weights, a missing category list, or
	// a build without an inference backend.
	ErrModelUnavailable = errors.New("detector model unavailable")

	// ErrInference reports a failure inside the inference backend.
	ErrInference = errors.New("detector inference failed")
)

// DefaultConfidence is the minimum score a scored detection needs to survive
// the gate.
const DefaultConfidence = 0.3

// Detection is one raw box proposed by a Source.
//
// Learned sources fill Label with the raw class id and leave Category unset;
// the gate resolves it through the batch vocabulary. Heuristic sources set
// Category directly and leave Score nil.
type Detection struct {
	Box      layout.Box
	Label    int
	Category Category
	Score    *float64
}

// Batch is the output of a single Source call.
type Batch struct {
	Source     layout.Source
	Detections []Detection
	Vocabulary *Vocabulary
}

// Source produces raw detections for an image.
type Source interface {
	Name() layout.Source
	Detect(ctx context.Context, img image.Image) (*Batch, error)
}

// Candidate is a gated detection waiting for suppression.
//
// Order is the detection's position in the source output and is used as a
// deterministic tie-breaker.
type Candidate struct {
	Box   layout.Box
	Score *float64
	Order int
}

// ScoreValue returns the score, or -1 for unscored candidates so they always
// rank below scored ones.
func (c Candidate) ScoreValue() float64 {
	if c.Score == nil {
		return -1
	}
	return *c.Score
}

// Candidates groups gated detections by category.
type Candidates map[Category][]Candidate

// Count returns the total number of candidates across categories.
func (c Candidates) Count() int {
	n := 0
	for _, list := range c {
		n += len(list)
	}
	return n
}

// Best returns the highest-scoring candidate of a category, preferring the
// earliest one on ties.
func (c Candidates) Best(cat Category) (Candidate, bool) {
	list := c[cat]
	if len(list) == 0 {
		return Candidate{}, false
	}
	ranked := append([]Candidate(nil), list...)
	SortByScore(ranked)
	return ranked[0], true
}

// Gate drops low-confidence and out-of-vocabulary detections.
type Gate struct {
	Threshold float64
}

// NewGate returns a gate using DefaultConfidence.
func NewGate() Gate {
	return Gate{Threshold: DefaultConfidence}
}

// Apply filters a batch into per-category candidate lists. It has no side
// effects.
func (g Gate) Apply(batch *Batch) Candidates {
	out := make(Candidates)
	if batch == nil {
		return out
	}
	for i, d := range batch.Detections {
		cat := d.Category
		if batch.Vocabulary != nil {
			resolved, ok := batch.Vocabulary.Lookup(d.Label)
			if !ok {
				continue
			}
			cat = resolved
		}
		if cat == CategoryUnknown {
			continue
		}
		if d.Score != nil && *d.Score < g.Threshold {
			continue
		}
		if d.Box.Empty() {
			continue
		}
		out[cat] = append(out[cat], Candidate{Box: d.Box, Score: d.Score, Order: i})
	}
	return out
}

// SortByScore orders candidates by descending score, then by source order.
func SortByScore(list []Candidate) {
	sort.SliceStable(list, func(i, j int) bool {
		si, sj := list[i].ScoreValue(), list[j].ScoreValue()
		if si != sj {
			return si > sj
		}
		return list[i].Order < list[j].Order
	})
}
