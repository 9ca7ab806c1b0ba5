package detection

import (
	"sort"

	"github.com/ironsheep/challenge-layout/internal/layout"
)

const (
	// DefaultIoUThreshold is the overlap above which two scored boxes of the
	// same category are treated as duplicates.
	DefaultIoUThreshold = 0.4

	// DefaultOverlapThreshold is the overlap-over-smaller-area ratio above
	// which two unscored boxes are treated as duplicates.
	DefaultOverlapThreshold = 0.7
)

// Suppressor collapses overlapping candidates of one category.
type Suppressor interface {
	Suppress(list []Candidate) []Candidate
}

// SuppressAll applies s to every category and returns a new candidate map.
func SuppressAll(s Suppressor, c Candidates) Candidates {
	out := make(Candidates, len(c))
	for cat, list := range c {
		out[cat] = s.Suppress(list)
	}
	return out
}

// ScoreNMS is greedy non-maximum suppression on detector confidence.
//
// Candidates are visited by descending score; each kept box discards every
// later box whose IoU with it exceeds Threshold. No two retained boxes have an
// IoU above Threshold.
type ScoreNMS struct {
	Threshold float64
}

// Suppress returns the retained candidates in descending score order.
func (n ScoreNMS) Suppress(list []Candidate) []Candidate {
	ranked := append([]Candidate(nil), list...)
	SortByScore(ranked)
	return greedy(ranked, func(kept, c Candidate) bool {
		return layout.IoU(kept.Box, c.Box) > n.Threshold
	})
}

// SizeNMS suppresses unscored candidates by geometry alone.
//
// Candidates are visited from largest to smallest area; a box is dropped when
// its overlap with an already kept box, measured against the smaller of the
// two areas, exceeds Threshold. Nested contours therefore collapse into the
// enclosing one.
type SizeNMS struct {
	Threshold float64
}

// Suppress returns the retained candidates in descending area order.
func (n SizeNMS) Suppress(list []Candidate) []Candidate {
	ranked := append([]Candidate(nil), list...)
	sort.SliceStable(ranked, func(i, j int) bool {
		ai, aj := ranked[i].Box.Area(), ranked[j].Box.Area()
		if ai != aj {
			return ai > aj
		}
		return ranked[i].Order < ranked[j].Order
	})
	return greedy(ranked, func(kept, c Candidate) bool {
		return layout.OverlapSmaller(kept.Box, c.Box) > n.Threshold
	})
}

func greedy(ranked []Candidate, duplicate func(kept, c Candidate) bool) []Candidate {
	kept := make([]Candidate, 0, len(ranked))
	for _, c := range ranked {
		drop := false
		for _, k := range kept {
			if duplicate(k, c) {
				drop = true
				break
			}
		}
		if !drop {
			kept = append(kept, c)
		}
	}
	return kept
}
