package reconcile

import (
	"context"
	"fmt"
	"image"

	"github.com/ironsheep/challenge-layout/internal/detection"
	"github.com/ironsheep/challenge-layout/internal/layout"
)

// Strategy is one entry of the detection chain: a source plus the gate and
// suppressor that match its output.
type Strategy struct {
	Source     detection.Source
	Gate       detection.Gate
	Suppressor detection.Suppressor
}

// ModelStrategy pairs a learned source with score-based suppression.
func ModelStrategy(src detection.Source, confidence float64) Strategy {
	return Strategy{
		Source:     src,
		Gate:       detection.Gate{Threshold: confidence},
		Suppressor: detection.ScoreNMS{Threshold: detection.DefaultIoUThreshold},
	}
}

// HeuristicStrategy pairs an unscored source with size-based suppression.
func HeuristicStrategy(src detection.Source) Strategy {
	return Strategy{
		Source:     src,
		Gate:       detection.NewGate(),
		Suppressor: detection.SizeNMS{Threshold: detection.DefaultOverlapThreshold},
	}
}

// Outcome is the filtered output of a successful strategy.
type Outcome struct {
	Source     layout.Source
	Raw        int
	Gated      int
	Candidates detection.Candidates
}

// Run detects, gates and suppresses. Any source error fails the strategy, and
// a panic in the source is reported as detection.ErrInference.
func (s Strategy) Run(ctx context.Context, img image.Image) (outcome *Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			outcome = nil
			err = fmt.Errorf("%s source: %w: panic: %v", s.Source.Name(), detection.ErrInference, r)
		}
	}()

	batch, err := s.Source.Detect(ctx, img)
	if err != nil {
		return nil, fmt.Errorf("%s source: %w", s.Source.Name(), err)
	}
	gated := s.Gate.Apply(batch)
	return &Outcome{
		Source:     s.Source.Name(),
		Raw:        len(batch.Detections),
		Gated:      gated.Count(),
		Candidates: detection.SuppressAll(s.Suppressor, gated),
	}, nil
}
