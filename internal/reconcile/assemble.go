package reconcile

import (
	"context"
	"errors"
	"image"

	"go.uber.org/zap"

	"github.com/ironsheep/challenge-layout/internal/config"
	"github.com/ironsheep/challenge-layout/internal/detection"
	"github.com/ironsheep/challenge-layout/internal/imaging"
	"github.com/ironsheep/challenge-layout/internal/layout"
	"github.com/ironsheep/challenge-layout/internal/ocr"
)

// Loader decodes the image at path. Errors must wrap imaging.ErrUnreadableImage.
type Loader func(path string) (image.Image, error)

// Detector turns challenge screenshots into StructureInfo values.
//
// It owns the ordered detection chain: each strategy is tried in turn and the
// first one that succeeds supplies the candidates. A Detector is safe for
// concurrent use as long as its sources are; the built-in sources are.
type Detector struct {
	strategies []Strategy
	text       ocr.WordFinder
	load       Loader
	logger     *zap.Logger
	debugDir   string
}

// Option configures a Detector.
type Option func(*Detector)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(d *Detector) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithDebugDir makes every detection write structure_debug.json into dir.
// An empty dir disables the dump.
func WithDebugDir(dir string) Option {
	return func(d *Detector) { d.debugDir = dir }
}

// WithStrategies replaces the detection chain.
func WithStrategies(strategies ...Strategy) Option {
	return func(d *Detector) { d.strategies = strategies }
}

// WithTextFinder lets the region locator fall back to OCR when the brightness
// profile finds no instruction band.
func WithTextFinder(f ocr.WordFinder) Option {
	return func(d *Detector) { d.text = f }
}

// WithLoader replaces image decoding, for example with an ImageCache.
func WithLoader(l Loader) Option {
	return func(d *Detector) { d.load = l }
}

// NewDetector returns a detector. Without options it runs the heuristic
// source only, logs nothing and writes no debug file.
func NewDetector(opts ...Option) *Detector {
	d := &Detector{
		strategies: []Strategy{HeuristicStrategy(detection.NewHeuristicSource())},
		load:       imaging.Open,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// FromConfig builds the standard chain: the learned model first, then the
// heuristic source. OCR refinement is enabled when the build supports it.
func FromConfig(cfg *config.Config, opts ...Option) *Detector {
	model := detection.NewModelSource(cfg.WeightsPath, cfg.ModelConfigPath)
	base := []Option{
		WithStrategies(
			ModelStrategy(model, cfg.Confidence),
			HeuristicStrategy(detection.NewHeuristicSource()),
		),
		WithDebugDir(cfg.DebugDir),
	}
	if tess := ocr.NewTesseract(cfg.OCRLanguage); tess.Available() {
		base = append(base, WithTextFinder(tess))
	}
	return NewDetector(append(base, opts...)...)
}

// DetectStructure loads the image at path and returns its structure.
//
// The only error returned for a live context wraps imaging.ErrUnreadableImage.
// Detector failures, empty detections and degenerate geometry all degrade to a
// coarser but valid structure.
func (d *Detector) DetectStructure(ctx context.Context, path string) (*layout.StructureInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, err := d.load(path)
	if err != nil {
		return nil, err
	}

	s, err := d.Detect(ctx, img)
	if err != nil {
		return nil, err
	}

	if d.debugDir != "" {
		written, err := layout.WriteDebugJSON(d.debugDir, s)
		if err != nil {
			d.logger.Warn("Failed to write structure debug file", zap.String("dir", d.debugDir), zap.Error(err))
		} else {
			d.logger.Debug("Wrote structure debug file", zap.String("path", written))
		}
	}
	return s, nil
}

// Detect returns the structure of an already decoded image. The only error is
// the context's own; source failures fall through to the next strategy.
func (d *Detector) Detect(ctx context.Context, img image.Image) (*layout.StructureInfo, error) {
	b := img.Bounds()
	outcome, err := d.runChain(ctx, img)
	if err != nil {
		return nil, err
	}

	areas := LocateAreas(ctx, img, outcome.Candidates, d.text)
	if areas.TextErr != nil && !errors.Is(areas.TextErr, ocr.ErrUnavailable) {
		d.logger.Debug("Instruction OCR failed", zap.Error(areas.TextErr))
	}

	regions := make([]layout.Region, 0, 1)
	tiles := outcome.Candidates[detection.CategoryTile]
	if grid, ok := ReconcileGrid(tiles, areas.Body, outcome.Source); ok {
		regions = append(regions, grid)
	} else {
		d.logger.Debug("No reliable grid, synthesizing 3x3 partition",
			zap.Int("tiles", len(tiles)))
		regions = append(regions, FallbackGrid(areas.Body))
	}

	markers := ReconcileMarkers(
		outcome.Candidates[detection.CategoryBall],
		outcome.Candidates[detection.CategoryTargetBall],
		areas.Body,
	)

	s := &layout.StructureInfo{
		ImageSize:   layout.Size{Width: b.Dx(), Height: b.Dy()},
		BodyArea:    areas.Body,
		Regions:     regions,
		Balls:       markers.Balls,
		TargetBalls: markers.Targets,
	}
	if !areas.Instruction.Empty() {
		instruction := areas.Instruction
		s.InstructionArea = &instruction
	}

	d.logger.Debug("Structure assembled",
		zap.String("source", string(outcome.Source)),
		zap.String("instruction", string(areas.InstructionOrigin)),
		zap.String("body", string(areas.BodyOrigin)),
		zap.Int("cells", len(regions[0].Cells)),
		zap.Int("balls", len(s.Balls)),
		zap.Int("targets", len(s.TargetBalls)))
	return s, nil
}

// runChain returns the outcome of the first successful strategy. When every
// strategy fails the outcome is empty and attributed to the fallback. A done
// context stops the chain with its error.
func (d *Detector) runChain(ctx context.Context, img image.Image) (*Outcome, error) {
	for _, s := range d.strategies {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		outcome, err := s.Run(ctx, img)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			d.logger.Warn("Detection strategy failed, trying next",
				zap.String("strategy", string(s.Source.Name())),
				zap.Error(err))
			continue
		}
		d.logger.Info("Detection strategy selected",
			zap.String("strategy", string(outcome.Source)))
		d.logger.Debug("Detection counts",
			zap.Int("raw", outcome.Raw),
			zap.Int("gated", outcome.Gated),
			zap.Int("suppressed", outcome.Candidates.Count()))
		return outcome, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Outcome{Source: layout.SourceFallback, Candidates: detection.Candidates{}}, nil
}

// Reset drops every cached model so the next call reloads it from disk.
func (d *Detector) Reset() error {
	var errs []error
	for _, s := range d.strategies {
		if r, ok := s.Source.(interface{ Reset() error }); ok {
			if err := r.Reset(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
