package detection

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"sync"

	"github.com/ironsheep/challenge-layout/internal/config"
	"github.com/ironsheep/challenge-layout/internal/layout"
)

// DefaultInputSize is the square input edge the exported detector expects.
const DefaultInputSize = 640

// Backend runs a loaded detector on one image.
//
// Infer returns boxes in image coordinates with Label set to the raw class id
// and Score to the class confidence.
type Backend interface {
	Infer(img image.Image) ([]Detection, error)
	Close() error
}

// BackendFactory loads a backend from a weights file.
type BackendFactory func(weightsPath string, inputSize int) (Backend, error)

// ModelOption configures a ModelSource.
type ModelOption func(*ModelSource)

// WithBackendFactory replaces the compiled-in inference backend.
func WithBackendFactory(f BackendFactory) ModelOption {
	return func(m *ModelSource) { m.newBackend = f }
}

// WithInputSize sets the network input edge.
func WithInputSize(size int) ModelOption {
	return func(m *ModelSource) { m.inputSize = size }
}

// ModelSource proposes detections from a learned detector.
//
// The weights and category list are loaded on the first Detect call and kept
// until Reset. Loading is serialized by a mutex, so concurrent first use is
// safe; inference itself runs under the same lock because the backend is not
// reentrant.
type ModelSource struct {
	weightsPath string
	configPath  string
	inputSize   int
	newBackend  BackendFactory

	mu      sync.Mutex
	backend Backend
	vocab   *Vocabulary
}

// NewModelSource returns a source for the given weights and model config files.
// Neither file is touched until the first Detect call.
func NewModelSource(weightsPath, configPath string, opts ...ModelOption) *ModelSource {
	m := &ModelSource{
		weightsPath: weightsPath,
		configPath:  configPath,
		inputSize:   DefaultInputSize,
		newBackend:  newDefaultBackend,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Name identifies the source in region provenance.
func (m *ModelSource) Name() layout.Source { return layout.SourceModel }

// Detect runs the detector on img. Missing files and builds without a backend
// report ErrModelUnavailable; backend failures report ErrInference.
func (m *ModelSource) Detect(ctx context.Context, img image.Image) (*Batch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.loadLocked(); err != nil {
		return nil, err
	}

	detections, err := m.backend.Infer(img)
	if err != nil {
		if errors.Is(err, ErrInference) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrInference, err)
	}
	return &Batch{Source: layout.SourceModel, Detections: detections, Vocabulary: m.vocab}, nil
}

// Loaded reports whether the detector is currently cached.
func (m *ModelSource) Loaded() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.backend != nil
}

// Reset drops the cached detector. The next Detect call reloads it from disk.
func (m *ModelSource) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var err error
	if m.backend != nil {
		err = m.backend.Close()
	}
	m.backend = nil
	m.vocab = nil
	return err
}

func (m *ModelSource) loadLocked() error {
	if m.backend != nil {
		return nil
	}

	if m.weightsPath == "" {
		return fmt.Errorf("%w: no weights path configured", ErrModelUnavailable)
	}
	if _, err := os.Stat(m.weightsPath); err != nil {
		return fmt.Errorf("%w: weights: %v", ErrModelUnavailable, err)
	}

	cfg, err := config.LoadModelConfig(m.configPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	vocab, err := NewVocabulary(cfg.Dataset.Categories)
	if err != nil {
		return err
	}

	backend, err := m.newBackend(m.weightsPath, m.inputSize)
	if err != nil {
		if errors.Is(err, ErrModelUnavailable) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}

	m.backend = backend
	m.vocab = vocab
	return nil
}
