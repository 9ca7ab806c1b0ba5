package detection

import (
	"context"
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/ironsheep/challenge-layout/internal/layout"
	"github.com/ironsheep/challenge-layout/internal/testutil"
)

type fakeBackend struct {
	detections []Detection
	err        error
	closed     bool
}

func (f *fakeBackend) Infer(image.Image) ([]Detection, error) {
	return f.detections, f.err
}

func (f *fakeBackend) Close() error {
	f.closed = true
	return nil
}

// modelFiles writes a weights placeholder and a model config and returns both paths.
func modelFiles(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	weights := filepath.Join(dir, "model.onnx")
	cfg := filepath.Join(dir, "model_config.yaml")
	if err := os.WriteFile(weights, []byte("onnx"), 0o644); err != nil {
		t.Fatal(err)
	}
	yaml := "dataset:\n  categories: [instruction, body, tile, ball, target_ball]\n"
	if err := os.WriteFile(cfg, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	return weights, cfg
}

func TestModelSource_Detect(t *testing.T) {
	weights, cfg := modelFiles(t)
	backend := &fakeBackend{detections: []Detection{
		{Box: layout.Box{X: 10, Y: 10, W: 40, H: 40}, Label: 3, Score: score(0.8)},
	}}
	loads := 0
	src := NewModelSource(weights, cfg, WithInputSize(320), WithBackendFactory(func(path string, size int) (Backend, error) {
		loads++
		if path != weights || size != 320 {
			t.Errorf("factory called with %s, %d", path, size)
		}
		return backend, nil
	}))

	if src.Name() != layout.SourceModel {
		t.Errorf("Name: got %s", src.Name())
	}
	if src.Loaded() {
		t.Error("source should load lazily")
	}

	for i := 0; i < 2; i++ {
		batch, err := src.Detect(context.Background(), testutil.Blank(100, 100))
		if err != nil {
			t.Fatalf("Detect failed: %v", err)
		}
		if batch.Vocabulary == nil || batch.Vocabulary.Len() != 5 {
			t.Fatal("batch should carry the configured vocabulary")
		}
		if got := NewGate().Apply(batch); len(got[CategoryTile]) != 1 {
			t.Errorf("tile candidates: got %d, want 1", len(got[CategoryTile]))
		}
	}
	if loads != 1 {
		t.Errorf("backend loaded %d times, want 1", loads)
	}

	if err := src.Reset(); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if !backend.closed || src.Loaded() {
		t.Error("Reset should close and drop the backend")
	}
	if _, err := src.Detect(context.Background(), testutil.Blank(100, 100)); err != nil {
		t.Fatalf("Detect after Reset failed: %v", err)
	}
	if loads != 2 {
		t.Errorf("backend loaded %d times after Reset, want 2", loads)
	}
}

func TestModelSource_Unavailable(t *testing.T) {
	weights, cfg := modelFiles(t)
	dir := t.TempDir()
	ok := func(string, int) (Backend, error) { return &fakeBackend{}, nil }

	tests := []struct {
		name    string
		weights string
		config  string
		factory BackendFactory
	}{
		{"no weights path", "", cfg, ok},
		{"missing weights", filepath.Join(dir, "absent.onnx"), cfg, ok},
		{"missing config", weights, filepath.Join(dir, "absent.yaml"), ok},
		{"backend cannot load", weights, cfg, func(string, int) (Backend, error) { return nil, errors.New("bad graph") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := NewModelSource(tt.weights, tt.config, WithBackendFactory(tt.factory))
			_, err := src.Detect(context.Background(), testutil.Blank(10, 10))
			if !errors.Is(err, ErrModelUnavailable) {
				t.Errorf("expected ErrModelUnavailable, got %v", err)
			}
		})
	}
}

func TestModelSource_InferenceFailure(t *testing.T) {
	weights, cfg := modelFiles(t)
	src := NewModelSource(weights, cfg, WithBackendFactory(func(string, int) (Backend, error) {
		return &fakeBackend{err: errors.New("out of memory")}, nil
	}))
	_, err := src.Detect(context.Background(), testutil.Blank(10, 10))
	if !errors.Is(err, ErrInference) {
		t.Errorf("expected ErrInference, got %v", err)
	}
}
