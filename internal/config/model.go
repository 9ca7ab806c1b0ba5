package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrNoCategories is returned for a model config without a category list.
var ErrNoCategories = errors.New("model config lists no categories")

// ModelConfig is the training-side description of the learned detector.
//
//	dataset:
//	  categories: [instruction, body, tile, ball, target_ball]
//
// The category at position i has raw label id i+1; id 0 is background.
type ModelConfig struct {
	Dataset DatasetConfig `yaml:"dataset"`
}

// DatasetConfig lists the categories the detector was trained on.
type DatasetConfig struct {
	Categories []string `yaml:"categories"`
}

// LoadModelConfig reads and validates a model config file.
func LoadModelConfig(path string) (*ModelConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model config: %w", err)
	}
	return ParseModelConfig(data)
}

// ParseModelConfig decodes model config YAML.
func ParseModelConfig(data []byte) (*ModelConfig, error) {
	var cfg ModelConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse model config: %w", err)
	}
	if len(cfg.Dataset.Categories) == 0 {
		return nil, ErrNoCategories
	}
	return &cfg, nil
}
