// Package config loads runtime settings from the environment and the model
// configuration file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables read by Load.
const (
	EnvWeightsPath = "LAYOUT_WEIGHTS_PATH"
	EnvModelConfig = "LAYOUT_MODEL_CONFIG"
	EnvDebugDir    = "LAYOUT_DEBUG_DIR"
	EnvLogLevel    = "LAYOUT_LOG_LEVEL"
	EnvOCRLanguage = "LAYOUT_OCR_LANGUAGE"
	EnvConfidence  = "LAYOUT_CONFIDENCE"
)

// Defaults used when the environment leaves a setting unset.
const (
	DefaultWeightsPath = "training/structure_model.onnx"
	DefaultModelConfig = "training/model_config.yaml"
	DefaultDebugDir    = "analysis"
	DefaultLogLevel    = "info"
	DefaultOCRLanguage = "eng"
	DefaultConfidence  = 0.3
)

// Config holds the settings shared by the CLI and the MCP server.
type Config struct {
	// WeightsPath is the ONNX file of the learned detector.
	WeightsPath string

	// ModelConfigPath is the YAML file listing the detector categories.
	ModelConfigPath string

	// DebugDir receives structure_debug.json after every detection. Empty
	// disables the dump.
	DebugDir string

	LogLevel    string
	OCRLanguage string

	// Confidence is the minimum score for learned detections. The detection
	// contract fixes it at DefaultConfidence (0.3); override it only to study a
	// retrained model.
	Confidence float64
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		WeightsPath:     DefaultWeightsPath,
		ModelConfigPath: DefaultModelConfig,
		DebugDir:        DefaultDebugDir,
		LogLevel:        DefaultLogLevel,
		OCRLanguage:     DefaultOCRLanguage,
		Confidence:      DefaultConfidence,
	}
}

// Load reads an optional .env file from the working directory and then the
// LAYOUT_* environment variables.
func Load() (*Config, error) {
	// A missing .env file is fine.
	_ = godotenv.Load()

	cfg := Default()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv(EnvWeightsPath); ok && v != "" {
		c.WeightsPath = v
	}
	if v, ok := os.LookupEnv(EnvModelConfig); ok && v != "" {
		c.ModelConfigPath = v
	}
	// Set but empty turns the debug dump off.
	if v, ok := os.LookupEnv(EnvDebugDir); ok {
		c.DebugDir = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	if v := os.Getenv(EnvOCRLanguage); v != "" {
		c.OCRLanguage = v
	}
	if v := os.Getenv(EnvConfidence); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvConfidence, v, err)
		}
		if f < 0 || f > 1 {
			return fmt.Errorf("invalid %s %v: must be within [0, 1]", EnvConfidence, f)
		}
		c.Confidence = f
	}
	return nil
}
