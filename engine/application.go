package engine

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/math"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
)

// Larger history_size values are capped.
const maxHistorySize = 256

type ApplicationConfig struct {
	// The application name used in log lines.
	Name string `toml:"name"`
	// debug, info, warn or error.
	LogLevel string `toml:"log_level"`
	// Directory watched for hot reload. Defaults to the model's directory.
	AssetsDir string `toml:"assets_dir"`
	// Model loaded on Initialize, if set.
	Model string `toml:"model"`
	// Rescale loaded models to a unit bounding box at the origin.
	Normalize bool `toml:"normalize"`
	// Reject face corners that omit texcoord or normal indices.
	RequireAttributes bool `toml:"require_attributes"`
	// Fill flat normals for face corners without a normal index.
	GenerateNormals bool `toml:"generate_normals"`
	// Reload the model when it or its materials change on disk.
	Watch bool `toml:"watch"`
	// Number of load attempts kept in the scene history, at most 256.
	HistorySize int `toml:"history_size"`
}

func DefaultApplicationConfig() ApplicationConfig {
	return ApplicationConfig{
		Name:        "meshview",
		LogLevel:    "info",
		Normalize:   true,
		HistorySize: 8,
	}
}

// LoadApplicationConfig reads a TOML config file. Keys missing from the
// file keep their default values; unknown keys are an error.
func LoadApplicationConfig(path string) (ApplicationConfig, error) {
	cfg := DefaultApplicationConfig()

	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	defer f.Close()

	if err := toml.NewDecoder(f).DisallowUnknownFields().Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return cfg, fmt.Errorf("config: parse %s: %s", path, strict.String())
		}
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}

	// Relative paths in the file are relative to the file itself.
	base := filepath.Dir(path)
	if cfg.Model != "" && !filepath.IsAbs(cfg.Model) {
		cfg.Model = filepath.Join(base, cfg.Model)
	}
	if cfg.AssetsDir != "" && !filepath.IsAbs(cfg.AssetsDir) {
		cfg.AssetsDir = filepath.Join(base, cfg.AssetsDir)
	}
	return cfg, nil
}

// Validate checks the config and fills derived defaults.
func (c *ApplicationConfig) Validate() error {
	if _, err := core.ParseLogLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: invalid log_level '%s': %w", c.LogLevel, err)
	}
	if c.HistorySize <= 0 {
		return fmt.Errorf("config: history_size must be > 0, got %d", c.HistorySize)
	}
	c.HistorySize = math.Clamp(c.HistorySize, 1, maxHistorySize)
	if c.Watch && c.AssetsDir == "" {
		if c.Model == "" {
			return fmt.Errorf("config: watch needs assets_dir or model")
		}
		c.AssetsDir = filepath.Dir(c.Model)
	}
	return nil
}

// MeshLoadParams returns the loader options selected by the config.
func (c ApplicationConfig) MeshLoadParams() metadata.MeshLoadParams {
	return metadata.MeshLoadParams{
		Normalize:         c.Normalize,
		RequireAttributes: c.RequireAttributes,
		GenerateNormals:   c.GenerateNormals,
	}
}
