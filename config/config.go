// Package config supplies environment-driven defaults for the CLI. Values
// come from BORIS_CLIP_* environment variables (optionally loaded from a
// .env file); command-line flags always win over the environment.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	DefaultOutputDir = "clips"

	EnvOutputDir    = "BORIS_CLIP_OUTPUT_DIR"
	EnvPadding      = "BORIS_CLIP_PADDING"
	EnvPointPadding = "BORIS_CLIP_POINT_PADDING"
	EnvFast         = "BORIS_CLIP_FAST"
)

// Config holds resolved environment defaults.
type Config struct {
	outputDir string

	padding         float64
	paddingSet      bool
	pointPadding    float64
	pointPaddingSet bool

	fast bool
}

// Load reads defaults from the environment. A .env file in the working
// directory is honoured when present; a malformed numeric value is an error
// rather than a silent fallback.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{outputDir: DefaultOutputDir}

	if v := os.Getenv(EnvOutputDir); v != "" {
		cfg.outputDir = v
	}

	var err error
	if cfg.padding, cfg.paddingSet, err = envFloat(EnvPadding); err != nil {
		return nil, err
	}
	if cfg.pointPadding, cfg.pointPaddingSet, err = envFloat(EnvPointPadding); err != nil {
		return nil, err
	}

	if v := os.Getenv(EnvFast); v != "" {
		fast, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvFast, err)
		}
		cfg.fast = fast
	}

	return cfg, nil
}

// OutputDir returns the default clip output directory.
func (c *Config) OutputDir() string {
	return c.outputDir
}

// Padding returns the default general padding and whether it was set.
func (c *Config) Padding() (float64, bool) {
	return c.padding, c.paddingSet
}

// PointPadding returns the default point-event padding and whether it was set.
func (c *Config) PointPadding() (float64, bool) {
	return c.pointPadding, c.pointPaddingSet
}

// Fast reports whether stream-copy extraction is the default.
func (c *Config) Fast() bool {
	return c.fast
}

func envFloat(key string) (float64, bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, true, nil
}

// Version information (set at build time via ldflags)
var Version = "0.1.0"
