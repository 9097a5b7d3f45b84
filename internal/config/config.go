// Package config loads the tool configuration from the data directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DataDirName is the per-project data directory, in the working directory.
	DataDirName = ".mentorplan"

	configFileName = "config.yaml"
)

// Config holds user-tunable settings. Day boundaries for progress tracking
// are evaluated in Timezone; the original web UI used the browser clock, a
// CLI needs a deterministic choice.
type Config struct {
	Timezone string `yaml:"timezone"`
	UserID   string `yaml:"userId"`
	Mentor   string `yaml:"mentor"`
	Debug    bool   `yaml:"debug"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Timezone: "UTC",
	}
}

// Load reads config.yaml from the data directory. A missing file yields the
// defaults; a malformed one is an error.
func Load(dataDir string) (*Config, error) {
	path := filepath.Join(dataDir, configFileName)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "UTC"
	}
	return cfg, nil
}

// Save writes the configuration to config.yaml in the data directory.
func (c *Config) Save(dataDir string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(dataDir, configFileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
