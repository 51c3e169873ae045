package tether

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the tunables of an engine and its soft-body thread
type Config struct {
	// Gravity applied to rigid objects (m/s²)
	Gravity [3]float64 `yaml:"gravity"`
	// FixedStep is the rigid-body step duration, in seconds
	FixedStep float64 `yaml:"fixed_step"`

	// SoftBodyStep is the soft-body tick duration, in seconds
	SoftBodyStep         float64    `yaml:"soft_body_step"`
	SoftBodyGravity      [3]float64 `yaml:"soft_body_gravity"`
	RelaxationIterations int        `yaml:"relaxation_iterations"`
	NodeRadius           float64    `yaml:"node_radius"`

	// Workers simulating independent soft bodies in parallel
	Workers int `yaml:"workers"`
}

// DefaultConfig returns the settings used when no file is given
func DefaultConfig() Config {
	return Config{
		Gravity:              [3]float64{0, -9.8 / 3, 0},
		FixedStep:            0.01,
		SoftBodyStep:         0.01,
		SoftBodyGravity:      [3]float64{0, -1, 0},
		RelaxationIterations: 1,
		NodeRadius:           0.05,
		Workers:              DEFAULT_WORKERS,
	}
}

// LoadConfig reads a YAML config file. Keys absent from the file keep their default value.
// A missing file is not an error: the defaults are returned.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("Physics: no config at %s, using defaults", path)
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return DefaultConfig(), fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

// SaveConfig writes cfg as YAML, creating the parent directory if needed
func SaveConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("save config %s: %w", path, err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("save config %s: %w", path, err)
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects settings the engine cannot step with
func (c Config) Validate() error {
	switch {
	case c.FixedStep <= 0:
		return fmt.Errorf("fixed_step must be positive, got %v", c.FixedStep)
	case c.SoftBodyStep <= 0:
		return fmt.Errorf("soft_body_step must be positive, got %v", c.SoftBodyStep)
	case c.RelaxationIterations < 1:
		return fmt.Errorf("relaxation_iterations must be at least 1, got %d", c.RelaxationIterations)
	case c.Workers < 0:
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	case c.NodeRadius < 0:
		return fmt.Errorf("node_radius must not be negative, got %v", c.NodeRadius)
	}
	return nil
}
