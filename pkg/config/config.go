// Package config provides configuration loading and management for nccmetric.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"nccreg/pkg/metric"
	"nccreg/pkg/volume"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config represents the application configuration loaded from YAML
type Config struct {
	// Metric parameters
	Metric struct {
		// Radius is the window half-size along x, y and z in voxels
		Radius [3]int `yaml:"radius"`

		// Precision is the accumulation type, "float32" or "float64"
		Precision string `yaml:"precision"`

		// NumCores specifies how many partitions are evaluated in parallel
		NumCores int `yaml:"numCores"`

		// SplitAxis is the axis partitions are cut along: "x", "y" or "z"
		SplitAxis string `yaml:"splitAxis"`
	} `yaml:"metric"`

	// Mask parameters
	Mask struct {
		// Enabled turns on the intensity threshold mask
		Enabled bool `yaml:"enabled"`

		// Source selects the volume the threshold is applied to: "fixed" or "moving"
		Source string `yaml:"source"`

		// Lower and Upper bound the included intensities (inclusive)
		Lower float64 `yaml:"lower"`
		Upper float64 `yaml:"upper"`
	} `yaml:"mask"`

	// Output parameters
	Output struct {
		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`

		// MapDir, if set, is where slices of the squared NCC map are saved
		MapDir string `yaml:"mapDir"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Metric.Radius = [3]int{4, 4, 4}
	cfg.Metric.Precision = string(metric.Float64)
	cfg.Metric.NumCores = runtime.NumCPU() // Use all available cores by default
	cfg.Metric.SplitAxis = "z"

	cfg.Mask.Enabled = false
	cfg.Mask.Source = "fixed"
	cfg.Mask.Lower = 1
	cfg.Mask.Upper = 65535

	cfg.Output.Verbose = true
	cfg.Output.MapDir = ""

	return cfg
}

// Validate checks the values that cannot be expressed in YAML types
func (c *Config) Validate() error {
	for i, r := range c.Metric.Radius {
		if r < 0 {
			return fmt.Errorf("%w: radius[%d] is %d", ErrInvalidConfig, i, r)
		}
	}
	switch metric.Precision(c.Metric.Precision) {
	case metric.Float32, metric.Float64:
	default:
		return fmt.Errorf("%w: precision %q", ErrInvalidConfig, c.Metric.Precision)
	}
	if _, err := c.SplitAxis(); err != nil {
		return err
	}
	if c.Mask.Enabled {
		if c.Mask.Source != "fixed" && c.Mask.Source != "moving" {
			return fmt.Errorf("%w: mask source %q", ErrInvalidConfig, c.Mask.Source)
		}
		if c.Mask.Lower > c.Mask.Upper {
			return fmt.Errorf("%w: mask lower %v above upper %v", ErrInvalidConfig, c.Mask.Lower, c.Mask.Upper)
		}
	}
	return nil
}

// SplitAxis returns the configured split axis as a volume axis index
func (c *Config) SplitAxis() (int, error) {
	switch c.Metric.SplitAxis {
	case "x", "X":
		return volume.X, nil
	case "y", "Y":
		return volume.Y, nil
	case "z", "Z", "":
		return volume.Z, nil
	}
	return 0, fmt.Errorf("%w: split axis %q", ErrInvalidConfig, c.Metric.SplitAxis)
}

// MetricParams converts the metric section into evaluation parameters
func (c *Config) MetricParams() (*metric.Params, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	axis, _ := c.SplitAxis()
	params := metric.DefaultParams()
	params.Radius = c.Metric.Radius
	params.Precision = metric.Precision(c.Metric.Precision)
	params.Workers = c.Metric.NumCores
	params.SplitAxis = axis
	params.Verbose = c.Output.Verbose
	return params, nil
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}
