// This file handles YAML configuration file loading.

package config

import (
	"flag"
	"os"
	"time"

	apperrors "github.com/agbru/mcsim/internal/errors"
	"gopkg.in/yaml.v3"
)

// FileConfig mirrors SimConfig for YAML deserialization. Pointer fields
// distinguish "absent" from zero values so that the file only overrides what
// it actually specifies.
type FileConfig struct {
	Trial                *string        `yaml:"trial,omitempty"`
	Strategy             *string        `yaml:"strategy,omitempty"`
	Samples              *int           `yaml:"samples,omitempty"`
	Workers              *int           `yaml:"workers,omitempty"`
	Seed                 *int64         `yaml:"seed,omitempty"`
	BatchSize            *int           `yaml:"batch_size,omitempty"`
	Vectorized           *bool          `yaml:"vectorized,omitempty"`
	StorePoints          *bool          `yaml:"store_points,omitempty"`
	ConvergenceThreshold *float64       `yaml:"convergence_threshold,omitempty"`
	MaxIterations        *int           `yaml:"max_iterations,omitempty"`
	UniformMin           *int           `yaml:"min,omitempty"`
	UniformMax           *int           `yaml:"max,omitempty"`
	Timeout              *time.Duration `yaml:"timeout,omitempty"`
	OutputFile           *string        `yaml:"output,omitempty"`
	Chart                *bool          `yaml:"chart,omitempty"`
}

// LoadFileConfig reads and parses a YAML configuration file.
//
// Parameters:
//   - path: The file to load.
//
// Returns:
//   - *FileConfig: The parsed file values.
//   - error: A ConfigError if the file cannot be read or parsed.
func LoadFileConfig(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewConfigError("reading config file %q: %v", path, err)
	}
	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, apperrors.NewConfigError("parsing config file %q: %v", path, err)
	}
	return &fc, nil
}

// fileOverride maps one FileConfig field to the flag names that shadow it and
// the function applying the file value.
type fileOverride struct {
	flags []string
	apply func(*SimConfig, *FileConfig)
}

// fileOverrides is the declarative application table for YAML values. A file
// value is only applied when its corresponding flag was not set explicitly.
var fileOverrides = []fileOverride{
	{[]string{"trial"}, func(c *SimConfig, f *FileConfig) {
		if f.Trial != nil {
			c.Trial = *f.Trial
		}
	}},
	{[]string{"strategy"}, func(c *SimConfig, f *FileConfig) {
		if f.Strategy != nil {
			c.Strategy = *f.Strategy
		}
	}},
	{[]string{"samples"}, func(c *SimConfig, f *FileConfig) {
		if f.Samples != nil {
			c.Samples = *f.Samples
		}
	}},
	{[]string{"workers"}, func(c *SimConfig, f *FileConfig) {
		if f.Workers != nil {
			c.Workers = *f.Workers
		}
	}},
	{[]string{"seed"}, func(c *SimConfig, f *FileConfig) {
		if f.Seed != nil {
			c.Seed = *f.Seed
			c.HasSeed = true
		}
	}},
	{[]string{"batch-size"}, func(c *SimConfig, f *FileConfig) {
		if f.BatchSize != nil {
			c.BatchSize = *f.BatchSize
		}
	}},
	{[]string{"vectorized"}, func(c *SimConfig, f *FileConfig) {
		if f.Vectorized != nil {
			c.Vectorized = *f.Vectorized
		}
	}},
	{[]string{"store-points"}, func(c *SimConfig, f *FileConfig) {
		if f.StorePoints != nil {
			c.StorePoints = *f.StorePoints
		}
	}},
	{[]string{"threshold"}, func(c *SimConfig, f *FileConfig) {
		if f.ConvergenceThreshold != nil {
			c.ConvergenceThreshold = *f.ConvergenceThreshold
		}
	}},
	{[]string{"max-iterations"}, func(c *SimConfig, f *FileConfig) {
		if f.MaxIterations != nil {
			c.MaxIterations = *f.MaxIterations
		}
	}},
	{[]string{"min"}, func(c *SimConfig, f *FileConfig) {
		if f.UniformMin != nil {
			c.UniformMin = *f.UniformMin
		}
	}},
	{[]string{"max"}, func(c *SimConfig, f *FileConfig) {
		if f.UniformMax != nil {
			c.UniformMax = *f.UniformMax
		}
	}},
	{[]string{"timeout"}, func(c *SimConfig, f *FileConfig) {
		if f.Timeout != nil {
			c.Timeout = *f.Timeout
		}
	}},
	{[]string{"output", "o"}, func(c *SimConfig, f *FileConfig) {
		if f.OutputFile != nil {
			c.OutputFile = *f.OutputFile
		}
	}},
	{[]string{"chart"}, func(c *SimConfig, f *FileConfig) {
		if f.Chart != nil {
			c.Chart = *f.Chart
		}
	}},
}

// applyFileConfig loads the configured YAML file (if any) and applies its
// values to fields whose flags were not set on the command line. Environment
// overrides run after this, so the effective priority is
// flags > env > file > defaults.
func applyFileConfig(cfg *SimConfig, fs *flag.FlagSet) error {
	if cfg.ConfigFile == "" {
		return nil
	}
	fc, err := LoadFileConfig(cfg.ConfigFile)
	if err != nil {
		return err
	}
	for _, o := range fileOverrides {
		if isFlagSetAny(fs, o.flags...) {
			continue
		}
		o.apply(cfg, fc)
	}
	return nil
}
