// This file contains environment variable utilities for configuration override.

package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"
)

// isFlagSet checks if a flag was explicitly set on the command line.
// This is used to determine whether to apply environment variable overrides.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// isFlagSetAny checks if any of the specified flags were explicitly set.
// This is useful for aliased flags where either the short or long form may be used.
func isFlagSetAny(fs *flag.FlagSet, names ...string) bool {
	for _, name := range names {
		if isFlagSet(fs, name) {
			return true
		}
	}
	return false
}

// parseBoolEnv parses a boolean environment variable value.
// Accepts "true", "1", "yes" as true; "false", "0", "no" as false (case-insensitive).
// Returns defaultVal if the value is not recognized.
func parseBoolEnv(val string, defaultVal bool) bool {
	switch strings.ToLower(val) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return defaultVal
}

// envOverride declares a single environment variable override.
// Each entry maps an env key (without the MCSIM_ prefix) to the CLI flag
// name(s) it corresponds to and a function that applies the env value.
type envOverride struct {
	envKey string
	flags  []string
	apply  func(*SimConfig, string)
}

// envOverrides is the declarative table of all environment variable overrides,
// grouped as numeric, duration, string, and boolean.
var envOverrides = []envOverride{
	// Numeric overrides
	{"SAMPLES", []string{"samples"}, func(c *SimConfig, v string) {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.Samples = parsed
		}
	}},
	{"WORKERS", []string{"workers"}, func(c *SimConfig, v string) {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.Workers = parsed
		}
	}},
	{"SEED", []string{"seed"}, func(c *SimConfig, v string) {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
			c.HasSeed = true
		}
	}},
	{"BATCH_SIZE", []string{"batch-size"}, func(c *SimConfig, v string) {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.BatchSize = parsed
		}
	}},
	{"THRESHOLD", []string{"threshold"}, func(c *SimConfig, v string) {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			c.ConvergenceThreshold = parsed
		}
	}},
	{"MAX_ITERATIONS", []string{"max-iterations"}, func(c *SimConfig, v string) {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.MaxIterations = parsed
		}
	}},
	{"MIN", []string{"min"}, func(c *SimConfig, v string) {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.UniformMin = parsed
		}
	}},
	{"MAX", []string{"max"}, func(c *SimConfig, v string) {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.UniformMax = parsed
		}
	}},

	// Duration overrides
	{"TIMEOUT", []string{"timeout"}, func(c *SimConfig, v string) {
		if parsed, err := time.ParseDuration(v); err == nil {
			c.Timeout = parsed
		}
	}},

	// String overrides
	{"TRIAL", []string{"trial"}, func(c *SimConfig, v string) {
		c.Trial = v
	}},
	{"STRATEGY", []string{"strategy"}, func(c *SimConfig, v string) {
		c.Strategy = v
	}},
	{"OUTPUT", []string{"output", "o"}, func(c *SimConfig, v string) {
		c.OutputFile = v
	}},
	{"CALIBRATION_PROFILE", []string{"calibration-profile"}, func(c *SimConfig, v string) {
		c.CalibrationProfile = v
	}},

	// Boolean overrides
	{"VECTORIZED", []string{"vectorized"}, func(c *SimConfig, v string) {
		c.Vectorized = parseBoolEnv(v, c.Vectorized)
	}},
	{"STORE_POINTS", []string{"store-points"}, func(c *SimConfig, v string) {
		c.StorePoints = parseBoolEnv(v, c.StorePoints)
	}},
	{"CHART", []string{"chart"}, func(c *SimConfig, v string) {
		c.Chart = parseBoolEnv(v, c.Chart)
	}},
	{"QUIET", []string{"quiet", "q"}, func(c *SimConfig, v string) {
		c.Quiet = parseBoolEnv(v, c.Quiet)
	}},
	{"VERBOSE", []string{"verbose", "v"}, func(c *SimConfig, v string) {
		c.Verbose = parseBoolEnv(v, c.Verbose)
	}},
	{"NO_COLOR", []string{"no-color"}, func(c *SimConfig, v string) {
		c.NoColor = parseBoolEnv(v, c.NoColor)
	}},
	{"CALIBRATE", []string{"calibrate"}, func(c *SimConfig, v string) {
		c.Calibrate = parseBoolEnv(v, c.Calibrate)
	}},
}

// applyEnvOverrides applies environment variable values to the configuration
// for any flags that were not explicitly set on the command line.
// This implements the priority: CLI flags > Environment variables > file/defaults.
//
// Supported environment variables (all prefixed with MCSIM_):
//   - SAMPLES, WORKERS, SEED, BATCH_SIZE, THRESHOLD, MAX_ITERATIONS,
//     MIN, MAX, TIMEOUT, TRIAL, STRATEGY, OUTPUT, CALIBRATION_PROFILE,
//     VECTORIZED, STORE_POINTS, CHART, QUIET, VERBOSE, NO_COLOR, CALIBRATE
func applyEnvOverrides(config *SimConfig, fs *flag.FlagSet) {
	for _, o := range envOverrides {
		if isFlagSetAny(fs, o.flags...) {
			continue
		}
		if val := os.Getenv(EnvPrefix + o.envKey); val != "" {
			o.apply(config, val)
		}
	}
}
