// Package config defines the simulation configuration and its resolution
// chain. Values are resolved with the following priority (highest first):
//
//  1. CLI flags
//  2. Environment variables (MCSIM_*)
//  3. YAML configuration file (--config)
//  4. Adaptive hardware defaults (workers from CPU count)
//  5. Static defaults in this file
package config

import (
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	apperrors "github.com/agbru/mcsim/internal/errors"
)

// EnvPrefix is the prefix for all environment variable overrides.
const EnvPrefix = "MCSIM_"

// Execution strategies selectable via --strategy.
const (
	// StrategyAuto selects parallel for large sample counts and sequential
	// otherwise, mirroring the historical driver behavior.
	StrategyAuto = "auto"
	// StrategyParallel fans the trial out across independent workers.
	StrategyParallel = "parallel"
	// StrategySequential iterates a single trial with convergence detection.
	StrategySequential = "sequential"
)

// AutoParallelSampleThreshold is the sample count at or above which the auto
// strategy switches to parallel execution.
const AutoParallelSampleThreshold = 100_000

// Default configuration values.
const (
	DefaultSamples              = 10_000
	DefaultConvergenceThreshold = 1e-6
	DefaultMaxIterations        = 100
	DefaultTimeout              = 5 * time.Minute
	DefaultTrial                = "pi"
	DefaultUniformMin           = 1
	DefaultUniformMax           = 100
)

// SimConfig is the immutable configuration for one simulation run. It is
// constructed by ParseConfig (or assembled directly in library use), validated
// once, and then shared read-only across all trial invocations: immutability
// is the synchronization mechanism for the worker pool.
type SimConfig struct {
	// Trial is the name of the registered trial to run (e.g. "pi").
	Trial string
	// Strategy selects the execution strategy: auto, parallel, or sequential.
	Strategy string

	// Samples is the number of random samples drawn per trial invocation.
	Samples int
	// Workers is the number of independent parallel trial invocations.
	Workers int
	// WorkersSet records whether the worker count was chosen explicitly
	// (flag or environment) rather than derived adaptively. Calibration only
	// replaces adaptive values.
	WorkersSet bool
	// Seed is the base random seed. Only meaningful when HasSeed is true.
	Seed int64
	// HasSeed records whether a seed was explicitly configured. Without one,
	// each trial seeds itself from a non-deterministic source.
	HasSeed bool
	// BatchSize is the optional generation batch size for batched trials.
	// Zero means "derive from Samples/Workers". When BatchSize does not
	// evenly divide Samples, the last batch absorbs the remainder; samples
	// are never silently dropped.
	BatchSize int
	// Vectorized selects the batch sampling path instead of the per-sample
	// loop. The two paths are statistically equivalent; this is a
	// performance toggle only.
	Vectorized bool
	// StorePoints enables retention of raw sample points inside the trial.
	// The point buffer is owned exclusively by its trial instance.
	StorePoints bool

	// ConvergenceThreshold is the running-mean delta below which the
	// sequential strategy stops early.
	ConvergenceThreshold float64
	// MaxIterations bounds the sequential strategy's loop.
	MaxIterations int

	// UniformMin and UniformMax bound the uniform-int trial's distribution.
	UniformMin int
	UniformMax int

	// Timeout bounds the wall-clock time of a whole run.
	Timeout time.Duration

	// OutputFile is the path for the JSON report (empty for no file output).
	OutputFile string
	// ConfigFile is the YAML configuration file path (empty for none).
	ConfigFile string
	// CalibrationProfile is the path of the cached calibration profile.
	CalibrationProfile string

	// Chart enables terminal charts (histogram, convergence) after a run.
	Chart bool
	// Quiet suppresses all non-essential output.
	Quiet bool
	// Verbose enables detailed output and debug logging.
	Verbose bool
	// NoColor disables ANSI colors.
	NoColor bool
	// Calibrate runs worker-count calibration instead of a simulation.
	Calibrate bool
}

// DefaultConfig returns a SimConfig populated with static and adaptive
// defaults. Workers defaults to the adaptive CPU-derived value.
func DefaultConfig() SimConfig {
	return SimConfig{
		Trial:                DefaultTrial,
		Strategy:             StrategyAuto,
		Samples:              DefaultSamples,
		Workers:              DefaultWorkers(),
		Vectorized:           true,
		ConvergenceThreshold: DefaultConvergenceThreshold,
		MaxIterations:        DefaultMaxIterations,
		UniformMin:           DefaultUniformMin,
		UniformMax:           DefaultUniformMax,
		Timeout:              DefaultTimeout,
	}
}

// ParseConfig parses command-line flags into a validated SimConfig, applying
// the full resolution chain (flags > env > file > defaults).
//
// Parameters:
//   - programName: The program name used in usage output.
//   - args: The command-line arguments (without the program name).
//   - errWriter: The writer for flag-parsing error output.
//
// Returns:
//   - SimConfig: The resolved configuration.
//   - error: A ConfigError or ValidationError if resolution fails.
func ParseConfig(programName string, args []string, errWriter io.Writer) (SimConfig, error) {
	cfg := DefaultConfig()

	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errWriter)

	fs.StringVar(&cfg.Trial, "trial", cfg.Trial, "trial to run (pi, uniform-int)")
	fs.StringVar(&cfg.Strategy, "strategy", cfg.Strategy, "execution strategy (auto, parallel, sequential)")
	fs.IntVar(&cfg.Samples, "samples", cfg.Samples, "random samples per trial invocation")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "parallel trial invocations")
	fs.Int64Var(&cfg.Seed, "seed", 0, "base random seed (deterministic sequential runs)")
	fs.IntVar(&cfg.BatchSize, "batch-size", cfg.BatchSize, "generation batch size (0 = derive from samples/workers)")
	fs.BoolVar(&cfg.Vectorized, "vectorized", cfg.Vectorized, "use the batch sampling path")
	fs.BoolVar(&cfg.StorePoints, "store-points", cfg.StorePoints, "retain raw sample points in the trial")
	fs.Float64Var(&cfg.ConvergenceThreshold, "threshold", cfg.ConvergenceThreshold, "running-mean convergence threshold")
	fs.IntVar(&cfg.MaxIterations, "max-iterations", cfg.MaxIterations, "sequential iteration limit")
	fs.IntVar(&cfg.UniformMin, "min", cfg.UniformMin, "uniform-int trial lower bound")
	fs.IntVar(&cfg.UniformMax, "max", cfg.UniformMax, "uniform-int trial upper bound")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "wall-clock limit for the whole run")
	fs.StringVar(&cfg.OutputFile, "output", cfg.OutputFile, "write the JSON report to this file")
	fs.StringVar(&cfg.OutputFile, "o", cfg.OutputFile, "shorthand for -output")
	fs.StringVar(&cfg.ConfigFile, "config", cfg.ConfigFile, "YAML configuration file")
	fs.StringVar(&cfg.CalibrationProfile, "calibration-profile", cfg.CalibrationProfile, "cached calibration profile path")
	fs.BoolVar(&cfg.Chart, "chart", cfg.Chart, "render terminal charts after the run")
	fs.BoolVar(&cfg.Quiet, "quiet", cfg.Quiet, "suppress non-essential output")
	fs.BoolVar(&cfg.Quiet, "q", cfg.Quiet, "shorthand for -quiet")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "detailed output and debug logging")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "shorthand for -verbose")
	fs.BoolVar(&cfg.NoColor, "no-color", cfg.NoColor, "disable ANSI colors")
	fs.BoolVar(&cfg.Calibrate, "calibrate", cfg.Calibrate, "run worker-count calibration and exit")

	if err := fs.Parse(args); err != nil {
		return SimConfig{}, err
	}
	cfg.HasSeed = isFlagSet(fs, "seed")

	// File values fill in anything the flags left unset; env overrides then
	// take precedence over the file, giving flags > env > file > defaults.
	if err := applyFileConfig(&cfg, fs); err != nil {
		return SimConfig{}, err
	}
	applyEnvOverrides(&cfg, fs)
	cfg.WorkersSet = isFlagSet(fs, "workers") || os.Getenv(EnvPrefix+"WORKERS") != ""

	if err := cfg.Validate(); err != nil {
		return SimConfig{}, err
	}
	return cfg, nil
}

// Validate checks the configuration invariants. It is called before any
// sampling begins so that configuration errors never surface mid-run.
//
// Returns:
//   - error: A ValidationError describing the first violated invariant.
func (c SimConfig) Validate() error {
	if c.Samples <= 0 {
		return apperrors.ValidationError{Field: "samples", Message: fmt.Sprintf("must be positive, got %d", c.Samples)}
	}
	if c.Workers < 1 {
		return apperrors.ValidationError{Field: "workers", Message: fmt.Sprintf("must be at least 1, got %d", c.Workers)}
	}
	if c.BatchSize < 0 {
		return apperrors.ValidationError{Field: "batch-size", Message: fmt.Sprintf("must be positive when set, got %d", c.BatchSize)}
	}
	if c.ConvergenceThreshold <= 0 || math.IsNaN(c.ConvergenceThreshold) {
		return apperrors.ValidationError{Field: "threshold", Message: fmt.Sprintf("must be greater than zero, got %g", c.ConvergenceThreshold)}
	}
	if c.MaxIterations <= 0 {
		return apperrors.ValidationError{Field: "max-iterations", Message: fmt.Sprintf("must be positive, got %d", c.MaxIterations)}
	}
	if c.UniformMin >= c.UniformMax {
		return apperrors.ValidationError{Field: "min/max", Message: fmt.Sprintf("min (%d) must be below max (%d)", c.UniformMin, c.UniformMax)}
	}
	if c.Timeout <= 0 {
		return apperrors.ValidationError{Field: "timeout", Message: "must be positive"}
	}
	switch c.Strategy {
	case StrategyAuto, StrategyParallel, StrategySequential:
	default:
		return apperrors.ValidationError{Field: "strategy", Message: fmt.Sprintf("unknown strategy %q", c.Strategy)}
	}
	return nil
}

// ResolveStrategy maps the auto strategy to a concrete one based on the
// configured sample count. Parallel and sequential pass through unchanged.
func (c SimConfig) ResolveStrategy() string {
	if c.Strategy != StrategyAuto {
		return c.Strategy
	}
	if c.Samples >= AutoParallelSampleThreshold {
		return StrategyParallel
	}
	return StrategySequential
}

// EffectiveBatches partitions n samples into batches of the configured size,
// with the last batch absorbing any remainder. A zero BatchSize derives the
// batch size from Samples/Workers. The returned sizes always sum to n.
func (c SimConfig) EffectiveBatches(n int) []int {
	size := c.BatchSize
	if size <= 0 {
		size = n / c.Workers
		if size == 0 {
			size = n
		}
	}
	if size >= n {
		return []int{n}
	}

	count := n / size
	batches := make([]int, count)
	for i := range batches {
		batches[i] = size
	}
	// Last batch absorbs the remainder rather than dropping samples.
	batches[count-1] += n % size
	return batches
}
