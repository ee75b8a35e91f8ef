// Package report builds the immutable result record of a simulation run and
// persists it as JSON. A Report is constructed once from a completed run and
// never mutated afterwards; presentation layers read it.
package report

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/agbru/mcsim/internal/config"
	"github.com/agbru/mcsim/internal/engine"
	"github.com/agbru/mcsim/internal/metrics"
	"github.com/agbru/mcsim/internal/stats"
	"github.com/agbru/mcsim/internal/trial"
)

// Memory captures the heap growth attributable to a run, for provenance.
type Memory struct {
	HeapAllocBytes  uint64 `json:"heap_alloc_bytes"`
	TotalAllocBytes uint64 `json:"total_alloc_bytes"`
	NumGC           uint32 `json:"num_gc"`
}

// Report is the immutable summary of a completed run.
//
// Error fields are pointers so that trials without a reference value (or a
// zero reference, where relative error is undefined) serialize as absent
// keys instead of unmarshalable NaNs.
type Report struct {
	// Identification and provenance.
	Trial     string `json:"trial"`
	Strategy  string `json:"strategy"`
	Version   string `json:"version,omitempty"`
	Timestamp string `json:"timestamp"`
	Seed      *int64 `json:"seed,omitempty"`
	Workers   int    `json:"workers,omitempty"`
	Samples   int    `json:"samples"`

	// Estimation outcome.
	Estimate          float64  `json:"estimate"`
	ExactValue        *float64 `json:"exact_value,omitempty"`
	AbsoluteError     *float64 `json:"absolute_error,omitempty"`
	RelativeError     *float64 `json:"relative_error,omitempty"`
	StandardDeviation float64  `json:"standard_deviation"`
	RuntimeSeconds    float64  `json:"runtime"`
	NumIterations     int      `json:"num_iterations"`
	Converged         bool     `json:"converged,omitempty"`

	// Full summary of the per-worker (or per-iteration) estimates.
	Summary stats.Summary `json:"-"`

	Memory *Memory `json:"memory,omitempty"`
}

// Build constructs a report from a completed run.
//
// Parameters:
//   - run: The completed run.
//   - tr: The trial that produced it (used for name and reference value).
//   - cfg: The configuration the run was executed with.
//   - version: The application version string (empty to omit).
//   - memDelta: The memory growth over the run (zero value to omit).
//
// Returns:
//   - Report: The constructed report. Callers must treat it as read-only.
func Build(run *engine.Run, tr trial.Trial, cfg config.SimConfig, version string, memDelta metrics.MemorySnapshot) Report {
	summary := stats.Describe(run.Estimates)
	r := Report{
		Trial:             tr.Name(),
		Strategy:          run.Strategy,
		Version:           version,
		Timestamp:         time.Now().UTC().Format(time.RFC3339),
		Samples:           cfg.Samples,
		Estimate:          run.FinalEstimate(),
		StandardDeviation: summary.StdDev,
		RuntimeSeconds:    run.Runtime.Seconds(),
		NumIterations:     run.Iterations,
		Converged:         run.Converged(),
		Summary:           summary,
	}

	if run.Strategy == config.StrategyParallel {
		r.Workers = cfg.Workers
	}
	if cfg.HasSeed {
		seed := cfg.Seed
		r.Seed = &seed
	}

	if ref, ok := tr.Reference(); ok {
		r.ExactValue = &ref
		abs, rel := stats.ErrorMetrics(r.Estimate, ref)
		r.AbsoluteError = &abs
		if !math.IsNaN(rel) {
			r.RelativeError = &rel
		}
	}

	if memDelta != (metrics.MemorySnapshot{}) {
		r.Memory = &Memory{
			HeapAllocBytes:  memDelta.HeapAlloc,
			TotalAllocBytes: memDelta.TotalAlloc,
			NumGC:           memDelta.NumGC,
		}
	}
	return r
}

// MarshalJSON replaces non-finite statistic values with null so the record
// always serializes.
func (r Report) MarshalJSON() ([]byte, error) {
	type alias Report
	a := alias(r)
	if math.IsNaN(a.StandardDeviation) || math.IsInf(a.StandardDeviation, 0) {
		a.StandardDeviation = 0
	}
	return json.Marshal(a)
}

// WriteFile persists the report as indented JSON, creating parent
// directories as needed. An empty path is a no-op.
//
// Parameters:
//   - path: The destination file path.
//
// Returns:
//   - error: An error if the directory or file cannot be written.
func (r Report) WriteFile(path string) error {
	if path == "" {
		return nil
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}
	return nil
}
