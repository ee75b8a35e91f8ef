package config

import "runtime"

// Worker count resolution chain (highest priority first):
//  1. CLI flag (--workers)
//  2. Environment variable (MCSIM_WORKERS)
//  3. Cached calibration profile (~/.mcsim_calibration.json)
//  4. Adaptive hardware estimation (this file)

// DefaultWorkers provides a heuristic worker count derived from the number of
// available CPU cores, without running benchmarks. Sampling workers are
// CPU-bound, so there is no benefit in exceeding the core count, and on very
// high core counts the per-worker sample share becomes too small to amortize
// goroutine startup.
func DefaultWorkers() int {
	numCPU := runtime.NumCPU()

	switch {
	case numCPU <= 1:
		return 1
	case numCPU <= 4:
		return numCPU
	case numCPU <= 16:
		return numCPU - 1 // leave a core for the collector and UI
	default:
		return 16
	}
}

// ApplyCalibratedWorkers sets the worker count from a calibration result when
// the configuration still carries the adaptive default. A user-specified
// worker count via flag or environment is preserved.
func ApplyCalibratedWorkers(cfg SimConfig, calibrated int) SimConfig {
	if cfg.WorkersSet || calibrated < 1 {
		return cfg
	}
	cfg.Workers = calibrated
	return cfg
}
