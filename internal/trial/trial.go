// Package trial defines the contract for a single Monte Carlo estimation
// problem and provides the built-in trial implementations.
//
// A trial encapsulates one complete sampling-and-estimation operation: each
// Run draws a fresh round of random samples and reduces them to one scalar
// estimate. Trials own their random source exclusively; the engine never
// shares a trial instance between workers.
package trial

import (
	"math/rand"
	"time"
)

// Trial is one concrete Monte Carlo estimation problem.
//
// Run must be safe to invoke repeatedly: every invocation is a fresh sampling
// round, never an accumulation (the optional point buffer gated by
// configuration is the only state that grows between runs).
type Trial interface {
	// Name returns the registered identifier of the trial.
	Name() string

	// Run draws one round of samples and returns the scalar estimate plus
	// optional auxiliary diagnostics (e.g. a raw hit count).
	Run() (estimate float64, aux map[string]float64, err error)

	// Reference returns the known correct value for error computation. The
	// second return is false when no reference exists; callers must treat
	// that as "error metrics unavailable" rather than an error.
	Reference() (float64, bool)
}

// Point is a recorded 2-D sample with its classification.
type Point struct {
	X, Y   float64
	Inside bool
}

// PointRecorder is an optional trial capability for problems that record 2-D
// sample points. The returned slice is owned by the trial instance and must
// not be mutated by callers.
type PointRecorder interface {
	Points() []Point
}

// RawRecorder is an optional trial capability for problems that retain their
// raw scalar draws for distribution analysis.
type RawRecorder interface {
	RawSamples() []float64
}

// newRand constructs the trial-owned random source. With seeded true the
// source is deterministic for the given seed; otherwise it is seeded from
// the wall clock. The source is created exactly once per trial instance and
// never reseeded afterwards.
func newRand(seed int64, seeded bool) *rand.Rand {
	if !seeded {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}
