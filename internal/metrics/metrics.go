// Package metrics provides Prometheus instrumentation and runtime memory
// snapshots for simulation runs. The collectors are optional: a nil Recorder
// is a no-op, so library users who do not scrape metrics pay nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Run outcomes recorded on the runs counter.
const (
	OutcomeConverged = "converged"
	OutcomeExhausted = "exhausted"
	OutcomeCompleted = "completed"
	OutcomeFailed    = "failed"
)

// Recorder holds the Prometheus collectors for the simulation engine.
type Recorder struct {
	runsTotal   *prometheus.CounterVec
	trialsTotal *prometheus.CounterVec
	runDuration *prometheus.HistogramVec
	iterations  prometheus.Histogram
}

// NewRecorder creates a Recorder registered with the given registerer.
// Passing prometheus.DefaultRegisterer wires the collectors into the default
// scrape surface; tests pass a fresh registry to stay isolated.
//
// Parameters:
//   - reg: The Prometheus registerer to attach the collectors to.
//
// Returns:
//   - *Recorder: The recorder with all collectors registered.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		runsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mcsim_runs_total",
			Help: "Completed simulation runs by strategy and outcome.",
		}, []string{"strategy", "outcome"}),
		trialsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mcsim_trials_total",
			Help: "Trial invocations by trial name and strategy.",
		}, []string{"trial", "strategy"}),
		runDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mcsim_run_duration_seconds",
			Help:    "Wall-clock duration of simulation runs.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"strategy"}),
		iterations: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "mcsim_sequential_iterations",
			Help:    "Iterations used by sequential runs before termination.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}),
	}
}

// ObserveRun records the outcome and duration of one run. Safe on a nil
// receiver.
func (r *Recorder) ObserveRun(strategy, outcome string, d time.Duration) {
	if r == nil {
		return
	}
	r.runsTotal.WithLabelValues(strategy, outcome).Inc()
	r.runDuration.WithLabelValues(strategy).Observe(d.Seconds())
}

// AddTrials records n trial invocations. Safe on a nil receiver.
func (r *Recorder) AddTrials(trial, strategy string, n int) {
	if r == nil {
		return
	}
	r.trialsTotal.WithLabelValues(trial, strategy).Add(float64(n))
}

// ObserveIterations records the iteration count of a sequential run. Safe on
// a nil receiver.
func (r *Recorder) ObserveIterations(n int) {
	if r == nil {
		return
	}
	r.iterations.Observe(float64(n))
}
