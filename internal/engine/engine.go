// Package engine coordinates the execution of Monte Carlo trials. It provides
// two strategies: a parallel fan-out that runs independent trial instances
// across a fixed set of workers, and a sequential loop that iterates a single
// trial until its running mean converges. The engine is the core of the
// module's concurrency model; presentation and persistence live elsewhere.
package engine

import (
	"context"
	"io"
	"math"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agbru/mcsim/internal/config"
	apperrors "github.com/agbru/mcsim/internal/errors"
	"github.com/agbru/mcsim/internal/logging"
	"github.com/agbru/mcsim/internal/metrics"
	"github.com/agbru/mcsim/internal/stats"
	"github.com/agbru/mcsim/internal/trial"
)

// ProgressBufferMultiplier defines the buffer size multiplier for the progress
// channel. A larger buffer reduces the likelihood of blocking worker
// goroutines when the UI is slow to consume updates.
const ProgressBufferMultiplier = 5

// Engine executes trials according to a configured strategy. It holds only
// shared-nothing dependencies; each run builds fresh trial instances so that
// no random source or sample buffer is ever shared between goroutines.
type Engine struct {
	registry *trial.Registry
	log      logging.Logger
	recorder *metrics.Recorder
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger.
func WithLogger(log logging.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithRecorder attaches a metrics recorder. A nil recorder disables metrics.
func WithRecorder(r *metrics.Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// New creates an engine around the given trial registry.
func New(registry *trial.Registry, opts ...Option) *Engine {
	e := &Engine{
		registry: registry,
		log:      logging.NewDefaultLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs the simulation using the strategy resolved from the
// configuration and returns the completed run.
//
// Parameters:
//   - ctx: The context for cancellation and deadlines.
//   - cfg: The simulation configuration.
//   - reporter: The progress reporter (use NullProgressReporter for quiet mode).
//   - out: The io.Writer for progress output.
//
// Returns:
//   - *Run: The completed run, nil on failure.
//   - error: The first trial or context error encountered.
func (e *Engine) Execute(ctx context.Context, cfg config.SimConfig, reporter ProgressReporter, out io.Writer) (*Run, error) {
	switch cfg.ResolveStrategy() {
	case config.StrategySequential:
		return e.RunSequential(ctx, cfg, reporter, out)
	default:
		return e.RunParallel(ctx, cfg, reporter, out)
	}
}

// RunParallel executes cfg.Workers independent trial instances concurrently
// and collects their estimates.
//
// Each worker owns a private trial instance built from the registry, so no
// state is shared across goroutines. The call blocks until every worker has
// finished (a join barrier); failure is all-or-nothing: if any worker's trial
// returns an error, the whole run fails with the first error observed and no
// partial results are returned. Results are collected in completion order,
// which is not deterministic; the aggregated statistics do not depend on it.
//
// Parameters:
//   - ctx: The context for cancellation and deadlines.
//   - cfg: The simulation configuration.
//   - reporter: The progress reporter for displaying per-worker updates.
//   - out: The io.Writer for progress output.
//
// Returns:
//   - *Run: The completed run holding one estimate per worker, nil on failure.
//   - error: A TrialError wrapping the first worker failure, or a context error.
func (e *Engine) RunParallel(ctx context.Context, cfg config.SimConfig, reporter ProgressReporter, out io.Writer) (*Run, error) {
	start := time.Now()
	workers := cfg.Workers

	g, gctx := errgroup.WithContext(ctx)
	progressChan := make(chan ProgressUpdate, workers*ProgressBufferMultiplier)
	resultChan := make(chan TrialResult, workers)

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go reporter.DisplayProgress(&displayWg, progressChan, workers, out)

	e.log.Debug("starting parallel run",
		logging.String("trial", cfg.Trial),
		logging.Int("workers", workers),
		logging.Int("samples", cfg.Samples),
		logging.Bool("seeded", cfg.HasSeed))

	for i := 0; i < workers; i++ {
		idx := i
		g.Go(func() error {
			// Worker seed derivation is implementation-controlled; with
			// completion-order collection, parallel runs make no
			// bit-reproducibility promise even when seeded.
			tr, err := e.registry.New(cfg.Trial, cfg, cfg.Seed+int64(idx), cfg.HasSeed)
			if err != nil {
				return err
			}
			if err := gctx.Err(); err != nil {
				return err
			}

			trialStart := time.Now()
			estimate, aux, err := tr.Run()
			if err != nil {
				return &apperrors.TrialError{Trial: cfg.Trial, Cause: err}
			}

			select {
			case progressChan <- ProgressUpdate{WorkerIndex: idx, Value: 1.0}:
			default:
				// Never block a worker on a slow consumer.
			}

			resultChan <- TrialResult{
				WorkerIndex: idx,
				Estimate:    estimate,
				Aux:         aux,
				Duration:    time.Since(trialStart),
			}
			return nil
		})
	}

	err := g.Wait()
	close(progressChan)
	close(resultChan)
	displayWg.Wait()

	if err != nil {
		e.recorder.ObserveRun(config.StrategyParallel, metrics.OutcomeFailed, time.Since(start))
		e.log.Error("parallel run failed", err, logging.String("trial", cfg.Trial))
		return nil, err
	}

	run := &Run{
		Strategy:      config.StrategyParallel,
		MaxIterations: cfg.MaxIterations,
		Estimates:     make([]float64, 0, workers),
		Results:       make([]TrialResult, 0, workers),
		Runtime:       time.Since(start),
	}
	for res := range resultChan {
		run.Estimates = append(run.Estimates, res.Estimate)
		run.Results = append(run.Results, res)
	}

	e.recorder.ObserveRun(config.StrategyParallel, metrics.OutcomeCompleted, run.Runtime)
	e.recorder.AddTrials(cfg.Trial, config.StrategyParallel, workers)
	e.log.Info("parallel run completed",
		logging.String("trial", cfg.Trial),
		logging.Int("workers", workers),
		logging.Dur("runtime", run.Runtime))
	return run, nil
}

// RunSequential executes a single trial instance iteratively, tracking the
// running mean of the estimates, and stops as soon as the mean stabilizes or
// the iteration budget is exhausted.
//
// The convergence test compares consecutive running means: the run converges
// at iteration k (k >= 2) when |mean_k - mean_(k-1)| falls below the
// configured threshold. Before the first iteration the previous mean is
// treated as +Inf, so a run can never converge on its first iteration; an
// infinite threshold therefore stops at iteration 2, not 1. Reaching
// MaxIterations without convergence is a normal outcome, not an error.
//
// Parameters:
//   - ctx: The context for cancellation and deadlines.
//   - cfg: The simulation configuration.
//   - reporter: The progress reporter for displaying iteration progress.
//   - out: The io.Writer for progress output.
//
// Returns:
//   - *Run: The completed run with the full convergence history, nil on failure.
//   - error: A TrialError on the first failing iteration, or a context error.
func (e *Engine) RunSequential(ctx context.Context, cfg config.SimConfig, reporter ProgressReporter, out io.Writer) (*Run, error) {
	start := time.Now()

	tr, err := e.registry.New(cfg.Trial, cfg, cfg.Seed, cfg.HasSeed)
	if err != nil {
		return nil, err
	}

	progressChan := make(chan ProgressUpdate, ProgressBufferMultiplier)
	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go reporter.DisplayProgress(&displayWg, progressChan, 1, out)

	finish := func() {
		close(progressChan)
		displayWg.Wait()
	}

	e.log.Debug("starting sequential run",
		logging.String("trial", cfg.Trial),
		logging.Int("max_iterations", cfg.MaxIterations),
		logging.Float64("threshold", cfg.ConvergenceThreshold))

	run := &Run{
		Strategy:      config.StrategySequential,
		MaxIterations: cfg.MaxIterations,
		Estimates:     make([]float64, 0, cfg.MaxIterations),
		History:       make([]float64, 0, cfg.MaxIterations),
	}

	sum := 0.0
	prevMean := math.Inf(1)

	for i := 1; i <= cfg.MaxIterations; i++ {
		if err := ctx.Err(); err != nil {
			finish()
			e.recorder.ObserveRun(config.StrategySequential, metrics.OutcomeFailed, time.Since(start))
			return nil, err
		}

		trialStart := time.Now()
		estimate, aux, err := tr.Run()
		if err != nil {
			finish()
			e.recorder.ObserveRun(config.StrategySequential, metrics.OutcomeFailed, time.Since(start))
			trialErr := &apperrors.TrialError{Trial: cfg.Trial, Cause: err}
			e.log.Error("sequential run failed", trialErr, logging.Int("iteration", i))
			return nil, trialErr
		}

		sum += estimate
		mean := sum / float64(i)
		run.Estimates = append(run.Estimates, estimate)
		run.History = append(run.History, mean)
		run.Results = append(run.Results, TrialResult{
			Estimate: estimate,
			Aux:      aux,
			Duration: time.Since(trialStart),
		})
		run.Iterations = i

		select {
		case progressChan <- ProgressUpdate{Value: float64(i) / float64(cfg.MaxIterations)}:
		default:
		}

		if math.Abs(mean-prevMean) < cfg.ConvergenceThreshold {
			break
		}
		prevMean = mean
	}

	finish()
	run.Runtime = time.Since(start)

	outcome := metrics.OutcomeExhausted
	if run.Converged() {
		outcome = metrics.OutcomeConverged
	}
	e.recorder.ObserveRun(config.StrategySequential, outcome, run.Runtime)
	e.recorder.AddTrials(cfg.Trial, config.StrategySequential, run.Iterations)
	e.recorder.ObserveIterations(run.Iterations)

	e.log.Info("sequential run completed",
		logging.String("trial", cfg.Trial),
		logging.Int("iterations", run.Iterations),
		logging.Bool("converged", run.Converged()),
		logging.Dur("runtime", run.Runtime))
	return run, nil
}

// Run holds everything a completed execution produced. It is the input to
// aggregation, reporting, and visualization; those layers read it, never
// mutate it.
type Run struct {
	// Strategy is the strategy that produced the run (parallel or sequential).
	Strategy string
	// Estimates holds one estimate per worker (parallel) or per iteration
	// (sequential), in collection order.
	Estimates []float64
	// Results holds the full per-invocation records backing Estimates.
	Results []TrialResult
	// History is the running mean after each iteration. Empty for parallel
	// runs, which have no iteration order.
	History []float64
	// Iterations is the number of iterations performed. Zero for parallel runs.
	Iterations int
	// MaxIterations is the configured iteration budget, kept so Converged can
	// distinguish early stop from exhaustion.
	MaxIterations int
	// Runtime is the wall-clock duration of the whole run.
	Runtime time.Duration
}

// Converged reports whether a sequential run stopped early because the
// running mean stabilized. It is always false for parallel runs.
func (r *Run) Converged() bool {
	return r.Strategy == config.StrategySequential && r.Iterations < r.MaxIterations
}

// FinalEstimate returns the run's single best estimate: the final running
// mean for sequential runs, the mean across workers for parallel runs.
// Returns NaN for an empty run.
func (r *Run) FinalEstimate() float64 {
	if len(r.History) > 0 {
		return r.History[len(r.History)-1]
	}
	if len(r.Estimates) == 0 {
		return math.NaN()
	}
	return stats.Mean(r.Estimates)
}
