package engine

import (
	"io"
	"sync"
	"time"
)

// ProgressUpdate carries one progress report from a worker or iteration.
type ProgressUpdate struct {
	// WorkerIndex identifies the reporting worker (0-based). For the
	// sequential strategy it is always 0.
	WorkerIndex int
	// Value is the normalized progress (0.0 to 1.0).
	Value float64
}

// TrialResult encapsulates the outcome of a single trial invocation.
// It is the unit collected at the join point of the parallel strategy.
type TrialResult struct {
	// WorkerIndex identifies which worker produced the result.
	WorkerIndex int
	// Estimate is the scalar estimate returned by the trial.
	Estimate float64
	// Aux holds the trial's auxiliary diagnostics, if any.
	Aux map[string]float64
	// Duration is the time taken by this invocation.
	Duration time.Duration
}

// ProgressReporter defines the interface for displaying run progress.
// It decouples the engine from the presentation layer: the engine focuses on
// coordinating trials while implementations handle spinners or progress bars.
type ProgressReporter interface {
	// DisplayProgress starts displaying progress updates from the channel.
	// It should be called in a separate goroutine and will run until the
	// progressChan is closed.
	//
	// Parameters:
	//   - wg: A WaitGroup to signal when display is complete.
	//   - progressChan: Channel receiving progress updates from workers.
	//   - numWorkers: The number of workers being tracked.
	//   - out: The writer for progress output.
	DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numWorkers int, out io.Writer)
}

// ProgressReporterFunc is a function adapter that implements ProgressReporter.
type ProgressReporterFunc func(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numWorkers int, out io.Writer)

// DisplayProgress calls the underlying function.
func (f ProgressReporterFunc) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numWorkers int, out io.Writer) {
	f(wg, progressChan, numWorkers, out)
}

// NullProgressReporter is a no-op implementation of ProgressReporter.
// It drains the progress channel without displaying anything.
// Useful for quiet mode or testing.
type NullProgressReporter struct{}

// DisplayProgress drains the channel without output.
func (NullProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, _ int, _ io.Writer) {
	defer wg.Done()
	for range progressChan {
		// Drain channel silently
	}
}
