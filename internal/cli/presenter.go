package cli

import (
	"fmt"
	"io"
	"math"
	"sync"
	"text/tabwriter"

	"github.com/agbru/mcsim/internal/config"
	"github.com/agbru/mcsim/internal/engine"
	"github.com/agbru/mcsim/internal/format"
	"github.com/agbru/mcsim/internal/report"
	"github.com/agbru/mcsim/internal/stats"
	"github.com/agbru/mcsim/internal/ui"
)

// CLIProgressReporter implements engine.ProgressReporter for CLI output.
// It wraps the DisplayProgress function to provide a spinner and progress bar
// display during simulation runs.
type CLIProgressReporter struct{}

// Verify that CLIProgressReporter implements engine.ProgressReporter.
var _ engine.ProgressReporter = CLIProgressReporter{}

// DisplayProgress displays a spinner and progress bar for ongoing runs.
func (CLIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan engine.ProgressUpdate, numWorkers int, out io.Writer) {
	DisplayProgress(wg, progressChan, numWorkers, out)
}

// CLIColorProvider adapts the active UI theme to the error handler's
// ColorProvider interface.
type CLIColorProvider struct{}

// Red returns the active theme's error color.
func (CLIColorProvider) Red() string { return ui.ColorRed() }

// Yellow returns the active theme's warning color.
func (CLIColorProvider) Yellow() string { return ui.ColorYellow() }

// Reset returns the active theme's reset code.
func (CLIColorProvider) Reset() string { return ui.ColorReset() }

// PresentReport displays the outcome of a run as an aligned key/value table.
//
// Parameters:
//   - r: The report to display.
//   - out: The output writer.
func PresentReport(r report.Report, out io.Writer) {
	fmt.Fprintf(out, "\n%s--- Simulation Result ---%s\n", ui.ColorBold(), ui.ColorReset())

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Trial:\t%s%s%s\n", ui.ColorCyan(), r.Trial, ui.ColorReset())
	fmt.Fprintf(w, "Strategy:\t%s\n", r.Strategy)
	if r.Workers > 0 {
		fmt.Fprintf(w, "Workers:\t%d\n", r.Workers)
	}
	if r.NumIterations > 0 {
		status := "budget exhausted"
		if r.Converged {
			status = "converged"
		}
		fmt.Fprintf(w, "Iterations:\t%s (%s)\n", format.FormatCount(r.NumIterations), status)
	}
	fmt.Fprintf(w, "Samples:\t%s\n", format.FormatCount(r.Samples))
	if r.Seed != nil {
		fmt.Fprintf(w, "Seed:\t%d\n", *r.Seed)
	}
	fmt.Fprintf(w, "Estimate:\t%s%.10g%s\n", ui.ColorGreen(), r.Estimate, ui.ColorReset())
	if r.ExactValue != nil {
		fmt.Fprintf(w, "Exact value:\t%.10g\n", *r.ExactValue)
	}
	if r.AbsoluteError != nil {
		fmt.Fprintf(w, "Absolute error:\t%s%.3e%s\n", ui.ColorYellow(), *r.AbsoluteError, ui.ColorReset())
	}
	if r.RelativeError != nil {
		fmt.Fprintf(w, "Relative error:\t%.3e\n", *r.RelativeError)
	}
	fmt.Fprintf(w, "Std deviation:\t%.3e\n", r.StandardDeviation)
	fmt.Fprintf(w, "Runtime:\t%s\n", formatRuntimeSeconds(r.RuntimeSeconds))
	w.Flush()
}

// PresentSummary displays the distribution of the per-worker or per-iteration
// estimates behind a report, for verbose output.
//
// Parameters:
//   - s: The summary statistics of the estimates.
//   - out: The output writer.
func PresentSummary(s stats.Summary, out io.Writer) {
	fmt.Fprintf(out, "\n%s--- Estimate Distribution ---%s\n", ui.ColorBold(), ui.ColorReset())

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Count:\t%s\n", format.FormatCount(s.N))
	fmt.Fprintf(w, "Mean:\t%.10g\n", s.Mean)
	fmt.Fprintf(w, "Median:\t%.10g\n", s.Median)
	fmt.Fprintf(w, "Min / Max:\t%.10g / %.10g\n", s.Min, s.Max)
	fmt.Fprintf(w, "Variance:\t%.3e\n", s.Variance)
	fmt.Fprintf(w, "Std deviation:\t%.3e\n", s.StdDev)
	fmt.Fprintf(w, "Skewness:\t%s\n", formatMoment(s.Skewness))
	fmt.Fprintf(w, "Kurtosis:\t%s\n", formatMoment(s.Kurtosis))
	w.Flush()
}

// formatMoment renders a higher moment, spelling out the undefined case.
func formatMoment(v float64) string {
	if math.IsNaN(v) {
		return "undefined (zero variance)"
	}
	return fmt.Sprintf("%.4f", v)
}

// formatRuntimeSeconds renders a runtime recorded in seconds using the
// standard duration formatting.
func formatRuntimeSeconds(seconds float64) string {
	if seconds < 0.001 {
		return fmt.Sprintf("%.0fµs", seconds*1e6)
	}
	if seconds < 1 {
		return fmt.Sprintf("%.0fms", seconds*1e3)
	}
	return fmt.Sprintf("%.3fs", seconds)
}

// PrintExecutionConfig displays the resolved run parameters before the
// simulation starts, so the user can see what a run with adaptive defaults
// actually resolved to.
//
// Parameters:
//   - cfg: The resolved simulation configuration.
//   - out: The output writer.
func PrintExecutionConfig(cfg config.SimConfig, out io.Writer) {
	strategy := cfg.ResolveStrategy()
	fmt.Fprintf(out, "%sRunning%s %s%s%s trial: strategy=%s",
		ui.ColorBold(), ui.ColorReset(), ui.ColorCyan(), cfg.Trial, ui.ColorReset(), strategy)
	if strategy == config.StrategyParallel {
		fmt.Fprintf(out, " workers=%d", cfg.Workers)
	} else {
		fmt.Fprintf(out, " max-iterations=%d threshold=%.3g", cfg.MaxIterations, cfg.ConvergenceThreshold)
	}
	fmt.Fprintf(out, " samples=%s", format.FormatCount(cfg.Samples))
	if cfg.HasSeed {
		fmt.Fprintf(out, " seed=%d", cfg.Seed)
	}
	fmt.Fprintln(out)
}

// DisplayMemoryStats shows memory statistics after a run.
//
// Parameters:
//   - m: The memory provenance of the run.
//   - out: The output writer.
func DisplayMemoryStats(m report.Memory, out io.Writer) {
	fmt.Fprintf(out, "\nMemory Stats:\n")
	fmt.Fprintf(out, "  Heap growth:     %s\n", format.FormatBytes(m.HeapAllocBytes))
	fmt.Fprintf(out, "  Total allocated: %s\n", format.FormatBytes(m.TotalAllocBytes))
	fmt.Fprintf(out, "  GC cycles:       %d\n", m.NumGC)
}
