// # Naming Conventions
//
// Functions in this package follow consistent naming patterns based on their behavior:
//
//   - Display* functions write formatted output to an [io.Writer].
//     They handle presentation logic and colorization.
//     Examples: [DisplayReportWithConfig], [DisplayProgress], [DisplayMemoryStats].
//
//   - Present* functions write a formatted section of a report to an [io.Writer].
//     Examples: [PresentReport], [PresentSummary].
//
//   - Format* functions return a formatted string without performing I/O.
//     They are pure functions suitable for composition.
//     Example: [FormatQuietResult].

package cli

import (
	"fmt"
	"io"

	"github.com/agbru/mcsim/internal/engine"
	"github.com/agbru/mcsim/internal/report"
	"github.com/agbru/mcsim/internal/ui"
	"github.com/agbru/mcsim/internal/viz"
)

// chart layout shared by the post-run renderings
const (
	chartWidth    = 60
	chartRows     = 6
	histogramBins = 10
	histogramBar  = 40
)

// OutputConfig holds configuration for result output.
type OutputConfig struct {
	// OutputFile is the path to save the JSON report (empty for no file output).
	OutputFile string
	// Quiet mode suppresses everything except the estimate.
	Quiet bool
	// Verbose shows the estimate distribution and memory statistics.
	Verbose bool
	// Chart enables post-run terminal charts.
	Chart bool
}

// FormatQuietResult formats a result for quiet mode output.
// Returns a single-line result suitable for scripting.
//
// Parameters:
//   - r: The report to format.
//
// Returns:
//   - string: The formatted result string.
func FormatQuietResult(r report.Report) string {
	return fmt.Sprintf("%.10g", r.Estimate)
}

// DisplayReportWithConfig displays a completed run with the given output
// configuration. This is a unified function that handles all output modes.
//
// Parameters:
//   - out: The output writer.
//   - r: The report to display.
//   - run: The run backing the report (for chart data).
//   - config: Output configuration.
//
// Returns:
//   - error: An error if file output fails.
func DisplayReportWithConfig(out io.Writer, r report.Report, run *engine.Run, config OutputConfig) error {
	if config.Quiet {
		fmt.Fprintln(out, FormatQuietResult(r))
	} else {
		PresentReport(r, out)
		if config.Verbose {
			PresentSummary(r.Summary, out)
			if r.Memory != nil {
				DisplayMemoryStats(*r.Memory, out)
			}
		}
		if config.Chart {
			displayCharts(out, r, run)
		}
	}

	// Save to file if requested
	if config.OutputFile != "" {
		if err := r.WriteFile(config.OutputFile); err != nil {
			return err
		}
		if !config.Quiet {
			fmt.Fprintf(out, "\n%s✓ Report saved to: %s%s%s\n",
				ui.ColorGreen(), ui.ColorCyan(), config.OutputFile, ui.ColorReset())
		}
	}

	return nil
}

// displayCharts renders the post-run charts appropriate for the strategy:
// an estimate histogram for parallel runs, a convergence line chart (and an
// error chart when a reference value exists) for sequential runs.
func displayCharts(out io.Writer, r report.Report, run *engine.Run) {
	if run == nil {
		return
	}

	if len(run.History) > 0 {
		lines := viz.RenderBrailleChart(run.History, chartWidth, chartRows)
		fmt.Fprintf(out, "\n%s\n", viz.Frame("Running Mean", lines))
		fmt.Fprintf(out, "  %s\n", viz.RenderSparkline(run.History))

		if r.ExactValue != nil {
			errLines := viz.RenderErrorChart(run.History, *r.ExactValue, chartWidth, chartRows)
			fmt.Fprintf(out, "\n%s\n", viz.Frame("Absolute Error (log scale)", errLines))
		}
		return
	}

	if len(run.Estimates) > 1 {
		lines := viz.Histogram(run.Estimates, histogramBins, histogramBar)
		fmt.Fprintf(out, "\n%s\n", viz.Frame("Worker Estimates", lines))
	}
}
