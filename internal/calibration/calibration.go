// Package calibration benchmarks candidate worker counts with short parallel
// runs and caches the fastest in a per-user profile, so subsequent runs can
// start with a measured worker count instead of the CPU-derived default.
package calibration

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/agbru/mcsim/internal/config"
	"github.com/agbru/mcsim/internal/engine"
	"github.com/agbru/mcsim/internal/format"
	"github.com/agbru/mcsim/internal/sysmon"
	"github.com/agbru/mcsim/internal/ui"
)

// CalibrationSamples is the per-trial sample count used during benchmark
// runs. Small enough to keep calibration under a few seconds, large enough
// that fan-out overhead does not dominate.
const CalibrationSamples = 200_000

// calibrationResult records the benchmark outcome for one candidate count.
type calibrationResult struct {
	Workers  int
	Duration time.Duration
	Err      error
}

// RunCalibration benchmarks each candidate worker count with a short
// parallel run and returns the fastest count. Results are printed as a
// table and the winner is persisted to the profile path.
//
// Parameters:
//   - ctx: The context for cancellation and deadlines.
//   - eng: The engine to benchmark with.
//   - cfg: The base configuration (trial selection is honored).
//   - profilePath: Where to cache the winning count (empty to skip caching).
//   - out: The writer for the results table.
//
// Returns:
//   - int: The benchmarked optimal worker count.
//   - error: An error if every candidate failed or the context ended.
func RunCalibration(ctx context.Context, eng *engine.Engine, cfg config.SimConfig, profilePath string, out io.Writer) (int, error) {
	candidates := CandidateWorkerCounts()

	fmt.Fprintf(out, "Calibrating worker count (%d candidates, %s samples each, %s)...\n",
		len(candidates), format.FormatCount(CalibrationSamples), sysmon.Sample())

	benchCfg := cfg
	benchCfg.Samples = CalibrationSamples
	benchCfg.Strategy = config.StrategyParallel
	benchCfg.StorePoints = false
	benchCfg.Chart = false

	results := make([]calibrationResult, 0, len(candidates))
	best := calibrationResult{Duration: time.Duration(1<<63 - 1)}

	for _, workers := range candidates {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		benchCfg.Workers = workers

		start := time.Now()
		_, err := eng.RunParallel(ctx, benchCfg, engine.NullProgressReporter{}, io.Discard)
		res := calibrationResult{Workers: workers, Duration: time.Since(start), Err: err}
		results = append(results, res)

		if err == nil && res.Duration < best.Duration {
			best = res
		}
	}

	if best.Err != nil || best.Workers == 0 {
		return 0, fmt.Errorf("calibration failed: no candidate completed")
	}

	printCalibrationResults(out, results, best.Workers)

	if profilePath != "" {
		profile := Profile{Workers: best.Workers, NumCPU: runtime.NumCPU(), Timestamp: time.Now().UTC()}
		if err := SaveProfile(profilePath, profile); err != nil {
			fmt.Fprintf(out, "%sWarning: %v%s\n", ui.ColorYellow(), err, ui.ColorReset())
		} else {
			fmt.Fprintf(out, "\n%s✓ Profile saved to: %s%s%s\n",
				ui.ColorGreen(), ui.ColorCyan(), profilePath, ui.ColorReset())
		}
	}

	return best.Workers, nil
}

// printCalibrationResults formats and prints the calibration results table.
func printCalibrationResults(out io.Writer, results []calibrationResult, bestWorkers int) {
	fmt.Fprintf(out, "\n--- Calibration Summary ---\n")
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "  %sWorkers%s    │ %sExecution Time%s\n",
		ui.ColorUnderline(), ui.ColorReset(), ui.ColorUnderline(), ui.ColorReset())
	fmt.Fprintf(tw, "  %s┼%s\n", strings.Repeat("─", 12), strings.Repeat("─", 25))
	for _, res := range results {
		durationStr := fmt.Sprintf("%sN/A%s", ui.ColorRed(), ui.ColorReset())
		if res.Err == nil {
			durationStr = format.FormatExecutionDuration(res.Duration)
			if res.Duration == 0 {
				durationStr = "< 1µs"
			}
		}
		highlight := ""
		if res.Workers == bestWorkers && res.Err == nil {
			highlight = fmt.Sprintf(" %s(Optimal)%s", ui.ColorGreen(), ui.ColorReset())
		}
		fmt.Fprintf(tw, "  %s%-10d%s │ %s%s%s%s\n",
			ui.ColorCyan(), res.Workers, ui.ColorReset(),
			ui.ColorYellow(), durationStr, ui.ColorReset(), highlight)
	}
	tw.Flush()
}
