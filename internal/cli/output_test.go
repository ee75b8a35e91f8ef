package cli

import (
	"bytes"
	"math"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/agbru/mcsim/internal/config"
	"github.com/agbru/mcsim/internal/engine"
	"github.com/agbru/mcsim/internal/metrics"
	"github.com/agbru/mcsim/internal/report"
	"github.com/agbru/mcsim/internal/stats"
	"github.com/agbru/mcsim/internal/trial"
	"github.com/agbru/mcsim/internal/ui"
)

func noColors(t *testing.T) {
	t.Helper()
	original := ui.GetCurrentTheme()
	ui.SetCurrentTheme(ui.NoColorTheme)
	t.Cleanup(func() { ui.SetCurrentTheme(original) })
}

func sampleRunAndReport() (*engine.Run, report.Report) {
	run := &engine.Run{
		Strategy:  config.StrategyParallel,
		Estimates: []float64{3.12, 3.16, 3.14, 3.15},
		Runtime:   100 * time.Millisecond,
	}
	cfg := config.DefaultConfig()
	cfg.Workers = 4
	tr := trial.NewPiEstimator(cfg, 0, false)
	return run, report.Build(run, tr, cfg, "test", metrics.MemorySnapshot{})
}

func TestDisplayReportWithConfig_Quiet(t *testing.T) {
	noColors(t)
	run, r := sampleRunAndReport()

	var buf bytes.Buffer
	if err := DisplayReportWithConfig(&buf, r, run, OutputConfig{Quiet: true}); err != nil {
		t.Fatalf("DisplayReportWithConfig failed: %v", err)
	}

	out := strings.TrimSpace(buf.String())
	if strings.Contains(out, "\n") {
		t.Errorf("quiet output should be a single line, got %q", out)
	}
	if !strings.HasPrefix(out, "3.14") {
		t.Errorf("quiet output %q should be the bare estimate", out)
	}
}

func TestDisplayReportWithConfig_Standard(t *testing.T) {
	noColors(t)
	run, r := sampleRunAndReport()

	var buf bytes.Buffer
	if err := DisplayReportWithConfig(&buf, r, run, OutputConfig{}); err != nil {
		t.Fatalf("DisplayReportWithConfig failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Trial:", "pi", "Estimate:", "Exact value:", "Absolute error:", "Runtime:"} {
		if !strings.Contains(out, want) {
			t.Errorf("standard output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Skewness") {
		t.Error("distribution section should require verbose mode")
	}
}

func TestDisplayReportWithConfig_Verbose(t *testing.T) {
	noColors(t)
	run, r := sampleRunAndReport()
	r.Memory = &report.Memory{HeapAllocBytes: 2048, TotalAllocBytes: 4096, NumGC: 1}

	var buf bytes.Buffer
	if err := DisplayReportWithConfig(&buf, r, run, OutputConfig{Verbose: true}); err != nil {
		t.Fatalf("DisplayReportWithConfig failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Skewness", "Kurtosis", "Memory Stats", "2.0 KiB"} {
		if !strings.Contains(out, want) {
			t.Errorf("verbose output missing %q:\n%s", want, out)
		}
	}
}

func TestDisplayReportWithConfig_Charts(t *testing.T) {
	noColors(t)

	t.Run("parallel run renders histogram", func(t *testing.T) {
		run, r := sampleRunAndReport()
		var buf bytes.Buffer
		if err := DisplayReportWithConfig(&buf, r, run, OutputConfig{Chart: true}); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(buf.String(), "Worker Estimates") {
			t.Error("parallel chart output should include the estimate histogram")
		}
	})

	t.Run("sequential run renders convergence", func(t *testing.T) {
		run := &engine.Run{
			Strategy:      config.StrategySequential,
			Estimates:     []float64{3.0, 3.2, 3.14},
			History:       []float64{3.0, 3.1, 3.113},
			Iterations:    3,
			MaxIterations: 10,
			Runtime:       time.Second,
		}
		cfg := config.DefaultConfig()
		r := report.Build(run, trial.NewPiEstimator(cfg, 0, false), cfg, "", metrics.MemorySnapshot{})

		var buf bytes.Buffer
		if err := DisplayReportWithConfig(&buf, r, run, OutputConfig{Chart: true}); err != nil {
			t.Fatal(err)
		}
		out := buf.String()
		if !strings.Contains(out, "Running Mean") {
			t.Error("sequential chart output should include the running-mean chart")
		}
		if !strings.Contains(out, "Absolute Error") {
			t.Error("reference-backed runs should include the error chart")
		}
	})
}

func TestDisplayReportWithConfig_FileOutput(t *testing.T) {
	noColors(t)
	run, r := sampleRunAndReport()
	path := filepath.Join(t.TempDir(), "out.json")

	var buf bytes.Buffer
	if err := DisplayReportWithConfig(&buf, r, run, OutputConfig{OutputFile: path}); err != nil {
		t.Fatalf("DisplayReportWithConfig failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Report saved to") {
		t.Error("file output should be confirmed on screen")
	}
}

func TestPresentSummary_DegenerateMoments(t *testing.T) {
	noColors(t)
	s := stats.Describe([]float64{5, 5, 5})
	if !math.IsNaN(s.Skewness) {
		t.Fatal("constant sample should have NaN skewness")
	}

	var buf bytes.Buffer
	PresentSummary(s, &buf)
	if !strings.Contains(buf.String(), "undefined (zero variance)") {
		t.Error("NaN moments should render as undefined")
	}
}

func TestFormatQuietResult(t *testing.T) {
	noColors(t)
	_, r := sampleRunAndReport()
	got := FormatQuietResult(r)
	if strings.ContainsAny(got, " \t\n") {
		t.Errorf("quiet result %q should be a bare number", got)
	}
}
