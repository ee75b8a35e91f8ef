package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/agbru/mcsim/internal/calibration"
	apperrors "github.com/agbru/mcsim/internal/errors"
	"github.com/agbru/mcsim/internal/logging"
	"github.com/agbru/mcsim/internal/metrics"
	"github.com/agbru/mcsim/internal/report"
)

// newTestApp builds an application with quiet logging and an isolated
// metrics registry so tests do not pollute the default registerer.
func newTestApp(t *testing.T, args ...string) *Application {
	t.Helper()
	argv := append([]string{"mcsim"}, args...)
	a, err := New(argv, io.Discard,
		WithLogger(logging.NewLogger(io.Discard, "app-test")),
		WithRecorder(metrics.NewRecorder(prometheus.NewRegistry())))
	if err != nil {
		t.Fatalf("New(%v) failed: %v", args, err)
	}
	return a
}

func TestNew_ParsesArguments(t *testing.T) {
	a := newTestApp(t, "-trial", "pi", "-samples", "5000", "-seed", "7", "-quiet")

	if a.Config.Trial != "pi" || a.Config.Samples != 5000 {
		t.Errorf("config = %+v, want trial=pi samples=5000", a.Config)
	}
	if !a.Config.HasSeed || a.Config.Seed != 7 {
		t.Error("explicit seed should be recorded")
	}
}

func TestNew_InvalidArguments(t *testing.T) {
	if _, err := New([]string{"mcsim", "-samples", "-5"}, io.Discard); err == nil {
		t.Error("negative sample count should fail validation")
	}
	if _, err := New([]string{"mcsim", "-not-a-flag"}, io.Discard); err == nil {
		t.Error("unknown flag should fail parsing")
	}
}

func TestNew_HelpError(t *testing.T) {
	_, err := New([]string{"mcsim", "-h"}, io.Discard)
	if err == nil || !IsHelpError(err) {
		t.Errorf("-h should surface flag.ErrHelp, got %v", err)
	}
}

func TestRun_QuietSimulation(t *testing.T) {
	a := newTestApp(t, "-trial", "pi", "-samples", "2000", "-workers", "2", "-seed", "1", "-quiet", "-no-color")

	var out bytes.Buffer
	code := a.Run(context.Background(), &out)
	if code != apperrors.ExitSuccess {
		t.Fatalf("Run exit code = %d, want success", code)
	}

	line := strings.TrimSpace(out.String())
	if line == "" || strings.Contains(line, "\n") {
		t.Errorf("quiet run should emit exactly one line, got %q", line)
	}
}

func TestRun_SequentialWithReportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	a := newTestApp(t,
		"-trial", "uniform-int", "-strategy", "sequential",
		"-samples", "500", "-max-iterations", "10", "-threshold", "1e-9",
		"-seed", "3", "-quiet", "-no-color", "-output", path)

	if code := a.Run(context.Background(), io.Discard); code != apperrors.ExitSuccess {
		t.Fatalf("Run exit code = %d, want success", code)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("report file missing: %v", err)
	}
	var rep report.Report
	if err := json.Unmarshal(data, &rep); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
	if rep.Trial != "uniform-int" || rep.Strategy != "sequential" {
		t.Errorf("report provenance = %s/%s, want uniform-int/sequential", rep.Trial, rep.Strategy)
	}
	if rep.NumIterations < 1 || rep.NumIterations > 10 {
		t.Errorf("NumIterations = %d, want within [1, 10]", rep.NumIterations)
	}
}

func TestRun_UnknownTrial(t *testing.T) {
	a := newTestApp(t, "-trial", "pi", "-quiet")
	a.Config.Trial = "roulette" // bypass parse-time validation

	if code := a.Run(context.Background(), io.Discard); code != apperrors.ExitErrorConfig {
		t.Errorf("unknown trial exit code = %d, want %d", code, apperrors.ExitErrorConfig)
	}
}

func TestRun_Calibrate(t *testing.T) {
	profile := filepath.Join(t.TempDir(), "profile.json")
	a := newTestApp(t, "-calibrate", "-samples", "1000", "-no-color", "-calibration-profile", profile)

	var out bytes.Buffer
	if code := a.Run(context.Background(), &out); code != apperrors.ExitSuccess {
		t.Fatalf("calibration exit code = %d, want success", code)
	}
	if !strings.Contains(out.String(), "Calibration Summary") {
		t.Error("calibration should print the results table")
	}
	if _, err := os.Stat(profile); err != nil {
		t.Errorf("calibration should cache a profile: %v", err)
	}
}

func TestApplyCachedCalibration(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profile.json")
	if err := calibration.SaveProfile(path, calibration.Profile{Workers: 3, NumCPU: runtime.NumCPU()}); err != nil {
		t.Fatal(err)
	}

	t.Run("adaptive default is replaced", func(t *testing.T) {
		a := newTestApp(t, "-calibration-profile", path)
		if a.Config.Workers != 3 {
			t.Errorf("Workers = %d, want calibrated 3", a.Config.Workers)
		}
	})

	t.Run("explicit flag wins", func(t *testing.T) {
		a := newTestApp(t, "-calibration-profile", path, "-workers", "2")
		if a.Config.Workers != 2 {
			t.Errorf("Workers = %d, want explicit 2", a.Config.Workers)
		}
	})
}

func TestVersion(t *testing.T) {
	t.Parallel()
	if !HasVersionFlag([]string{"--version"}) || !HasVersionFlag([]string{"-version"}) {
		t.Error("version flags should be detected")
	}
	if HasVersionFlag([]string{"-v"}) {
		t.Error("-v is verbose, not version")
	}

	var buf bytes.Buffer
	PrintVersion(&buf)
	if !strings.Contains(buf.String(), "mcsim") {
		t.Errorf("version banner %q should name the binary", buf.String())
	}
}
