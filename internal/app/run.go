package app

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/agbru/mcsim/internal/cli"
	"github.com/agbru/mcsim/internal/engine"
	apperrors "github.com/agbru/mcsim/internal/errors"
	"github.com/agbru/mcsim/internal/logging"
	"github.com/agbru/mcsim/internal/metrics"
	"github.com/agbru/mcsim/internal/report"
)

func (a *Application) newEngine() *engine.Engine {
	return engine.New(a.Registry,
		engine.WithLogger(a.Log),
		engine.WithRecorder(a.recorder))
}

func cliColors() apperrors.ColorProvider { return cli.CLIColorProvider{} }

// runSimulation orchestrates the execution of a simulation run: lifecycle
// setup, engine execution, report construction, and presentation.
func (a *Application) runSimulation(ctx context.Context, out io.Writer) int {
	cfg := a.Config

	// Setup lifecycle (timeout + signals)
	ctx, cancelTimeout := context.WithTimeout(ctx, cfg.Timeout)
	defer cancelTimeout()
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	if !cfg.Quiet {
		cli.PrintExecutionConfig(cfg, out)
	}

	// Choose progress reporter based on quiet mode
	var progressReporter engine.ProgressReporter
	progressOut := out
	if cfg.Quiet {
		progressOut = io.Discard
		progressReporter = engine.NullProgressReporter{}
	} else {
		progressReporter = cli.CLIProgressReporter{}
	}

	memCollector := metrics.NewMemoryCollector()
	memBefore := memCollector.Snapshot()
	start := time.Now()

	run, err := a.newEngine().Execute(ctx, cfg, progressReporter, progressOut)
	if err != nil {
		return apperrors.HandleRunError(err, time.Since(start), a.ErrWriter, cliColors())
	}

	memDelta := memCollector.Snapshot().Delta(memBefore)

	// The engine built its own trial instances; this one only supplies the
	// name and reference value for the report.
	metaTrial, err := a.Registry.New(cfg.Trial, cfg, cfg.Seed, cfg.HasSeed)
	if err != nil {
		return apperrors.HandleRunError(err, time.Since(start), a.ErrWriter, cliColors())
	}

	rep := report.Build(run, metaTrial, cfg, Version, memDelta)

	a.Log.Debug("run complete",
		logging.String("trial", rep.Trial),
		logging.Float64("estimate", rep.Estimate),
		logging.Dur("runtime", run.Runtime))

	outputCfg := cli.OutputConfig{
		OutputFile: cfg.OutputFile,
		Quiet:      cfg.Quiet,
		Verbose:    cfg.Verbose,
		Chart:      cfg.Chart,
	}
	if err := cli.DisplayReportWithConfig(out, rep, run, outputCfg); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error saving report: %v\n", err)
		return apperrors.ExitErrorGeneric
	}

	return apperrors.ExitSuccess
}
