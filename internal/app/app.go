// Package app wires configuration, trials, the engine, and the presentation
// layer into the runnable mcsim application.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/agbru/mcsim/internal/calibration"
	"github.com/agbru/mcsim/internal/config"
	apperrors "github.com/agbru/mcsim/internal/errors"
	"github.com/agbru/mcsim/internal/logging"
	"github.com/agbru/mcsim/internal/metrics"
	"github.com/agbru/mcsim/internal/trial"
	"github.com/agbru/mcsim/internal/ui"
)

// Application represents the mcsim application instance.
type Application struct {
	Config    config.SimConfig
	Registry  *trial.Registry
	Log       logging.Logger
	ErrWriter io.Writer

	recorder *metrics.Recorder
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithRegistry sets a custom trial registry for the application.
func WithRegistry(r *trial.Registry) AppOption {
	return func(a *Application) { a.Registry = r }
}

// WithLogger sets a custom logger for the application.
func WithLogger(log logging.Logger) AppOption {
	return func(a *Application) { a.Log = log }
}

// WithRecorder sets a custom metrics recorder (nil disables metrics).
func WithRecorder(r *metrics.Recorder) AppOption {
	return func(a *Application) { a.recorder = r }
}

// New creates a new Application instance by parsing command-line arguments.
//
// Parameters:
//   - args: The full command line including the program name (os.Args).
//   - errWriter: The writer for flag-parsing error output.
//   - opts: Optional overrides for registry, logger, and metrics.
//
// Returns:
//   - *Application: The constructed application.
//   - error: A parse or validation error (flag.ErrHelp when --help was used).
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter}
	for _, opt := range opts {
		opt(app)
	}
	if app.Registry == nil {
		app.Registry = trial.NewDefaultRegistry()
	}
	if app.Log == nil {
		app.Log = logging.NewDefaultLogger()
	}
	if app.recorder == nil {
		app.recorder = metrics.NewRecorder(prometheus.DefaultRegisterer)
	}

	programName := "mcsim"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter)
	if err != nil {
		return nil, err
	}

	app.Config = applyCachedCalibration(cfg)
	return app, nil
}

// applyCachedCalibration replaces the adaptive worker default with a cached
// calibration result when a valid profile exists. Explicit worker settings
// always win.
func applyCachedCalibration(cfg config.SimConfig) config.SimConfig {
	if cfg.WorkersSet || cfg.Calibrate {
		return cfg
	}

	path := cfg.CalibrationProfile
	if path == "" {
		var err error
		path, err = calibration.DefaultProfilePath()
		if err != nil {
			return cfg
		}
	}

	profile, err := calibration.LoadProfile(path)
	if err != nil || profile == nil {
		return cfg
	}
	return config.ApplyCalibratedWorkers(cfg, profile.Workers)
}

// Run executes the application based on the configured mode.
//
// Parameters:
//   - ctx: The root context.
//   - out: The writer for user-facing output.
//
// Returns:
//   - int: The process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	switch {
	case a.Config.Verbose:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case a.Config.Quiet:
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	ui.InitTheme(a.Config.NoColor)

	if a.Config.Calibrate {
		return a.runCalibration(ctx, out)
	}

	return a.runSimulation(ctx, out)
}

// runCalibration runs the worker-count calibration mode.
func (a *Application) runCalibration(ctx context.Context, out io.Writer) int {
	eng := a.newEngine()

	path := a.Config.CalibrationProfile
	if path == "" {
		var err error
		path, err = calibration.DefaultProfilePath()
		if err != nil {
			fmt.Fprintf(a.ErrWriter, "Warning: %v (profile will not be cached)\n", err)
			path = ""
		}
	}

	if _, err := calibration.RunCalibration(ctx, eng, a.Config, path, out); err != nil {
		return apperrors.HandleRunError(err, 0, a.ErrWriter, cliColors())
	}
	return apperrors.ExitSuccess
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
