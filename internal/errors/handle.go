package apperrors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// ColorProvider supplies ANSI escape codes for error display. It decouples
// this package from the presentation layer; pass nil for uncolored output.
type ColorProvider interface {
	// Red returns the escape code for error text.
	Red() string
	// Yellow returns the escape code for warning text.
	Yellow() string
	// Reset returns the escape code that clears formatting.
	Reset() string
}

func colors(cp ColorProvider) (red, yellow, reset string) {
	if cp == nil {
		return "", "", ""
	}
	return cp.Red(), cp.Yellow(), cp.Reset()
}

// HandleRunError inspects an error from a simulation run, writes a
// user-facing diagnostic, and returns the process exit code.
//
// Parameters:
//   - err: The error to handle (nil returns ExitSuccess).
//   - duration: How long the run had been going when it failed.
//   - out: The writer for the diagnostic message.
//   - cp: The color provider for the message (nil for plain text).
//
// Returns:
//   - int: The exit code corresponding to the error category.
func HandleRunError(err error, duration time.Duration, out io.Writer, cp ColorProvider) int {
	if err == nil {
		return ExitSuccess
	}
	red, yellow, reset := colors(cp)

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		fmt.Fprintf(out, "%sTimeout: run aborted after %s%s\n", yellow, duration, reset)
		return ExitErrorTimeout

	case errors.Is(err, context.Canceled):
		fmt.Fprintf(out, "%sCanceled after %s%s\n", yellow, duration, reset)
		return ExitErrorCanceled
	}

	var trialErr *TrialError
	if errors.As(err, &trialErr) {
		fmt.Fprintf(out, "%sTrial failure: %v%s\n", red, trialErr, reset)
		return ExitErrorTrial
	}
	var trialVal TrialError
	if errors.As(err, &trialVal) {
		fmt.Fprintf(out, "%sTrial failure: %v%s\n", red, trialVal, reset)
		return ExitErrorTrial
	}

	var cfgErr ConfigError
	if errors.As(err, &cfgErr) {
		fmt.Fprintf(out, "%sConfiguration error: %v%s\n", red, cfgErr, reset)
		return ExitErrorConfig
	}
	var valErr ValidationError
	if errors.As(err, &valErr) {
		fmt.Fprintf(out, "%sConfiguration error: %v%s\n", red, valErr, reset)
		return ExitErrorConfig
	}

	var toErr TimeoutError
	if errors.As(err, &toErr) {
		fmt.Fprintf(out, "%s%v%s\n", yellow, toErr, reset)
		return ExitErrorTimeout
	}

	fmt.Fprintf(out, "%sError: %v%s\n", red, err, reset)
	return ExitErrorGeneric
}
