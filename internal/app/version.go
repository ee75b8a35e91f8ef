package app

import (
	"fmt"
	"io"
	"runtime"
)

// Version is the application version. It is overridden at build time via
// -ldflags "-X github.com/agbru/mcsim/internal/app.Version=v1.2.3".
var Version = "dev"

// HasVersionFlag reports whether the arguments request the version banner.
//
// Parameters:
//   - args: The command-line arguments (without the program name).
//
// Returns:
//   - bool: true when --version or -version is present.
func HasVersionFlag(args []string) bool {
	for _, arg := range args {
		if arg == "--version" || arg == "-version" {
			return true
		}
	}
	return false
}

// PrintVersion writes the version banner.
//
// Parameters:
//   - out: The output writer.
func PrintVersion(out io.Writer) {
	fmt.Fprintf(out, "mcsim %s (%s, %s/%s)\n", Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
