package config

import (
	"fmt"
	"os"

	apperrors "github.com/louisbranch/steambridge/internal/platform/errors"
)

// Exit statuses of the bridge commands. Scripts launching a game use them to
// tell a missing platform client apart from a broken install.
const (
	ExitFailure            = 1
	ExitPlatformNotRunning = 3
	ExitLibraryUnavailable = 4
)

// ExitCode maps err to the process exit status.
func ExitCode(err error) int {
	switch apperrors.CodeOf(err) {
	case apperrors.CodePlatformNotRunning:
		return ExitPlatformNotRunning
	case apperrors.CodeLibraryUnavailable:
		return ExitLibraryUnavailable
	default:
		return ExitFailure
	}
}

// Exit writes err to stderr and exits with ExitCode(err).
func Exit(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(ExitCode(err))
}

// Exitf writes a formatted message to stderr and exits with ExitFailure.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(ExitFailure)
}
