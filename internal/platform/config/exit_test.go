package config_test

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/louisbranch/steambridge/internal/platform/config"
	apperrors "github.com/louisbranch/steambridge/internal/platform/errors"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{err: fmt.Errorf("init: %w", apperrors.New(apperrors.CodePlatformNotRunning, "not running")), want: config.ExitPlatformNotRunning},
		{err: apperrors.New(apperrors.CodeLibraryUnavailable, "missing"), want: config.ExitLibraryUnavailable},
		{err: apperrors.New(apperrors.CodeInitFailed, "vendor returned false"), want: config.ExitFailure},
		{err: fmt.Errorf("plain"), want: config.ExitFailure},
	}
	for _, tt := range tests {
		if got := config.ExitCode(tt.err); got != tt.want {
			t.Fatalf("exit code(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

// os.Exit cannot be intercepted in-process, so the exit tests re-run the test
// binary.
func runSubprocess(t *testing.T, name string) (string, int) {
	t.Helper()
	cmd := exec.Command(os.Args[0], "-test.run=^"+name+"$")
	cmd.Env = append(os.Environ(), "TEST_EXIT_SUBPROCESS=1")
	out, err := cmd.CombinedOutput()
	exitErr, ok := err.(*exec.ExitError)
	if !ok {
		t.Fatalf("expected *exec.ExitError, got %T: %v", err, err)
	}
	return string(out), exitErr.ExitCode()
}

func TestExitf(t *testing.T) {
	if os.Getenv("TEST_EXIT_SUBPROCESS") == "1" {
		config.Exitf("fatal: %s", "bad flags")
		return
	}
	out, code := runSubprocess(t, "TestExitf")
	if code != config.ExitFailure {
		t.Fatalf("exit code = %d, want %d", code, config.ExitFailure)
	}
	if !strings.Contains(out, "fatal: bad flags") {
		t.Fatalf("stderr = %q", out)
	}
}

func TestExit(t *testing.T) {
	if os.Getenv("TEST_EXIT_SUBPROCESS") == "1" {
		config.Exit(apperrors.New(apperrors.CodePlatformNotRunning, "client init: platform client is not running"))
		return
	}
	out, code := runSubprocess(t, "TestExit")
	if code != config.ExitPlatformNotRunning {
		t.Fatalf("exit code = %d, want %d", code, config.ExitPlatformNotRunning)
	}
	if !strings.Contains(out, "Error: client init: platform client is not running") {
		t.Fatalf("stderr = %q", out)
	}
}
