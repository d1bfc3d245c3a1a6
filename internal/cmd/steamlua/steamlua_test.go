package steamlua

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/louisbranch/steambridge/internal/platform/config"
	apperrors "github.com/louisbranch/steambridge/internal/platform/errors"
	"github.com/louisbranch/steambridge/internal/steamworks/vendor"
	"github.com/louisbranch/steambridge/internal/testkit/steamfakes"
)

func TestParseConfigDefaults(t *testing.T) {
	t.Setenv("STEAMBRIDGE_SDK_DIR", "/opt/steamworks")
	fs := flag.NewFlagSet("steamlua", flag.ContinueOnError)

	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Vendor.SDKDir != "/opt/steamworks" {
		t.Fatalf("sdk dir = %q", cfg.Vendor.SDKDir)
	}
	if cfg.Vendor.Versions.User != "v023" || cfg.Vendor.Versions.Input != "v006" {
		t.Fatalf("versions = %+v", cfg.Vendor.Versions)
	}
	if cfg.Script != "" || cfg.Verbose {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestParseConfigPositionalScript(t *testing.T) {
	fs := flag.NewFlagSet("steamlua", flag.ContinueOnError)

	cfg, err := ParseConfig(fs, []string{"-verbose", "probe.lua", "480", "fast"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Script != "probe.lua" {
		t.Fatalf("script = %q", cfg.Script)
	}
	if len(cfg.Args) != 2 || cfg.Args[0] != "480" || cfg.Args[1] != "fast" {
		t.Fatalf("args = %v", cfg.Args)
	}
	if !cfg.Verbose {
		t.Fatal("verbose not set")
	}
}

func TestParseConfigFlagOverridesEnv(t *testing.T) {
	t.Setenv("STEAMBRIDGE_LUA_SCRIPT", "env.lua")
	t.Setenv("STEAMBRIDGE_STEAMUSER_VERSION", "v099")
	fs := flag.NewFlagSet("steamlua", flag.ContinueOnError)

	cfg, err := ParseConfig(fs, []string{"-script", "flag.lua", "extra"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Script != "flag.lua" {
		t.Fatalf("script = %q", cfg.Script)
	}
	if len(cfg.Args) != 1 || cfg.Args[0] != "extra" {
		t.Fatalf("args = %v", cfg.Args)
	}
	if cfg.Vendor.Versions.User != "v099" {
		t.Fatalf("user version = %q", cfg.Vendor.Versions.User)
	}
}

func TestRunRequiresScript(t *testing.T) {
	if err := Run(context.Background(), Config{}, nil); err == nil {
		t.Fatal("expected error")
	}
}

type closingAPI struct {
	*steamfakes.API
	closed bool
}

func (c *closingAPI) Close() error {
	c.closed = true
	return nil
}

func stubVendor(t *testing.T, api vendorAPI, err error) {
	t.Helper()
	previous := openVendor
	openVendor = func(vendor.Config) (vendorAPI, error) { return api, err }
	t.Cleanup(func() { openVendor = previous })
}

func TestRunExecutesScript(t *testing.T) {
	api := &closingAPI{API: steamfakes.NewAPI()}
	stubVendor(t, api, nil)
	t.Setenv("SteamAppId", "")
	_ = os.Unsetenv("SteamAppId")

	dir := t.TempDir()
	script := filepath.Join(dir, "probe.lua")
	source := `
		assert(steamworks.is_steam_running())
		local client = steamworks.init(tonumber(arg[1]))
		assert(client:get_steamid() == "76561197960287930")
	`
	if err := os.WriteFile(script, []byte(source), 0o600); err != nil {
		t.Fatalf("write script: %v", err)
	}

	var errOut bytes.Buffer
	err := Run(context.Background(), Config{Script: script, Args: []string{"480"}, Verbose: true}, &errOut)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !api.closed {
		t.Fatal("vendor library not closed")
	}
	if api.Count("Shutdown") != 1 {
		t.Fatalf("leftover session not shut down: %v", api.Calls())
	}
	if !strings.Contains(errOut.String(), "client session initialized") {
		t.Fatalf("verbose log missing: %q", errOut.String())
	}
	if _, set := os.LookupEnv("SteamAppId"); set {
		t.Fatal("SteamAppId left in environment")
	}
}

func TestRunReportsVendorLoadFailure(t *testing.T) {
	loadErr := apperrors.New(apperrors.CodeLibraryUnavailable, "load vendor library: open")
	stubVendor(t, nil, loadErr)

	err := Run(context.Background(), Config{Script: "unused.lua"}, nil)
	if !errors.Is(err, loadErr) {
		t.Fatalf("err = %v, want library unavailable", err)
	}
}

func TestRunScriptFailureKeepsBridgeCode(t *testing.T) {
	fake := steamfakes.NewAPI()
	fake.Running = false
	stubVendor(t, &closingAPI{API: fake}, nil)

	script := filepath.Join(t.TempDir(), "init.lua")
	if err := os.WriteFile(script, []byte("steamworks.init()\n"), 0o600); err != nil {
		t.Fatalf("write script: %v", err)
	}

	err := Run(context.Background(), Config{Script: script}, nil)
	if err == nil {
		t.Fatal("expected script failure")
	}
	if code := apperrors.CodeOf(err); code != apperrors.CodePlatformNotRunning {
		t.Fatalf("code = %s, want %s (err %v)", code, apperrors.CodePlatformNotRunning, err)
	}
	if got := config.ExitCode(err); got != config.ExitPlatformNotRunning {
		t.Fatalf("exit code = %d, want %d", got, config.ExitPlatformNotRunning)
	}
}
