// Package steamlua parses the Lua runner flags and runs a script against the
// vendor library.
package steamlua

import (
	"context"
	"errors"
	"flag"
	"io"
	"log"

	entrypoint "github.com/louisbranch/steambridge/internal/platform/cmd"
	"github.com/louisbranch/steambridge/internal/steamworks"
	"github.com/louisbranch/steambridge/internal/steamworks/luabind"
	"github.com/louisbranch/steambridge/internal/steamworks/mainthread"
	"github.com/louisbranch/steambridge/internal/steamworks/vendor"
)

// Config holds steamlua command configuration.
type Config struct {
	Vendor  vendor.Config
	Script  string `env:"LUA_SCRIPT"`
	Verbose bool   `env:"VERBOSE"`
	// Args are passed to the script as arg[1..n].
	Args []string
}

// ParseConfig parses environment and flags into Config. The first positional
// argument names the script when -script is not set; the rest become Args.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.Vendor.SDKDir, "sdk-dir", cfg.Vendor.SDKDir, "Steamworks SDK root holding redist/")
	fs.StringVar(&cfg.Vendor.Library, "library", cfg.Vendor.Library, "explicit path to the steam_api library")
	fs.StringVar(&cfg.Script, "script", cfg.Script, "path to the Lua script")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "log session lifecycle")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	rest := fs.Args()
	if cfg.Script == "" && len(rest) > 0 {
		cfg.Script, rest = rest[0], rest[1:]
	}
	cfg.Args = rest
	return cfg, nil
}

// vendorAPI is the loaded library as the command uses it.
type vendorAPI interface {
	steamworks.API
	Close() error
}

var openVendor = func(cfg vendor.Config) (vendorAPI, error) {
	return vendor.Open(cfg)
}

// Run loads the vendor library and executes the configured script on a
// dedicated OS thread.
func Run(ctx context.Context, cfg Config, errOut io.Writer) error {
	if cfg.Script == "" {
		return errors.New("script path is required")
	}
	if errOut == nil {
		errOut = io.Discard
	}
	logger := log.New(errOut, "", 0)
	sessionLogger := log.New(io.Discard, "", 0)
	if cfg.Verbose {
		sessionLogger = logger
	}

	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceLua, func(ctx context.Context) error {
		api, err := openVendor(cfg.Vendor)
		if err != nil {
			return err
		}
		defer func() {
			if err := api.Close(); err != nil {
				logger.Printf("close vendor library: %v", err)
			}
		}()

		bridge, err := steamworks.New(api, steamworks.Config{Logger: sessionLogger})
		if err != nil {
			return err
		}

		execCtx, stop := context.WithCancel(ctx)
		defer stop()
		exec := mainthread.New()
		go exec.Run(execCtx)

		var runErr error
		if err := exec.Do(ctx, func() {
			runErr = luabind.RunFile(ctx, luabind.RunConfig{Logger: sessionLogger, Args: cfg.Args}, bridge, cfg.Script)
		}); err != nil {
			return err
		}
		return runErr
	})
}
