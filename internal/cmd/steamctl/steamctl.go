// Package steamctl queries a running steamworksd over gRPC.
package steamctl

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"sort"
	"time"

	entrypoint "github.com/louisbranch/steambridge/internal/platform/cmd"
	"github.com/louisbranch/steambridge/internal/platform/timeouts"
	"github.com/louisbranch/steambridge/internal/steamworks"
	"github.com/louisbranch/steambridge/internal/steamworks/rpc"
)

// Commands understood by steamctl.
const (
	CommandSnapshot = "snapshot"
	CommandSteamID  = "steamid"
	CommandRunning  = "running"
	CommandQuery    = "query"
)

// Config holds steamctl command configuration.
type Config struct {
	Addr    string        `env:"ADDR" envDefault:"localhost:8095"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"2s"`
	Verbose bool          `env:"VERBOSE"`

	Command string
	Query   string
}

// ParseConfig parses environment, flags and the positional command.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "steamworksd address")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "dial timeout")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "log dial progress")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}

	rest := fs.Args()
	cfg.Command = CommandSnapshot
	if len(rest) > 0 {
		cfg.Command, rest = rest[0], rest[1:]
	}
	switch cfg.Command {
	case CommandSnapshot, CommandSteamID, CommandRunning:
	case CommandQuery:
		if len(rest) == 0 {
			return Config{}, errors.New("query requires a name, one of the utility query names")
		}
		cfg.Query, rest = rest[0], rest[1:]
	default:
		return Config{}, fmt.Errorf("unknown command %q", cfg.Command)
	}
	if len(rest) > 0 {
		return Config{}, fmt.Errorf("unexpected arguments %v", rest)
	}
	return cfg, nil
}

// Run executes the configured command against the daemon and prints the
// result to out.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	logger := log.New(errOut, "", 0)
	logf := func(string, ...any) {}
	if cfg.Verbose {
		logf = logger.Printf
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = timeouts.GRPCDial
	}

	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceCtl, func(ctx context.Context) error {
		client, err := rpc.Dial(ctx, cfg.Addr, timeout, logf)
		if err != nil {
			return err
		}
		defer client.Close()

		callCtx, cancel := context.WithTimeout(ctx, timeouts.GRPCRequest)
		defer cancel()
		return execute(callCtx, client, cfg, out)
	})
}

func execute(ctx context.Context, client *rpc.Client, cfg Config, out io.Writer) error {
	switch cfg.Command {
	case CommandRunning:
		running, err := client.IsSteamRunning(ctx)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, running)
		return err
	case CommandSteamID:
		id, err := client.SteamID(ctx)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, "%s (account %d, universe %s)\n", id, id.AccountID(), id.Universe())
		return err
	case CommandQuery:
		value, err := client.Query(ctx, cfg.Query)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, formatValue(cfg.Query, value))
		return err
	default:
		snapshot, err := client.Snapshot(ctx)
		if err != nil {
			return err
		}
		names := make([]string, 0, len(snapshot))
		for name := range snapshot {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if _, err := fmt.Fprintf(out, "%s: %s\n", name, formatValue(name, snapshot[name])); err != nil {
				return err
			}
		}
		return nil
	}
}

// formatValue prints numbers without a fraction and names the universe.
func formatValue(name string, value any) string {
	n, ok := value.(float64)
	if !ok {
		return fmt.Sprint(value)
	}
	if name == steamworks.QueryConnectedUniverse {
		return fmt.Sprintf("%d (%s)", int64(n), steamworks.Universe(int32(n)))
	}
	return fmt.Sprintf("%d", int64(n))
}
