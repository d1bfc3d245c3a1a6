// Package main runs a Lua script with the Steamworks bridge loaded.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	steamluacmd "github.com/louisbranch/steambridge/internal/cmd/steamlua"
	"github.com/louisbranch/steambridge/internal/platform/config"
)

func main() {
	cfg, err := steamluacmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := steamluacmd.Run(ctx, cfg, os.Stderr); err != nil {
		config.Exit(err)
	}
}
