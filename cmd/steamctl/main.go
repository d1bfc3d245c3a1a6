// Package main queries a running steamworksd.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	steamctlcmd "github.com/louisbranch/steambridge/internal/cmd/steamctl"
	"github.com/louisbranch/steambridge/internal/platform/config"
)

func main() {
	cfg, err := steamctlcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := steamctlcmd.Run(ctx, cfg, os.Stdout, os.Stderr); err != nil {
		config.Exit(err)
	}
}
