// Package main serves one Steamworks session over gRPC.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	steamworksdcmd "github.com/louisbranch/steambridge/internal/cmd/steamworksd"
	"github.com/louisbranch/steambridge/internal/platform/config"
)

func main() {
	cfg, err := steamworksdcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[STEAMWORKSD] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := steamworksdcmd.Run(ctx, cfg); err != nil {
		log.Printf("failed to serve: %v", err)
		os.Exit(config.ExitCode(err))
	}
}
