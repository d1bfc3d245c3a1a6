// Package cmd holds startup helpers shared by the bridge commands.
package cmd

import (
	"context"
	"errors"
	"flag"
	"log"
	"strings"

	"github.com/louisbranch/steambridge/internal/platform/config"
	"github.com/louisbranch/steambridge/internal/platform/otel"
	"github.com/louisbranch/steambridge/internal/platform/timeouts"

	gootel "go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
)

// Service identifiers, used as telemetry service names.
const (
	ServiceLua    = "steamlua"
	ServiceDaemon = "steamworksd"
	ServiceCtl    = "steamctl"
)

// ParseConfig loads environment defaults into cfg. Flags bound afterwards
// override them.
func ParseConfig[T any](cfg *T) error {
	if cfg == nil {
		return errors.New("config target is required")
	}
	return config.ParseEnv(cfg)
}

// ParseArgs parses command-line flags.
func ParseArgs(fs *flag.FlagSet, args []string) error {
	if fs == nil {
		return errors.New("flag parser is required")
	}
	if args == nil {
		args = []string{}
	}
	return fs.Parse(args)
}

// RunWithTelemetry installs tracing for service, runs run inside a root span
// named "<service>.run", and flushes spans before returning.
func RunWithTelemetry(ctx context.Context, service string, run func(context.Context) error, attrs ...attribute.KeyValue) error {
	service = strings.TrimSpace(service)
	if service == "" {
		return errors.New("service name is required")
	}
	if run == nil {
		return errors.New("run function is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	shutdown, err := otel.Setup(ctx, service, attrs...)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), timeouts.TelemetryShutdown)
		defer cancel()
		if err := shutdown(flushCtx); err != nil {
			log.Printf("%s: flush spans: %v", service, err)
		}
	}()

	ctx, span := gootel.Tracer("github.com/louisbranch/steambridge/cmd/"+service).Start(ctx, service+".run")
	defer span.End()
	if err := run(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return err
	}
	return nil
}
