package rpc

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"

	apperrors "github.com/louisbranch/steambridge/internal/platform/errors"
	platformgrpc "github.com/louisbranch/steambridge/internal/platform/grpc"
	"github.com/louisbranch/steambridge/internal/steamworks"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Runner executes fn on the thread that owns the vendor session.
type Runner interface {
	Do(ctx context.Context, fn func()) error
}

type directRunner struct{}

func (directRunner) Do(ctx context.Context, fn func()) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fn()
	return nil
}

// Service implements BridgeServiceServer over one session kind.
type Service struct {
	bridge *steamworks.Bridge
	kind   steamworks.Kind
	runner Runner
}

// NewService creates a service answering for the session of the given kind.
// A nil runner calls the bridge on the handler goroutine.
func NewService(bridge *steamworks.Bridge, kind steamworks.Kind, runner Runner) *Service {
	if runner == nil {
		runner = directRunner{}
	}
	return &Service{bridge: bridge, kind: kind, runner: runner}
}

// do runs fn through the runner and maps the first error to a gRPC status.
func (s *Service) do(ctx context.Context, fn func() error) error {
	var callErr error
	if err := s.runner.Do(ctx, func() { callErr = fn() }); err != nil {
		return apperrors.HandleError(err)
	}
	return apperrors.HandleError(callErr)
}

func (s *Service) IsSteamRunning(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.BoolValue, error) {
	var running bool
	err := s.do(ctx, func() error {
		running = s.bridge.IsSteamRunning()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return wrapperspb.Bool(running), nil
}

func (s *Service) GetSteamID(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.UInt64Value, error) {
	var id steamworks.SteamID
	err := s.do(ctx, func() error {
		session, err := s.bridge.ActiveSession(s.kind)
		if err != nil {
			return err
		}
		id, err = session.SteamID()
		return err
	})
	if err != nil {
		return nil, err
	}
	return wrapperspb.UInt64(uint64(id)), nil
}

func (s *Service) Query(ctx context.Context, in *wrapperspb.StringValue) (*structpb.Value, error) {
	var value any
	err := s.do(ctx, func() error {
		session, err := s.bridge.ActiveSession(s.kind)
		if err != nil {
			return err
		}
		value, err = session.Utils().Query(in.GetValue())
		return err
	})
	if err != nil {
		return nil, err
	}
	out, err := toValue(value)
	if err != nil {
		return nil, apperrors.HandleError(fmt.Errorf("encode %s: %w", in.GetValue(), err))
	}
	return out, nil
}

func (s *Service) Snapshot(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	var snapshot map[string]any
	err := s.do(ctx, func() error {
		session, err := s.bridge.ActiveSession(s.kind)
		if err != nil {
			return err
		}
		snapshot, err = session.Utils().Snapshot()
		return err
	})
	if err != nil {
		return nil, err
	}
	out := &structpb.Struct{Fields: make(map[string]*structpb.Value, len(snapshot))}
	for name, value := range snapshot {
		v, err := toValue(value)
		if err != nil {
			return nil, apperrors.HandleError(fmt.Errorf("encode %s: %w", name, err))
		}
		out.Fields[name] = v
	}
	return out, nil
}

// toValue encodes the scalar kinds utility queries return.
func toValue(value any) (*structpb.Value, error) {
	switch v := value.(type) {
	case bool:
		return structpb.NewBoolValue(v), nil
	case string:
		return structpb.NewStringValue(v), nil
	case uint8:
		return structpb.NewNumberValue(float64(v)), nil
	case int32:
		return structpb.NewNumberValue(float64(v)), nil
	case uint32:
		return structpb.NewNumberValue(float64(v)), nil
	default:
		return nil, fmt.Errorf("unsupported result type %T", value)
	}
}

// Server hosts the bridge service with health reporting.
type Server struct {
	listener   net.Listener
	grpcServer *grpc.Server
	health     *health.Server
}

// NewServer listens on addr and registers svc.
func NewServer(addr string, svc BridgeServiceServer) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}
	grpcServer := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	RegisterBridgeServiceServer(grpcServer, svc)
	hs := platformgrpc.RegisterHealth(grpcServer, ServiceName)
	return &Server{listener: listener, grpcServer: grpcServer, health: hs}, nil
}

// Addr returns the listener address.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Serve handles requests until ctx is canceled, then stops gracefully.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil {
		return errors.New("server is nil")
	}
	defer s.Close()

	log.Printf("bridge server listening at %v", s.listener.Addr())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.grpcServer.Serve(s.listener)
	}()

	select {
	case <-ctx.Done():
		s.health.Shutdown()
		s.grpcServer.GracefulStop()
		return serveResult(<-serveErr)
	case err := <-serveErr:
		return serveResult(err)
	}
}

func serveResult(err error) error {
	if err == nil || errors.Is(err, grpc.ErrServerStopped) {
		return nil
	}
	return fmt.Errorf("serve gRPC: %w", err)
}

// Close stops the server and releases the listener.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.health != nil {
		s.health.Shutdown()
	}
	if s.grpcServer != nil {
		s.grpcServer.Stop()
	}
	if s.listener != nil {
		_ = s.listener.Close()
	}
}
