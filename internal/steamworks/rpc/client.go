package rpc

import (
	"context"
	"time"

	apperrors "github.com/louisbranch/steambridge/internal/platform/errors"
	platformgrpc "github.com/louisbranch/steambridge/internal/platform/grpc"
	"github.com/louisbranch/steambridge/internal/steamworks"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Client calls a remote BridgeService. Errors carrying bridge details come
// back as *errors.Error with the original code.
type Client struct {
	conn *grpc.ClientConn
}

// Dial connects to addr and waits for the service to report healthy.
func Dial(ctx context.Context, addr string, timeout time.Duration, logf func(string, ...any)) (*Client, error) {
	conn, err := platformgrpc.DialWithHealth(ctx, addr, ServiceName, timeout, logf)
	if err != nil {
		return nil, err
	}
	return NewClient(conn), nil
}

// NewClient wraps an existing connection.
func NewClient(conn *grpc.ClientConn) *Client {
	return &Client{conn: conn}
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) invoke(ctx context.Context, method string, in, out any) error {
	return apperrors.FromGRPC(c.conn.Invoke(ctx, method, in, out))
}

// IsSteamRunning probes the platform client on the daemon host.
func (c *Client) IsSteamRunning(ctx context.Context) (bool, error) {
	out := new(wrapperspb.BoolValue)
	if err := c.invoke(ctx, IsSteamRunningMethod, &emptypb.Empty{}, out); err != nil {
		return false, err
	}
	return out.GetValue(), nil
}

// SteamID returns the id of the daemon's session.
func (c *Client) SteamID(ctx context.Context) (steamworks.SteamID, error) {
	out := new(wrapperspb.UInt64Value)
	if err := c.invoke(ctx, GetSteamIDMethod, &emptypb.Empty{}, out); err != nil {
		return 0, err
	}
	return steamworks.SteamID(out.GetValue()), nil
}

// Query runs one utility query by name. Numbers come back as float64.
func (c *Client) Query(ctx context.Context, name string) (any, error) {
	out := new(structpb.Value)
	if err := c.invoke(ctx, QueryMethod, wrapperspb.String(name), out); err != nil {
		return nil, err
	}
	return out.AsInterface(), nil
}

// Snapshot returns every utility query result keyed by name.
func (c *Client) Snapshot(ctx context.Context) (map[string]any, error) {
	out := new(structpb.Struct)
	if err := c.invoke(ctx, SnapshotMethod, &emptypb.Empty{}, out); err != nil {
		return nil, err
	}
	return out.AsMap(), nil
}
