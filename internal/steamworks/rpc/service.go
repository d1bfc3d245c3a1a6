// Package rpc serves one steamworks session over gRPC so processes that do
// not own the vendor session can still query it.
//
// The service is declared by hand over protobuf well-known types:
//
//	service BridgeService {
//	  rpc IsSteamRunning(google.protobuf.Empty) returns (google.protobuf.BoolValue);
//	  rpc GetSteamID(google.protobuf.Empty) returns (google.protobuf.UInt64Value);
//	  rpc Query(google.protobuf.StringValue) returns (google.protobuf.Value);
//	  rpc Snapshot(google.protobuf.Empty) returns (google.protobuf.Struct);
//	}
package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "steamworks.v1.BridgeService"

const (
	IsSteamRunningMethod = "/" + ServiceName + "/IsSteamRunning"
	GetSteamIDMethod     = "/" + ServiceName + "/GetSteamID"
	QueryMethod          = "/" + ServiceName + "/Query"
	SnapshotMethod       = "/" + ServiceName + "/Snapshot"
)

// BridgeServiceServer is the server API for BridgeService.
type BridgeServiceServer interface {
	IsSteamRunning(context.Context, *emptypb.Empty) (*wrapperspb.BoolValue, error)
	GetSteamID(context.Context, *emptypb.Empty) (*wrapperspb.UInt64Value, error)
	Query(context.Context, *wrapperspb.StringValue) (*structpb.Value, error)
	Snapshot(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

// RegisterBridgeServiceServer registers srv on s.
func RegisterBridgeServiceServer(s grpc.ServiceRegistrar, srv BridgeServiceServer) {
	s.RegisterService(&BridgeServiceDesc, srv)
}

// BridgeServiceDesc is the grpc.ServiceDesc for BridgeService.
var BridgeServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BridgeServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "IsSteamRunning",
			Handler: unaryHandler(IsSteamRunningMethod, func(srv BridgeServiceServer, ctx context.Context, in *emptypb.Empty) (*wrapperspb.BoolValue, error) {
				return srv.IsSteamRunning(ctx, in)
			}),
		},
		{
			MethodName: "GetSteamID",
			Handler: unaryHandler(GetSteamIDMethod, func(srv BridgeServiceServer, ctx context.Context, in *emptypb.Empty) (*wrapperspb.UInt64Value, error) {
				return srv.GetSteamID(ctx, in)
			}),
		},
		{
			MethodName: "Query",
			Handler: unaryHandler(QueryMethod, func(srv BridgeServiceServer, ctx context.Context, in *wrapperspb.StringValue) (*structpb.Value, error) {
				return srv.Query(ctx, in)
			}),
		},
		{
			MethodName: "Snapshot",
			Handler: unaryHandler(SnapshotMethod, func(srv BridgeServiceServer, ctx context.Context, in *emptypb.Empty) (*structpb.Struct, error) {
				return srv.Snapshot(ctx, in)
			}),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "steamworks/v1/bridge.proto",
}

// unaryHandler builds the decode-intercept-dispatch function generated code
// emits for each unary method.
func unaryHandler[Req proto.Message, Resp proto.Message](fullMethod string, call func(BridgeServiceServer, context.Context, Req) (Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := newMessage[Req]()
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(BridgeServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(BridgeServiceServer), ctx, req.(Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// newMessage allocates the concrete message behind a pointer type parameter.
func newMessage[M proto.Message]() M {
	var zero M
	return zero.ProtoReflect().Type().New().Interface().(M)
}
