package server

import (
	"context"
	"errors"

	"connectrpc.com/connect"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// CompileServer is the gRPC form of CompileService.
type CompileServer interface {
	Compile(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CheckSyntax(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterCompileServer registers srv on a gRPC server under the same
// service name the Connect handlers use.
func RegisterCompileServer(s grpc.ServiceRegistrar, srv CompileServer) {
	s.RegisterService(&compileServiceDesc, srv)
}

var compileServiceDesc = grpc.ServiceDesc{
	ServiceName: CompileServiceName,
	HandlerType: (*CompileServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Compile", Handler: compileHandler},
		{MethodName: "CheckSyntax", Handler: checkSyntaxHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "uwu/v1/compile.proto",
}

func compileHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CompileServer).Compile(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: CompileProcedure}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CompileServer).Compile(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func checkSyntaxHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CompileServer).CheckSyntax(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: CheckSyntaxProcedure}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CompileServer).CheckSyntax(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// GRPC adapts the service to CompileServer.
func (s *CompileService) GRPC() CompileServer {
	return grpcCompileServer{s}
}

type grpcCompileServer struct {
	svc *CompileService
}

func (g grpcCompileServer) Compile(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	out, err := g.svc.compile(ctx, in)
	return out, grpcError(err)
}

func (g grpcCompileServer) CheckSyntax(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	out, err := g.svc.checkSyntax(in)
	return out, grpcError(err)
}

// grpcError converts a Connect error to a gRPC status. The two protocols
// share code numbering.
func grpcError(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	var ce *connect.Error
	if errors.As(err, &ce) {
		msg = ce.Message()
	}
	return status.Error(codes.Code(connect.CodeOf(err)), msg)
}

// CompileClient calls CompileService over a gRPC connection.
type CompileClient struct {
	cc grpc.ClientConnInterface
}

// NewCompileClient creates a client on an existing connection.
func NewCompileClient(cc grpc.ClientConnInterface) *CompileClient {
	return &CompileClient{cc: cc}
}

// Compile invokes CompileService.Compile.
func (c *CompileClient) Compile(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, CompileProcedure, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// CheckSyntax invokes CompileService.CheckSyntax.
func (c *CompileClient) CheckSyntax(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, CheckSyntaxProcedure, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
