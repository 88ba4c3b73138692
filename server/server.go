// Package server exposes the uwu compiler over Connect (HTTP/JSON and
// binary protobuf), plain gRPC, and the Language Server Protocol.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"connectrpc.com/connect"
	"github.com/tliron/commonlog"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/chazu/uwu/build"
)

var log = commonlog.GetLogger("uwu.server")

// UwuServer serves the compile and session services. Connect handlers
// share one HTTP mux; gRPC runs on its own listener when started.
type UwuServer struct {
	compile  *CompileService
	sessions *SessionStore
	mux      *http.ServeMux

	mu         sync.Mutex
	httpServer *http.Server
	grpcServer *grpc.Server

	stopSweeper func()
}

// ServerOption configures an UwuServer.
type ServerOption func(*serverConfig)

type serverConfig struct {
	sessionTTL    time.Duration
	sweepInterval time.Duration
}

// WithSessionTTL sets how long an idle session lives and how often idle
// sessions are swept.
func WithSessionTTL(ttl, interval time.Duration) ServerOption {
	return func(c *serverConfig) {
		c.sessionTTL = ttl
		c.sweepInterval = interval
	}
}

// New creates an UwuServer compiling through b.
func New(b *build.Builder, opts ...ServerOption) *UwuServer {
	cfg := &serverConfig{
		sessionTTL:    30 * time.Minute,
		sweepInterval: 5 * time.Minute,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	s := &UwuServer{
		compile:  NewCompileService(b),
		sessions: NewSessionStore(),
		mux:      http.NewServeMux(),
	}

	sessionSvc := NewSessionService(s.sessions, b.Globals)

	s.handleUnary(CompileProcedure, s.compile.Compile)
	s.handleUnary(CheckSyntaxProcedure, s.compile.CheckSyntax)
	s.handleUnary(CreateSessionProcedure, sessionSvc.CreateSession)
	s.handleUnary(CompileInSessionProcedure, sessionSvc.CompileInSession)
	s.handleUnary(CloseSessionProcedure, sessionSvc.CloseSession)

	s.stopSweeper = s.sessions.StartSweeper(cfg.sweepInterval, cfg.sessionTTL)

	return s
}

func (s *UwuServer) handleUnary(
	procedure string,
	fn func(context.Context, *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error),
) {
	s.mux.Handle(procedure, connect.NewUnaryHandler(procedure, fn))
}

// Handler returns the HTTP handler serving the Connect services.
func (s *UwuServer) Handler() http.Handler {
	return s.mux
}

// Sessions returns the server's session store.
func (s *UwuServer) Sessions() *SessionStore {
	return s.sessions
}

// ListenAndServe starts the HTTP server on the given address.
// The address should be in the form "host:port" or ":port".
func (s *UwuServer) ListenAndServe(addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.mux}
	s.mu.Lock()
	s.httpServer = srv
	s.mu.Unlock()

	log.Infof("uwu server listening on %s", addr)
	log.Infof("  Connect (HTTP/JSON): http://%s%s", addr, CompileProcedure)
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// ServeGRPC serves the compile service over gRPC on addr. It blocks until
// the listener fails or Stop is called.
func (s *UwuServer) ServeGRPC(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	log.Infof("  gRPC (binary):       grpc://%s", lis.Addr())
	return s.ServeGRPCListener(lis)
}

// ServeGRPCListener serves gRPC on an existing listener.
func (s *UwuServer) ServeGRPCListener(lis net.Listener) error {
	gs := grpc.NewServer()
	RegisterCompileServer(gs, s.compile.GRPC())

	s.mu.Lock()
	s.grpcServer = gs
	s.mu.Unlock()

	return gs.Serve(lis)
}

// Stop shuts down the server.
func (s *UwuServer) Stop() {
	if s.stopSweeper != nil {
		s.stopSweeper()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.grpcServer != nil {
		s.grpcServer.GracefulStop()
	}
	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Warningf("http shutdown: %s", err)
		}
	}
}
