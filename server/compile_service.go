package server

import (
	"context"
	"errors"
	"fmt"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/chazu/uwu/build"
	"github.com/chazu/uwu/compiler"
	"github.com/chazu/uwu/compiler/hash"
)

// Service and procedure names. Messages are google.protobuf.Struct values,
// so both the Connect and gRPC transports work without generated stubs.
const (
	CompileServiceName = "uwu.v1.CompileService"
	SessionServiceName = "uwu.v1.SessionService"

	CompileProcedure          = "/" + CompileServiceName + "/Compile"
	CheckSyntaxProcedure      = "/" + CompileServiceName + "/CheckSyntax"
	CreateSessionProcedure    = "/" + SessionServiceName + "/CreateSession"
	CompileInSessionProcedure = "/" + SessionServiceName + "/CompileInSession"
	CloseSessionProcedure     = "/" + SessionServiceName + "/CloseSession"
)

// CompileService compiles standalone sources through a build.Builder, so
// results are shared with the artifact cache.
type CompileService struct {
	builder *build.Builder
}

// NewCompileService creates a CompileService.
func NewCompileService(b *build.Builder) *CompileService {
	return &CompileService{builder: b}
}

// Compile translates source to JavaScript.
//
// Request:  {source: string, globals?: [string]}
// Response: {output: string, hash: string, cached: bool}
func (s *CompileService) Compile(
	ctx context.Context,
	req *connect.Request[structpb.Struct],
) (*connect.Response[structpb.Struct], error) {
	out, err := s.compile(ctx, req.Msg)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(out), nil
}

// CheckSyntax parses source without generating code.
//
// Request:  {source: string}
// Response: {valid: bool, incomplete: bool, errors: [string]}
func (s *CompileService) CheckSyntax(
	ctx context.Context,
	req *connect.Request[structpb.Struct],
) (*connect.Response[structpb.Struct], error) {
	out, err := s.checkSyntax(req.Msg)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(out), nil
}

func (s *CompileService) compile(ctx context.Context, msg *structpb.Struct) (*structpb.Struct, error) {
	source := stringField(msg, "source")
	if source == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("source is required"))
	}

	b := s.builder
	if extra := stringListField(msg, "globals"); len(extra) > 0 {
		withGlobals := *s.builder
		withGlobals.Globals = append(append([]string(nil), s.builder.Globals...), extra...)
		b = &withGlobals
	}

	res, err := b.CompileSource(ctx, source)
	if err != nil {
		return nil, compileError(err)
	}

	return newStruct(map[string]any{
		"output": res.Output,
		"hash":   hash.Hex(res.Hash),
		"cached": res.Cached,
	})
}

func (s *CompileService) checkSyntax(msg *structpb.Struct) (*structpb.Struct, error) {
	source := stringField(msg, "source")
	if source == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("source is required"))
	}

	_, err := compiler.Parse(source)
	var pe *compiler.ParseError
	switch {
	case err == nil:
		return newStruct(map[string]any{"valid": true, "incomplete": false, "errors": []any{}})
	case errors.As(err, &pe):
		return newStruct(map[string]any{
			"valid":      false,
			"incomplete": pe.Incomplete,
			"errors":     anyList(pe.Messages),
		})
	default:
		return nil, connect.NewError(connect.CodeInternal, err)
	}
}

// SessionService compiles sources inside long-lived sessions.
type SessionService struct {
	sessions *SessionStore
	globals  []string
}

// NewSessionService creates a SessionService. Every new session starts
// with the given globals declared.
func NewSessionService(sessions *SessionStore, globals []string) *SessionService {
	return &SessionService{sessions: sessions, globals: globals}
}

// CreateSession creates a new compile session.
//
// Request:  {name?: string, globals?: [string]}
// Response: {session_id: string}
func (s *SessionService) CreateSession(
	ctx context.Context,
	req *connect.Request[structpb.Struct],
) (*connect.Response[structpb.Struct], error) {
	globals := append(append([]string(nil), s.globals...), stringListField(req.Msg, "globals")...)
	session := s.sessions.Create(stringField(req.Msg, "name"), globals)

	out, err := newStruct(map[string]any{"session_id": session.ID})
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(out), nil
}

// CompileInSession compiles source with the session's persistent scope.
//
// Request:  {session_id: string, source: string}
// Response: {output: string, declared: [string]}
func (s *SessionService) CompileInSession(
	ctx context.Context,
	req *connect.Request[structpb.Struct],
) (*connect.Response[structpb.Struct], error) {
	session, err := s.lookup(req.Msg)
	if err != nil {
		return nil, err
	}

	source := stringField(req.Msg, "source")
	if source == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("source is required"))
	}

	output, err := session.Compile(source)
	if err != nil {
		return nil, compileError(err)
	}

	out, err := newStruct(map[string]any{
		"output":   output,
		"declared": anyList(session.Declared()),
	})
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(out), nil
}

// CloseSession destroys a session.
//
// Request:  {session_id: string}
// Response: {}
func (s *SessionService) CloseSession(
	ctx context.Context,
	req *connect.Request[structpb.Struct],
) (*connect.Response[structpb.Struct], error) {
	session, err := s.lookup(req.Msg)
	if err != nil {
		return nil, err
	}
	s.sessions.Destroy(session.ID)
	return connect.NewResponse(&structpb.Struct{}), nil
}

func (s *SessionService) lookup(msg *structpb.Struct) (*Session, error) {
	id := stringField(msg, "session_id")
	if id == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("session_id is required"))
	}
	session, ok := s.sessions.Get(id)
	if !ok {
		return nil, connect.NewError(connect.CodeNotFound, fmt.Errorf("session %q not found", id))
	}
	return session, nil
}

// compileError maps a compile failure to a Connect error.
func compileError(err error) error {
	var pe *compiler.ParseError
	if errors.As(err, &pe) {
		return connect.NewError(connect.CodeInvalidArgument, err)
	}
	if errors.Is(err, context.Canceled) {
		return connect.NewError(connect.CodeCanceled, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	}
	return connect.NewError(connect.CodeInternal, err)
}

// --- structpb helpers ---

func stringField(msg *structpb.Struct, key string) string {
	return msg.GetFields()[key].GetStringValue()
}

func stringListField(msg *structpb.Struct, key string) []string {
	var out []string
	for _, v := range msg.GetFields()[key].GetListValue().GetValues() {
		if s := v.GetStringValue(); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func anyList(items []string) []any {
	out := make([]any, len(items))
	for i, s := range items {
		out[i] = s
	}
	return out
}

func newStruct(fields map[string]any) (*structpb.Struct, error) {
	st, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return st, nil
}
