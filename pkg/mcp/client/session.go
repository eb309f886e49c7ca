/*
client manages connections to MCP servers: dialing each declared server
over its transport, tracking per-server session state, and tearing every
session down again.
*/
package client

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"

	// Packages
	mcp "github.com/modelcontextprotocol/go-sdk/mcp"
	mcpchat "github.com/mutablelogic/go-mcpchat"
	config "github.com/mutablelogic/go-mcpchat/pkg/config"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// State is the lifecycle state of a session
type State uint32

// Session is a connection to a single MCP server. Calls on a session are
// serialized; concurrent callers queue on the session mutex.
type Session struct {
	spec    config.ServerSpec
	state   atomic.Uint32
	mu      sync.Mutex
	session *mcp.ClientSession
}

///////////////////////////////////////////////////////////////////////////////
// CONSTANTS

const (
	StateConnecting State = iota
	StateReady
	StateFailed
	StateClosed
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewSession wraps an established MCP client session. The session starts
// in the ready state.
func NewSession(spec config.ServerSpec, cs *mcp.ClientSession) *Session {
	s := &Session{
		spec:    spec,
		session: cs,
	}
	s.state.Store(uint32(StateReady))
	return s
}

// Close terminates the session. It is safe to call more than once, and on
// a session which never connected.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if State(s.state.Load()) == StateClosed {
		return nil
	}
	s.state.Store(uint32(StateClosed))
	if s.session == nil {
		return nil
	}
	return s.session.Close()
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Name returns the server name from the registry
func (s *Session) Name() string {
	return s.spec.Name
}

// Spec returns the server declaration this session was dialed from
func (s *Session) Spec() config.ServerSpec {
	return s.spec
}

// State returns the current lifecycle state
func (s *Session) State() State {
	return State(s.state.Load())
}

// ListTools returns the tools the server advertises, following pagination
// until the catalog is complete
func (s *Session) ListTools(ctx context.Context) ([]*mcp.Tool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ready(); err != nil {
		return nil, err
	}

	var tools []*mcp.Tool
	params := &mcp.ListToolsParams{}
	for {
		result, err := s.session.ListTools(ctx, params)
		if err != nil {
			return nil, mcpchat.ErrCatalog.Withf("%s: %v", s.spec.Name, err)
		}
		tools = append(tools, result.Tools...)
		if result.NextCursor == "" {
			break
		}
		params.Cursor = result.NextCursor
	}
	return tools, nil
}

// CallTool invokes a tool on the server with JSON-encoded arguments
func (s *Session) CallTool(ctx context.Context, name string, args json.RawMessage) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ready(); err != nil {
		return nil, err
	}

	params := &mcp.CallToolParams{
		Name: name,
	}
	if len(args) > 0 {
		params.Arguments = args
	}
	result, err := s.session.CallTool(ctx, params)
	if err != nil {
		return nil, mcpchat.ErrToolInvocation.Withf("%s: %s: %v", s.spec.Name, name, err)
	}
	return result, nil
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (s *Session) ready() error {
	if state := State(s.state.Load()); state != StateReady {
		return mcpchat.ErrConnection.Withf("%s: session is %v", s.spec.Name, state)
	}
	return nil
}

///////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}
