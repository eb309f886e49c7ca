package client

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/exec"
	"time"

	// Packages
	mcp "github.com/modelcontextprotocol/go-sdk/mcp"
	mcpchat "github.com/mutablelogic/go-mcpchat"
	config "github.com/mutablelogic/go-mcpchat/pkg/config"
	version "github.com/mutablelogic/go-mcpchat/pkg/version"
	otel "go.opentelemetry.io/otel"
	attribute "go.opentelemetry.io/otel/attribute"
	trace "go.opentelemetry.io/otel/trace"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Connector dials MCP servers. It builds the transport for a server
// declaration, performs the protocol handshake within a bounded timeout,
// and returns a session tracking the outcome.
type Connector struct {
	name    string
	version string
	timeout time.Duration
	logger  *slog.Logger
	tracer  trace.Tracer
}

// Opt is a configuration option for the connector
type Opt func(*Connector)

///////////////////////////////////////////////////////////////////////////////
// CONSTANTS

// DefaultTimeout bounds the transport dial and initialize handshake
const DefaultTimeout = 15 * time.Second

const tracerName = "github.com/mutablelogic/go-mcpchat/pkg/mcp/client"

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewConnector creates a connector with the given options
func NewConnector(opts ...Opt) *Connector {
	c := &Connector{
		name:    "mcpchat",
		version: version.Version(),
		timeout: DefaultTimeout,
		logger:  slog.Default(),
		tracer:  otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithTimeout sets the handshake timeout
func WithTimeout(timeout time.Duration) Opt {
	return func(c *Connector) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Opt {
	return func(c *Connector) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClientInfo sets the client name and version reported during the handshake
func WithClientInfo(name, version string) Opt {
	return func(c *Connector) {
		c.name = name
		c.version = version
	}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Connect dials a server and performs the initialize handshake. On failure
// the returned session is in the failed state and the error indicates
// whether the dial timed out or was refused. A failure affects only this
// server; the caller decides whether the process can continue without it.
func (c *Connector) Connect(ctx context.Context, spec config.ServerSpec) (*Session, error) {
	ctx, span := c.tracer.Start(ctx, "mcp.connect", trace.WithAttributes(
		attribute.String("server", spec.Name),
		attribute.String("transport", string(spec.Transport)),
	))
	defer span.End()

	session := &Session{spec: spec}
	session.state.Store(uint32(StateConnecting))

	transport, err := transportFor(spec)
	if err != nil {
		session.state.Store(uint32(StateFailed))
		return session, err
	}

	client := mcp.NewClient(&mcp.Implementation{
		Name:    c.name,
		Version: c.version,
	}, nil)

	dialCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	c.logger.Debug("connecting", "server", spec.Name, "transport", spec.Transport)
	cs, err := client.Connect(dialCtx, transport, nil)
	if err != nil {
		session.state.Store(uint32(StateFailed))
		if errors.Is(err, context.DeadlineExceeded) {
			return session, mcpchat.ErrConnectionTimeout.Withf("%s: no response within %v", spec.Name, c.timeout)
		}
		return session, mcpchat.ErrConnection.Withf("%s: %v", spec.Name, err)
	}

	session.session = cs
	session.state.Store(uint32(StateReady))
	return session, nil
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// transportFor builds the SDK transport for a server declaration
func transportFor(spec config.ServerSpec) (mcp.Transport, error) {
	switch spec.Transport {
	case config.TransportStdio:
		cmd := exec.Command(spec.Command, spec.Args...)
		cmd.Env = append(os.Environ(), spec.Environ()...)
		cmd.Stderr = os.Stderr
		return &mcp.CommandTransport{Command: cmd}, nil
	case config.TransportStreamableHTTP:
		return &mcp.StreamableClientTransport{Endpoint: spec.URL}, nil
	default:
		return nil, mcpchat.ErrConfig.Withf("%s: unknown transport %q", spec.Name, spec.Transport)
	}
}
