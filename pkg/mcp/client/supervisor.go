package client

import (
	"context"
	"errors"
	"log/slog"

	// Packages
	mcpchat "github.com/mutablelogic/go-mcpchat"
	config "github.com/mutablelogic/go-mcpchat/pkg/config"
	errgroup "golang.org/x/sync/errgroup"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Dialer establishes a session to a single server
type Dialer interface {
	Connect(ctx context.Context, spec config.ServerSpec) (*Session, error)
}

// Supervisor owns the sessions for all declared servers. It dials them
// concurrently before the chat loop starts, tolerates individual servers
// being unavailable, and closes every session on shutdown.
type Supervisor struct {
	dialer   Dialer
	logger   *slog.Logger
	sessions []*Session
}

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewSupervisor creates a supervisor using the given dialer. A nil logger
// falls back to the default logger.
func NewSupervisor(dialer Dialer, logger *slog.Logger) *Supervisor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Supervisor{
		dialer: dialer,
		logger: logger,
	}
}

// Close terminates all sessions, ready or not
func (s *Supervisor) Close() error {
	var g errgroup.Group
	for _, session := range s.sessions {
		g.Go(session.Close)
	}
	return g.Wait()
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Open dials all servers concurrently. Servers which fail to connect are
// logged and skipped; the error is fatal only when no server at all is
// reachable. The session order follows the declaration order regardless of
// which dial completes first.
func (s *Supervisor) Open(ctx context.Context, specs []config.ServerSpec) error {
	sessions := make([]*Session, len(specs))
	errs := make([]error, len(specs))

	var g errgroup.Group
	for i, spec := range specs {
		g.Go(func() error {
			sessions[i], errs[i] = s.dialer.Connect(ctx, spec)
			return nil
		})
	}
	g.Wait()

	ready := 0
	for i, spec := range specs {
		if errs[i] != nil {
			s.logger.Warn("server unavailable", "server", spec.Name, "error", errs[i])
		} else {
			s.logger.Info("server connected", "server", spec.Name)
			ready++
		}
		if sessions[i] != nil {
			s.sessions = append(s.sessions, sessions[i])
		}
	}

	if ready == 0 && len(specs) > 0 {
		return mcpchat.ErrConnection.Withf("no servers reachable: %v", errors.Join(errs...))
	}
	return nil
}

// Sessions returns the ready sessions, in declaration order
func (s *Supervisor) Sessions() []*Session {
	result := make([]*Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		if session.State() == StateReady {
			result = append(result, session)
		}
	}
	return result
}

// All returns every session the supervisor dialed, including failed ones
func (s *Supervisor) All() []*Session {
	return s.sessions
}
