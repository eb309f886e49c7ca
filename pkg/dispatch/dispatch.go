/*
dispatch drives the request/tool/response loop: send the conversation to
the model, execute any tool calls it requests, feed the results back, and
repeat until the model produces a final answer or the iteration budget
runs out.
*/
package dispatch

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	// Packages
	mcpchat "github.com/mutablelogic/go-mcpchat"
	schema "github.com/mutablelogic/go-mcpchat/pkg/schema"
	otel "go.opentelemetry.io/otel"
	attribute "go.opentelemetry.io/otel/attribute"
	trace "go.opentelemetry.io/otel/trace"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Resolver is the aggregated tool namespace the loop dispatches calls to
type Resolver interface {
	// Return the tool definitions for the model
	Definitions() []schema.ToolDefinition

	// Invoke a tool by name with JSON-encoded arguments
	Call(ctx context.Context, name string, args json.RawMessage) (any, error)
}

// Dispatcher owns the conversation during an exchange. It is the only
// writer: the model proposes, the dispatcher appends.
type Dispatcher struct {
	generator     mcpchat.Generator
	resolver      Resolver
	maxIterations uint
	logger        *slog.Logger
	tracer        trace.Tracer
}

// Opt is a configuration option for the dispatcher
type Opt func(*Dispatcher)

///////////////////////////////////////////////////////////////////////////////
// CONSTANTS

// DefaultMaxIterations bounds the number of model/tool round trips in a
// single exchange
const DefaultMaxIterations = 10

const tracerName = "github.com/mutablelogic/go-mcpchat/pkg/dispatch"

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New creates a dispatcher for the given generator and tool resolver
func New(generator mcpchat.Generator, resolver Resolver, opts ...Opt) (*Dispatcher, error) {
	if generator == nil {
		return nil, mcpchat.ErrBadParameter.With("generator is required")
	}
	if resolver == nil {
		return nil, mcpchat.ErrBadParameter.With("resolver is required")
	}
	d := &Dispatcher{
		generator:     generator,
		resolver:      resolver,
		maxIterations: DefaultMaxIterations,
		logger:        slog.Default(),
		tracer:        otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// WithMaxIterations sets the iteration budget for an exchange
func WithMaxIterations(n uint) Opt {
	return func(d *Dispatcher) {
		if n > 0 {
			d.maxIterations = n
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Opt {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Chat runs one exchange: append the user message, then loop between the
// model and the tools until a final answer. When the iteration budget is
// exhausted the conversation is rolled back to its pre-exchange state and
// the returned message carries the max_iterations result.
func (d *Dispatcher) Chat(ctx context.Context, conversation *schema.Conversation, text string) (*schema.Message, error) {
	ctx, span := d.tracer.Start(ctx, "dispatch.chat")
	defer span.End()

	snapshot := len(*conversation)
	conversation.Append(*schema.NewMessage(schema.RoleUser, text))
	tools := d.resolver.Definitions()

	var result *schema.Message
	for i := uint(0); i < d.maxIterations; i++ {
		var err error
		result, err = d.generator.Generate(ctx, *conversation, tools)
		if err != nil {
			conversation.Truncate(snapshot)
			return nil, err
		}
		conversation.Append(*result)

		if result.Result != schema.ResultToolCall {
			return result, nil
		}
		calls := result.ToolCalls()
		if len(calls) == 0 {
			return result, nil
		}

		d.logger.Debug("executing tool calls", "count", len(calls), "iteration", i+1)
		conversation.Append(schema.Message{
			Role:    schema.RoleUser,
			Content: d.runTools(ctx, calls),
		})
	}

	// The model still wants tool calls; roll back so the abandoned
	// exchange leaves no trace in the conversation
	conversation.Truncate(snapshot)
	result.Result = schema.ResultMaxIterations
	return result, nil
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// runTools executes tool calls in parallel. Results are returned in call
// order regardless of completion order, and failures (including unknown
// tool names) become error results rather than aborting the exchange.
func (d *Dispatcher) runTools(ctx context.Context, calls []schema.ToolCall) []schema.ContentBlock {
	results := make([]schema.ContentBlock, len(calls))
	var wg sync.WaitGroup
	for i, call := range calls {
		wg.Add(1)
		go func(i int, call schema.ToolCall) {
			defer wg.Done()
			ctx, span := d.tracer.Start(ctx, "dispatch.tool", trace.WithAttributes(
				attribute.String("tool", call.Name),
			))
			defer span.End()

			output, err := d.resolver.Call(ctx, call.Name, call.Input)
			if err != nil {
				d.logger.Warn("tool call failed", "tool", call.Name, "error", err)
				results[i] = schema.NewToolError(call.ID, call.Name, err)
			} else {
				results[i] = schema.NewToolResult(call.ID, call.Name, output)
			}
		}(i, call)
	}
	wg.Wait()
	return results
}
