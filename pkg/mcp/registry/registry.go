/*
registry aggregates the tool catalogs of all connected MCP servers into a
single flat namespace, and routes tool calls back to the server which owns
each name.
*/
package registry

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	// Packages
	jsonschema "github.com/google/jsonschema-go/jsonschema"
	mcp "github.com/modelcontextprotocol/go-sdk/mcp"
	mcpchat "github.com/mutablelogic/go-mcpchat"
	schema "github.com/mutablelogic/go-mcpchat/pkg/schema"
	types "github.com/mutablelogic/go-server/pkg/types"
	errgroup "golang.org/x/sync/errgroup"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Source is a connected server the registry can query for tools and route
// calls to
type Source interface {
	// Return the server name
	Name() string

	// Return the tools the server advertises
	ListTools(ctx context.Context) ([]*mcp.Tool, error)

	// Invoke a tool on the server
	CallTool(ctx context.Context, name string, args json.RawMessage) (*mcp.CallToolResult, error)
}

// Descriptor is a tool in the aggregated namespace
type Descriptor struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	InputSchema *jsonschema.Schema `json:"input_schema,omitempty"`
	Server      string             `json:"server"`

	source Source
}

// Conflict records a tool name advertised by more than one server. The
// earlier server keeps the name; the later one is shadowed.
type Conflict struct {
	Name   string `json:"name"`
	Winner string `json:"winner"`
	Loser  string `json:"loser"`
}

// Registry is the aggregated tool namespace. It is built once after the
// sessions are open and is read-only afterwards.
type Registry struct {
	catalog   []*Descriptor
	index     map[string]*Descriptor
	conflicts []Conflict
}

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New queries every source for its tool catalog and merges the results.
// Queries run concurrently; a source whose catalog query fails is logged
// and excluded without affecting the others. Duplicate tool names resolve
// to the source listed first.
func New(ctx context.Context, sources []Source, logger *slog.Logger) (*Registry, error) {
	if logger == nil {
		logger = slog.Default()
	}

	catalogs := make([][]*mcp.Tool, len(sources))
	errs := make([]error, len(sources))

	var g errgroup.Group
	for i, source := range sources {
		g.Go(func() error {
			catalogs[i], errs[i] = source.ListTools(ctx)
			return nil
		})
	}
	g.Wait()

	// Merge in source order so conflict resolution is deterministic
	r := &Registry{
		index: make(map[string]*Descriptor),
	}
	for i, source := range sources {
		if errs[i] != nil {
			logger.Warn("tool catalog unavailable", "server", source.Name(), "error", errs[i])
			continue
		}
		for _, tool := range catalogs[i] {
			if existing, exists := r.index[tool.Name]; exists {
				conflict := Conflict{
					Name:   tool.Name,
					Winner: existing.Server,
					Loser:  source.Name(),
				}
				r.conflicts = append(r.conflicts, conflict)
				logger.Warn("tool name conflict", "tool", conflict.Name, "winner", conflict.Winner, "loser", conflict.Loser)
				continue
			}
			descriptor := &Descriptor{
				Name:        tool.Name,
				Description: tool.Description,
				InputSchema: tool.InputSchema,
				Server:      source.Name(),
				source:      source,
			}
			r.catalog = append(r.catalog, descriptor)
			r.index[tool.Name] = descriptor
		}
	}

	return r, nil
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Resolve returns the descriptor for a tool name
func (r *Registry) Resolve(name string) (*Descriptor, error) {
	if descriptor, exists := r.index[name]; exists {
		return descriptor, nil
	}
	return nil, mcpchat.ErrNotFound.Withf("tool %q", name)
}

// Catalog returns all tools in merge order
func (r *Registry) Catalog() []*Descriptor {
	return r.catalog
}

// Conflicts returns the shadowed tool names recorded during the merge
func (r *Registry) Conflicts() []Conflict {
	return r.conflicts
}

// Definitions returns the catalog as tool definitions for the model
func (r *Registry) Definitions() []schema.ToolDefinition {
	result := make([]schema.ToolDefinition, 0, len(r.catalog))
	for _, descriptor := range r.catalog {
		result = append(result, schema.ToolDefinition{
			Name:        descriptor.Name,
			Description: descriptor.Description,
			InputSchema: descriptor.InputSchema,
		})
	}
	return result
}

// Call validates the arguments against the tool's input schema and invokes
// the tool on its owning server. The text content of the result is
// returned; a result the server flags as an error becomes an invocation
// error here.
func (r *Registry) Call(ctx context.Context, name string, args json.RawMessage) (any, error) {
	descriptor, err := r.Resolve(name)
	if err != nil {
		return nil, err
	}

	if err := validate(descriptor.InputSchema, args); err != nil {
		return nil, mcpchat.ErrToolInvocation.Withf("%s: %v", name, err)
	}

	result, err := descriptor.source.CallTool(ctx, name, args)
	if err != nil {
		return nil, err
	}

	text := textContent(result.Content)
	if result.IsError {
		return nil, mcpchat.ErrToolInvocation.Withf("%s: %s", name, text)
	}
	return text, nil
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// validate checks JSON arguments against a tool input schema
func validate(s *jsonschema.Schema, args json.RawMessage) error {
	if s == nil || len(args) == 0 {
		return nil
	}
	var mapInput map[string]any
	if err := json.Unmarshal(args, &mapInput); err != nil {
		return err
	}
	resolved, err := s.Resolve(nil)
	if err != nil {
		return err
	}
	return resolved.Validate(mapInput)
}

// textContent concatenates the text blocks of a tool result
func textContent(content []mcp.Content) string {
	var result []string
	for _, block := range content {
		if text, ok := block.(*mcp.TextContent); ok {
			result = append(result, text.Text)
		}
	}
	return strings.Join(result, "\n")
}

///////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (d Descriptor) String() string {
	return types.Stringify(d)
}
