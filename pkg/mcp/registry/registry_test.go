package registry

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	// Packages
	jsonschema "github.com/google/jsonschema-go/jsonschema"
	mcp "github.com/modelcontextprotocol/go-sdk/mcp"
	mcpchat "github.com/mutablelogic/go-mcpchat"
	assert "github.com/stretchr/testify/assert"
)

///////////////////////////////////////////////////////////////////////////////
// MOCK TYPES

type mockSource struct {
	name    string
	tools   []*mcp.Tool
	listErr error
	callFn  func(name string, args json.RawMessage) (*mcp.CallToolResult, error)
	calls   int
}

func (s *mockSource) Name() string {
	return s.name
}

func (s *mockSource) ListTools(ctx context.Context) ([]*mcp.Tool, error) {
	return s.tools, s.listErr
}

func (s *mockSource) CallTool(ctx context.Context, name string, args json.RawMessage) (*mcp.CallToolResult, error) {
	s.calls++
	if s.callFn != nil {
		return s.callFn(name, args)
	}
	return textResult("ok"), nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func numberSchema(required ...string) *jsonschema.Schema {
	properties := make(map[string]*jsonschema.Schema)
	for _, name := range required {
		properties[name] = &jsonschema.Schema{Type: "number"}
	}
	return &jsonschema.Schema{Type: "object", Properties: properties, Required: required}
}

var discard = slog.New(slog.DiscardHandler)

///////////////////////////////////////////////////////////////////////////////
// TESTS

// Test catalogs merge in source order
func Test_registry_001(t *testing.T) {
	assert := assert.New(t)

	registry, err := New(context.Background(), []Source{
		&mockSource{name: "math", tools: []*mcp.Tool{
			{Name: "add", Description: "Add two numbers"},
			{Name: "subtract"},
		}},
		&mockSource{name: "weather", tools: []*mcp.Tool{
			{Name: "forecast"},
		}},
	}, discard)
	assert.NoError(err)

	catalog := registry.Catalog()
	assert.Len(catalog, 3)
	assert.Equal("add", catalog[0].Name)
	assert.Equal("math", catalog[0].Server)
	assert.Equal("forecast", catalog[2].Name)
	assert.Equal("weather", catalog[2].Server)
	assert.Empty(registry.Conflicts())

	definitions := registry.Definitions()
	assert.Len(definitions, 3)
	assert.Equal("Add two numbers", definitions[0].Description)
}

// Test duplicate tool names resolve to the earlier source
func Test_registry_002(t *testing.T) {
	assert := assert.New(t)

	alpha := &mockSource{name: "alpha", tools: []*mcp.Tool{{Name: "search"}}}
	bravo := &mockSource{name: "bravo", tools: []*mcp.Tool{{Name: "search"}}}
	registry, err := New(context.Background(), []Source{alpha, bravo}, discard)
	assert.NoError(err)

	assert.Len(registry.Catalog(), 1)
	descriptor, err := registry.Resolve("search")
	assert.NoError(err)
	assert.Equal("alpha", descriptor.Server)

	conflicts := registry.Conflicts()
	if assert.Len(conflicts, 1) {
		assert.Equal("search", conflicts[0].Name)
		assert.Equal("alpha", conflicts[0].Winner)
		assert.Equal("bravo", conflicts[0].Loser)
	}

	// The call routes to the winner
	_, err = registry.Call(context.Background(), "search", nil)
	assert.NoError(err)
	assert.Equal(1, alpha.calls)
	assert.Equal(0, bravo.calls)
}

// Test a failed catalog query excludes the source without failing the merge
func Test_registry_003(t *testing.T) {
	assert := assert.New(t)

	registry, err := New(context.Background(), []Source{
		&mockSource{name: "alpha", listErr: mcpchat.ErrConnection.With("gone")},
		&mockSource{name: "bravo", tools: []*mcp.Tool{{Name: "echo"}}},
	}, discard)
	assert.NoError(err)

	assert.Len(registry.Catalog(), 1)
	assert.Equal("bravo", registry.Catalog()[0].Server)
}

// Test resolving an unknown tool
func Test_registry_004(t *testing.T) {
	assert := assert.New(t)

	registry, err := New(context.Background(), nil, discard)
	assert.NoError(err)

	_, err = registry.Resolve("nonexistent")
	assert.ErrorIs(err, mcpchat.ErrNotFound)

	_, err = registry.Call(context.Background(), "nonexistent", nil)
	assert.ErrorIs(err, mcpchat.ErrNotFound)
}

// Test arguments are validated before the call reaches the server
func Test_registry_005(t *testing.T) {
	assert := assert.New(t)

	source := &mockSource{name: "math", tools: []*mcp.Tool{
		{Name: "add", InputSchema: numberSchema("a", "b")},
	}}
	registry, err := New(context.Background(), []Source{source}, discard)
	assert.NoError(err)

	_, err = registry.Call(context.Background(), "add", json.RawMessage(`{"a": 1}`))
	assert.ErrorIs(err, mcpchat.ErrToolInvocation)
	assert.Equal(0, source.calls)

	_, err = registry.Call(context.Background(), "add", json.RawMessage(`{"a": 1, "b": 2}`))
	assert.NoError(err)
	assert.Equal(1, source.calls)
}

// Test a successful call returns the joined text content
func Test_registry_006(t *testing.T) {
	assert := assert.New(t)

	source := &mockSource{
		name:  "math",
		tools: []*mcp.Tool{{Name: "add"}},
		callFn: func(string, json.RawMessage) (*mcp.CallToolResult, error) {
			return &mcp.CallToolResult{
				Content: []mcp.Content{
					&mcp.TextContent{Text: "42"},
					&mcp.TextContent{Text: "done"},
				},
			}, nil
		},
	}
	registry, err := New(context.Background(), []Source{source}, discard)
	assert.NoError(err)

	result, err := registry.Call(context.Background(), "add", json.RawMessage(`{"a": 25, "b": 17}`))
	assert.NoError(err)
	assert.Equal("42\ndone", result)
}

// Test an error result from the server becomes an invocation error
func Test_registry_007(t *testing.T) {
	assert := assert.New(t)

	source := &mockSource{
		name:  "math",
		tools: []*mcp.Tool{{Name: "divide"}},
		callFn: func(string, json.RawMessage) (*mcp.CallToolResult, error) {
			result := textResult("division by zero")
			result.IsError = true
			return result, nil
		},
	}
	registry, err := New(context.Background(), []Source{source}, discard)
	assert.NoError(err)

	_, err = registry.Call(context.Background(), "divide", json.RawMessage(`{"a": 1, "b": 0}`))
	assert.ErrorIs(err, mcpchat.ErrToolInvocation)
	assert.ErrorContains(err, "division by zero")
}
