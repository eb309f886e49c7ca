/*
mcpchat connects a language model to tools published by MCP servers.
It aggregates tool catalogs from multiple servers into a single
namespace and drives the request/tool/response loop until the model
produces a final answer.
*/
package mcpchat

import (
	"context"

	// Packages
	schema "github.com/mutablelogic/go-mcpchat/pkg/schema"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Generator is the boundary to the language model. Given a conversation
// and the tools the model may call, it returns the next assistant message.
// Implementations must not mutate the conversation; the caller owns it.
type Generator interface {
	// Return the provider name
	Name() string

	// Generate the next assistant message for the conversation
	Generate(ctx context.Context, conversation schema.Conversation, tools []schema.ToolDefinition) (*schema.Message, error)
}
