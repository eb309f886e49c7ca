package tool

import (
	"context"
	"encoding/json"

	// Packages
	mcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// RegisterWithServer publishes every tool in the toolkit on an MCP server.
// Tool errors are reported as error results on the wire, not protocol errors,
// so a failing tool does not tear down the session.
func RegisterWithServer(server *mcp.Server, tk *Toolkit) error {
	for _, t := range tk.Tools() {
		schema, err := t.Schema()
		if err != nil {
			return err
		}
		name := t.Name()
		server.AddTool(&mcp.Tool{
			Name:        name,
			Description: t.Description(),
			InputSchema: schema,
		}, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			output, err := tk.Run(ctx, name, json.RawMessage(req.Params.Arguments))
			if err != nil {
				return errorResult(err), nil
			}
			data, err := json.Marshal(output)
			if err != nil {
				return errorResult(err), nil
			}
			return &mcp.CallToolResult{
				Content: []mcp.Content{
					&mcp.TextContent{Text: string(data)},
				},
			}, nil
		})
	}
	return nil
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func errorResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: err.Error()},
		},
		IsError: true,
	}
}
