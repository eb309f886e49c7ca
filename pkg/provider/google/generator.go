package google

import (
	"context"

	// Packages
	client "github.com/mutablelogic/go-client"
	schema "github.com/mutablelogic/go-mcpchat/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Generate sends the conversation to the model and returns the next
// assistant message. The conversation is read, never modified.
func (c *Client) Generate(ctx context.Context, conversation schema.Conversation, tools []schema.ToolDefinition) (*schema.Message, error) {
	request, err := c.generateRequest(conversation, tools)
	if err != nil {
		return nil, err
	}

	payload, err := client.NewJSONRequest(request)
	if err != nil {
		return nil, err
	}

	var response geminiGenerateResponse
	if err := c.DoWithContext(ctx, payload, &response, client.OptPath("models", c.model+":generateContent")); err != nil {
		return nil, err
	}

	message, err := messageFromGeminiResponse(&response)
	if err != nil {
		return nil, err
	}
	if response.UsageMetadata != nil {
		message.Tokens = uint(response.UsageMetadata.CandidatesTokenCount)
	}
	return message, nil
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// generateRequest builds the wire request from the conversation and tools
func (c *Client) generateRequest(conversation schema.Conversation, tools []schema.ToolDefinition) (*geminiGenerateRequest, error) {
	contents, err := geminiContentsFromConversation(conversation)
	if err != nil {
		return nil, err
	}

	request := &geminiGenerateRequest{
		Contents: contents,
	}
	if c.systemPrompt != "" {
		request.SystemInstruction = geminiNewTextContent("", c.systemPrompt)
	}
	if c.temperature != nil {
		request.GenerationConfig.Temperature = c.temperature
	}
	if decls := geminiFunctionDeclsFromTools(tools); len(decls) > 0 {
		request.Tools = []*geminiTool{{
			FunctionDeclarations: decls,
		}}
	}
	return request, nil
}
