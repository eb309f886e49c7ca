package google

import (
	"encoding/json"

	// Packages
	uuid "github.com/google/uuid"
	mcpchat "github.com/mutablelogic/go-mcpchat"
	schema "github.com/mutablelogic/go-mcpchat/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// CONVERSATION → GEMINI WIRE FORMAT (OUTBOUND)

// geminiContentsFromConversation converts a conversation into gemini wire
// Content slices. System messages are skipped (handled via SystemInstruction
// separately).
func geminiContentsFromConversation(conversation schema.Conversation) ([]*geminiContent, error) {
	contents := make([]*geminiContent, 0, len(conversation))
	for _, msg := range conversation {
		if msg.Role == schema.RoleSystem {
			continue
		}
		// Skip empty assistant messages (no content blocks)
		if msg.Role == schema.RoleAssistant && len(msg.Content) == 0 {
			continue
		}
		c, err := geminiContentFromMessage(msg)
		if err != nil {
			return nil, err
		}
		contents = append(contents, c)
	}
	return contents, nil
}

// geminiContentFromMessage converts a single message to gemini wire Content.
// Handles role mapping (assistant→model).
func geminiContentFromMessage(msg *schema.Message) (*geminiContent, error) {
	parts := make([]*geminiPart, 0, len(msg.Content))
	for i := range msg.Content {
		block := &msg.Content[i]

		// Thinking content
		if block.Thinking != nil {
			parts = append(parts, &geminiPart{
				Text:    *block.Thinking,
				Thought: true,
			})
			continue
		}

		// Text content
		if block.Text != nil {
			parts = append(parts, &geminiPart{Text: *block.Text})
			continue
		}

		// Tool call (function call from the model)
		if block.ToolCall != nil {
			args := make(map[string]any)
			if len(block.ToolCall.Input) > 0 {
				if err := json.Unmarshal(block.ToolCall.Input, &args); err != nil {
					return nil, mcpchat.ErrBadParameter.Withf("unmarshal tool call args: %v", err)
				}
			}
			parts = append(parts, geminiNewFunctionCallPart(block.ToolCall.Name, args))
			continue
		}

		// Tool result (function response from the user)
		if block.ToolResult != nil {
			if p := geminiPartFromToolResult(block.ToolResult); p != nil {
				parts = append(parts, p)
			}
			continue
		}
	}

	// Role mapping: "assistant" → "model" for Gemini
	role := msg.Role
	if role == schema.RoleAssistant {
		role = "model"
	}

	return &geminiContent{
		Parts: parts,
		Role:  role,
	}, nil
}

// geminiPartFromToolResult converts a tool result to a gemini wire
// FunctionResponse Part.
func geminiPartFromToolResult(tr *schema.ToolResult) *geminiPart {
	name := tr.Name
	if name == "" {
		name = tr.ID
	}
	if name == "" {
		return nil
	}

	response := make(map[string]any)
	if len(tr.Content) > 0 {
		var content any
		if err := json.Unmarshal(tr.Content, &content); err != nil {
			// If the content is not valid JSON, pass it as a raw string
			response["output"] = string(tr.Content)
		} else {
			response["output"] = content
		}
	}
	if tr.IsError {
		response["error"] = true
	}

	return geminiNewFunctionResponsePart(name, response)
}

///////////////////////////////////////////////////////////////////////////////
// TOOL CONVERSION

// geminiFunctionDeclsFromTools converts tool definitions to gemini wire
// FunctionDeclaration values, using ParametersJsonSchema.
func geminiFunctionDeclsFromTools(tools []schema.ToolDefinition) []*geminiFunctionDeclaration {
	decls := make([]*geminiFunctionDeclaration, 0, len(tools))
	for _, t := range tools {
		decl := &geminiFunctionDeclaration{
			Name:        t.Name,
			Description: t.Description,
		}

		// Convert the jsonschema.Schema to map[string]any via JSON round-trip
		if t.InputSchema != nil {
			if data, err := json.Marshal(t.InputSchema); err == nil {
				var m map[string]any
				if err := json.Unmarshal(data, &m); err == nil {
					decl.ParametersJSONSchema = m
				}
			}
		}

		decls = append(decls, decl)
	}
	return decls
}

///////////////////////////////////////////////////////////////////////////////
// GEMINI WIRE FORMAT → MESSAGE (INBOUND)

// messageFromGeminiResponse converts a gemini wire GenerateContentResponse
// to a message. Returns an empty message if the response has no candidates.
func messageFromGeminiResponse(response *geminiGenerateResponse) (*schema.Message, error) {
	if response == nil || len(response.Candidates) == 0 {
		return &schema.Message{Role: schema.RoleAssistant}, nil
	}

	candidate := response.Candidates[0]
	if candidate.Content == nil {
		return &schema.Message{
			Role:   schema.RoleAssistant,
			Result: resultFromGeminiFinishReason(candidate.FinishReason),
		}, nil
	}

	// Convert parts to content blocks
	content := make([]schema.ContentBlock, 0, len(candidate.Content.Parts))
	for _, part := range candidate.Content.Parts {
		content = append(content, blockFromGeminiPart(part))
	}

	// Role mapping: "model" → "assistant"
	role := candidate.Content.Role
	if role == "model" || role == "" {
		role = schema.RoleAssistant
	}

	// Determine result type, upgrading to ResultToolCall if we have function calls
	result := resultFromGeminiFinishReason(candidate.FinishReason)
	for _, block := range content {
		if block.ToolCall != nil {
			result = schema.ResultToolCall
			break
		}
	}

	return &schema.Message{
		Role:    role,
		Content: content,
		Result:  result,
	}, nil
}

// blockFromGeminiPart converts a gemini wire Part to a content block
func blockFromGeminiPart(part *geminiPart) schema.ContentBlock {
	// Thinking
	if part.Thought {
		return schema.ContentBlock{
			Thinking: &part.Text,
		}
	}

	// Text
	if part.Text != "" {
		return schema.ContentBlock{
			Text: &part.Text,
		}
	}

	// Function call → ToolCall. Gemini assigns no call IDs, so one is
	// generated here to pair the call with its result.
	if part.FunctionCall != nil {
		var input json.RawMessage
		if part.FunctionCall.Args != nil {
			if data, err := json.Marshal(part.FunctionCall.Args); err == nil {
				input = data
			}
		}
		return schema.ContentBlock{
			ToolCall: &schema.ToolCall{
				ID:    uuid.New().String(),
				Name:  part.FunctionCall.Name,
				Input: input,
			},
		}
	}

	// Function response → ToolResult
	if part.FunctionResponse != nil {
		raw, err := json.Marshal(part.FunctionResponse.Response)
		if err != nil {
			raw = []byte("{}")
		}
		return schema.ContentBlock{
			ToolResult: &schema.ToolResult{
				Name:    part.FunctionResponse.Name,
				Content: raw,
			},
		}
	}

	// Unknown part type — return empty text block
	empty := ""
	return schema.ContentBlock{
		Text: &empty,
	}
}

///////////////////////////////////////////////////////////////////////////////
// FINISH REASON → RESULT TYPE

// resultFromGeminiFinishReason maps a Gemini REST API finish reason string
// to a result type. Callers should check for FunctionCall parts separately
// to upgrade to ResultToolCall.
func resultFromGeminiFinishReason(reason string) schema.ResultType {
	switch reason {
	case geminiFinishReasonStop:
		return schema.ResultStop
	case geminiFinishReasonMaxTokens:
		return schema.ResultMaxTokens
	case geminiFinishReasonSafety, geminiFinishReasonRecitation,
		geminiFinishReasonBlocklist, geminiFinishReasonProhibitedContent,
		geminiFinishReasonSPII, geminiFinishReasonLanguage:
		return schema.ResultBlocked
	case geminiFinishReasonMalformedFunctionCall, geminiFinishReasonUnexpectedToolCall:
		return schema.ResultError
	default:
		return schema.ResultOther
	}
}
