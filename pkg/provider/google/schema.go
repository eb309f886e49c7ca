package google

///////////////////////////////////////////////////////////////////////////////
// TYPES - Gemini REST API wire format
//
// Reference: https://ai.google.dev/api/generate-content

///////////////////////////////////////////////////////////////////////////////
// CONTENT & PARTS

// geminiContent is the base structured datatype containing multi-part content
// of a message turn. Maps to the REST API "Content" resource.
type geminiContent struct {
	Parts []*geminiPart `json:"parts"`
	Role  string        `json:"role,omitempty"`
}

// geminiPart is a single unit within a Content message.
// Exactly one of the data fields should be set.
type geminiPart struct {
	// Thinking metadata
	Thought bool `json:"thought,omitempty"`

	// Data — exactly one should be populated
	Text             string                `json:"text,omitempty"`
	FunctionCall     *geminiFunctionCall   `json:"functionCall,omitempty"`
	FunctionResponse *geminiFunctionResult `json:"functionResponse,omitempty"`
}

// geminiFunctionCall is the model's request to invoke a tool
type geminiFunctionCall struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args,omitempty"`
}

// geminiFunctionResult is the client-supplied result of a tool invocation
type geminiFunctionResult struct {
	Name     string         `json:"name"`
	Response map[string]any `json:"response"`
}

///////////////////////////////////////////////////////////////////////////////
// GENERATE CONTENT — REQUEST

// geminiGenerateRequest is the request body for
// POST /v1beta/{model=models/*}:generateContent
type geminiGenerateRequest struct {
	Contents          []*geminiContent       `json:"contents"`
	Tools             []*geminiTool          `json:"tools,omitempty"`
	SystemInstruction *geminiContent         `json:"systemInstruction,omitempty"`
	GenerationConfig  geminiGenerationConfig `json:"generationConfig,omitzero"`
}

///////////////////////////////////////////////////////////////////////////////
// GENERATE CONTENT — RESPONSE

// geminiGenerateResponse is the response from generateContent
type geminiGenerateResponse struct {
	Candidates     []*geminiCandidate    `json:"candidates,omitempty"`
	PromptFeedback *geminiPromptFeedback `json:"promptFeedback,omitempty"`
	UsageMetadata  *geminiUsageMetadata  `json:"usageMetadata,omitempty"`
	ModelVersion   string                `json:"modelVersion,omitempty"`
	ResponseID     string                `json:"responseId,omitempty"`
}

// geminiCandidate is a single response candidate
type geminiCandidate struct {
	Content      *geminiContent `json:"content,omitempty"`
	FinishReason string         `json:"finishReason,omitempty"`
	TokenCount   int            `json:"tokenCount,omitempty"`
	Index        int            `json:"index,omitempty"`
}

// geminiPromptFeedback reports whether the prompt was blocked
type geminiPromptFeedback struct {
	BlockReason string `json:"blockReason,omitempty"`
}

///////////////////////////////////////////////////////////////////////////////
// GENERATION CONFIG

// geminiGenerationConfig holds the generation parameters
type geminiGenerationConfig struct {
	StopSequences   []string `json:"stopSequences,omitempty"`
	MaxOutputTokens int      `json:"maxOutputTokens,omitempty"`
	Temperature     *float64 `json:"temperature,omitempty"`
	TopP            *float64 `json:"topP,omitempty"`
	TopK            *int     `json:"topK,omitempty"`
}

///////////////////////////////////////////////////////////////////////////////
// TOOLS & FUNCTION CALLING

// geminiTool is a tool the model may use
type geminiTool struct {
	FunctionDeclarations []*geminiFunctionDeclaration `json:"functionDeclarations,omitempty"`
}

// geminiFunctionDeclaration describes a callable function
type geminiFunctionDeclaration struct {
	Name                 string         `json:"name"`
	Description          string         `json:"description"`
	ParametersJSONSchema map[string]any `json:"parametersJsonSchema,omitempty"`
}

///////////////////////////////////////////////////////////////////////////////
// USAGE METADATA

// geminiUsageMetadata reports token counts for a generation request
type geminiUsageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount,omitempty"`
	CandidatesTokenCount int `json:"candidatesTokenCount,omitempty"`
	ThoughtsTokenCount   int `json:"thoughtsTokenCount,omitempty"`
	TotalTokenCount      int `json:"totalTokenCount,omitempty"`
}

///////////////////////////////////////////////////////////////////////////////
// FINISH REASON CONSTANTS

const (
	geminiFinishReasonStop                  = "STOP"
	geminiFinishReasonMaxTokens             = "MAX_TOKENS"
	geminiFinishReasonSafety                = "SAFETY"
	geminiFinishReasonRecitation            = "RECITATION"
	geminiFinishReasonLanguage              = "LANGUAGE"
	geminiFinishReasonOther                 = "OTHER"
	geminiFinishReasonBlocklist             = "BLOCKLIST"
	geminiFinishReasonProhibitedContent     = "PROHIBITED_CONTENT"
	geminiFinishReasonSPII                  = "SPII"
	geminiFinishReasonMalformedFunctionCall = "MALFORMED_FUNCTION_CALL"
	geminiFinishReasonUnexpectedToolCall    = "UNEXPECTED_TOOL_CALL"
)

///////////////////////////////////////////////////////////////////////////////
// HELPERS

// geminiNewTextContent creates a Content with a single text Part
func geminiNewTextContent(role, text string) *geminiContent {
	return &geminiContent{
		Role: role,
		Parts: []*geminiPart{
			{Text: text},
		},
	}
}

// geminiNewFunctionCallPart creates a Part for a function call
func geminiNewFunctionCallPart(name string, args map[string]any) *geminiPart {
	return &geminiPart{
		FunctionCall: &geminiFunctionCall{
			Name: name,
			Args: args,
		},
	}
}

// geminiNewFunctionResponsePart creates a Part for a function response
func geminiNewFunctionResponsePart(name string, response map[string]any) *geminiPart {
	return &geminiPart{
		FunctionResponse: &geminiFunctionResult{
			Name:     name,
			Response: response,
		},
	}
}
