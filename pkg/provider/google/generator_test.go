package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	// Packages
	jsonschema "github.com/google/jsonschema-go/jsonschema"
	client "github.com/mutablelogic/go-client"
	mcpchat "github.com/mutablelogic/go-mcpchat"
	schema "github.com/mutablelogic/go-mcpchat/pkg/schema"
	assert "github.com/stretchr/testify/assert"
)

///////////////////////////////////////////////////////////////////////////////
// HELPERS

// newTestClient points a gemini client at a local test server
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	rest, err := client.New(client.OptEndpoint(server.URL))
	assert.NoError(t, err)

	gemini, err := New("test-key", "gemini-2.5-flash",
		WithClient(rest),
		WithSystemPrompt("You are a helpful assistant."),
		WithTemperature(0.0),
	)
	assert.NoError(t, err)
	return gemini
}

///////////////////////////////////////////////////////////////////////////////
// TESTS

// Test constructor argument checks
func Test_generator_001(t *testing.T) {
	assert := assert.New(t)

	_, err := New("", "gemini-2.5-flash")
	assert.ErrorIs(err, mcpchat.ErrBadParameter)

	_, err = New("key", "")
	assert.ErrorIs(err, mcpchat.ErrBadParameter)

	gemini, err := New("key", "gemini-2.5-flash")
	assert.NoError(err)
	assert.Equal("gemini", gemini.Name())
	assert.Equal("gemini-2.5-flash", gemini.Model())
}

// Test the request carries the conversation, system prompt and tools, and
// the response round trip fills in the message and token count
func Test_generator_002(t *testing.T) {
	assert := assert.New(t)

	gemini := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var request geminiGenerateRequest
		assert.NoError(json.NewDecoder(r.Body).Decode(&request))

		assert.Len(request.Contents, 1)
		assert.Equal("user", request.Contents[0].Role)
		if assert.NotNil(request.SystemInstruction) {
			assert.Equal("You are a helpful assistant.", request.SystemInstruction.Parts[0].Text)
		}
		if assert.NotNil(request.GenerationConfig.Temperature) {
			assert.Equal(0.0, *request.GenerationConfig.Temperature)
		}
		if assert.Len(request.Tools, 1) {
			assert.Equal("add", request.Tools[0].FunctionDeclarations[0].Name)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(geminiGenerateResponse{
			Candidates: []*geminiCandidate{
				{
					Content:      geminiNewTextContent("model", "The answer is 42."),
					FinishReason: geminiFinishReasonStop,
				},
			},
			UsageMetadata: &geminiUsageMetadata{CandidatesTokenCount: 7},
		})
	})

	conversation := schema.Conversation{schema.NewMessage(schema.RoleUser, "what is 25 + 17?")}
	message, err := gemini.Generate(context.Background(), conversation, []schema.ToolDefinition{
		{Name: "add", Description: "Add two numbers", InputSchema: &jsonschema.Schema{Type: "object"}},
	})
	assert.NoError(err)
	assert.Equal("The answer is 42.", message.Text())
	assert.Equal(schema.ResultStop, message.Result)
	assert.Equal(uint(7), message.Tokens)

	// The conversation is unchanged
	assert.Len(conversation, 1)
}

// Test an upstream error response surfaces as an error
func Test_generator_003(t *testing.T) {
	assert := assert.New(t)

	gemini := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "quota exceeded"}}`, http.StatusTooManyRequests)
	})

	conversation := schema.Conversation{schema.NewMessage(schema.RoleUser, "hello")}
	_, err := gemini.Generate(context.Background(), conversation, nil)
	assert.Error(err)
}
