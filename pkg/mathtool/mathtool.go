/*
mathtool provides basic arithmetic tools for exercising the tool-calling
loop end to end.
*/
package mathtool

import (
	"context"
	"encoding/json"
	"math"

	// Packages
	jsonschema "github.com/google/jsonschema-go/jsonschema"
	mcpchat "github.com/mutablelogic/go-mcpchat"
	tool "github.com/mutablelogic/go-mcpchat/pkg/tool"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// BinaryRequest defines the input for all arithmetic tools
type BinaryRequest struct {
	A float64 `json:"a" jsonschema:"First operand"`
	B float64 `json:"b" jsonschema:"Second operand"`
}

type binaryTool struct {
	name        string
	description string
	fn          func(a, b float64) (float64, error)
}

var _ tool.Tool = (*binaryTool)(nil)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewTools returns the arithmetic tools
func NewTools() []tool.Tool {
	return []tool.Tool{
		&binaryTool{"add", "Add two numbers", func(a, b float64) (float64, error) {
			return a + b, nil
		}},
		&binaryTool{"subtract", "Subtract the second number from the first", func(a, b float64) (float64, error) {
			return a - b, nil
		}},
		&binaryTool{"multiply", "Multiply two numbers", func(a, b float64) (float64, error) {
			return a * b, nil
		}},
		&binaryTool{"divide", "Divide the first number by the second", func(a, b float64) (float64, error) {
			if b == 0 {
				return 0, mcpchat.ErrBadParameter.With("division by zero")
			}
			return a / b, nil
		}},
		&binaryTool{"power", "Raise the first number to the power of the second", func(a, b float64) (float64, error) {
			return math.Pow(a, b), nil
		}},
		&binaryTool{"modulus", "Return the remainder of dividing the first number by the second", func(a, b float64) (float64, error) {
			if b == 0 {
				return 0, mcpchat.ErrBadParameter.With("modulus by zero")
			}
			return math.Mod(a, b), nil
		}},
	}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (t *binaryTool) Name() string {
	return t.name
}

func (t *binaryTool) Description() string {
	return t.description
}

// Return the JSON schema for the tool input
func (t *binaryTool) Schema() (*jsonschema.Schema, error) {
	return jsonschema.For[BinaryRequest](nil)
}

// Run the tool with the given input
func (t *binaryTool) Run(ctx context.Context, input json.RawMessage) (any, error) {
	var req BinaryRequest
	if len(input) > 0 {
		if err := json.Unmarshal(input, &req); err != nil {
			return nil, mcpchat.ErrBadParameter.Withf("failed to unmarshal input: %v", err)
		}
	}
	value, err := t.fn(req.A, req.B)
	if err != nil {
		return nil, err
	}
	return value, nil
}
