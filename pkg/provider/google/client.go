/*
google implements a generator for the Google Gemini REST API.
https://ai.google.dev/gemini-api/docs
*/
package google

import (
	// Packages
	client "github.com/mutablelogic/go-client"
	mcpchat "github.com/mutablelogic/go-mcpchat"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type Client struct {
	*client.Client

	model        string
	systemPrompt string
	temperature  *float64
}

// Opt is a configuration option for the client
type Opt func(*Client) error

var _ mcpchat.Generator = (*Client)(nil)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	endPoint    = "https://generativelanguage.googleapis.com/v1beta"
	defaultName = "gemini"
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New creates a new Google Gemini client with the given API key and model
func New(apiKey, model string, opts ...Opt) (*Client, error) {
	if apiKey == "" {
		return nil, mcpchat.ErrBadParameter.With("api key is required")
	}
	if model == "" {
		return nil, mcpchat.ErrBadParameter.With("model is required")
	}

	c := &Client{
		model: model,
	}
	var clientOpts []client.ClientOpt
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.Client == nil {
		clientOpts = append(clientOpts,
			client.OptEndpoint(endPoint),
			client.OptHeader("x-goog-api-key", apiKey),
		)
		rest, err := client.New(clientOpts...)
		if err != nil {
			return nil, err
		}
		c.Client = rest
	}
	return c, nil
}

// WithSystemPrompt sets the system instruction for every request
func WithSystemPrompt(prompt string) Opt {
	return func(c *Client) error {
		c.systemPrompt = prompt
		return nil
	}
}

// WithTemperature sets the sampling temperature for every request
func WithTemperature(temperature float64) Opt {
	return func(c *Client) error {
		c.temperature = &temperature
		return nil
	}
}

// WithClient sets the underlying REST client, replacing the default.
// Used to point requests at a test server.
func WithClient(rest *client.Client) Opt {
	return func(c *Client) error {
		c.Client = rest
		return nil
	}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Name returns the provider name
func (*Client) Name() string {
	return defaultName
}

// Model returns the model name requests are sent to
func (c *Client) Model() string {
	return c.model
}
