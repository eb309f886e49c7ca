/*
config reads the declarative server registry: which MCP servers exist,
how each is reached, and the model parameters for the chat loop.
*/
package config

import (
	"fmt"
	"io"
	"os"
	"sort"

	// Packages
	mcpchat "github.com/mutablelogic/go-mcpchat"
	types "github.com/mutablelogic/go-server/pkg/types"
	yaml "gopkg.in/yaml.v3"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Transport identifies how an MCP server is reached
type Transport string

// Config is the resolved registry: model parameters plus the declared
// servers in file order. Resolution is a pure function of the file content
// and the lookup environment; a Config is immutable once returned.
type Config struct {
	LLM     LLM          `json:"llm"`
	Servers []ServerSpec `json:"servers"`
}

// LLM holds the model parameters for the chat loop
type LLM struct {
	Model         string   `yaml:"model" json:"model"`
	APIKeyEnv     string   `yaml:"api_key_env" json:"api_key_env"`
	Temperature   *float64 `yaml:"temperature" json:"temperature,omitempty"`
	SystemPrompt  string   `yaml:"system_prompt" json:"system_prompt,omitempty"`
	MaxIterations uint     `yaml:"max_iterations" json:"max_iterations,omitempty"`
}

// ServerSpec declares a single MCP server
type ServerSpec struct {
	Name      string            `json:"name"`
	Enabled   bool              `json:"enabled"`
	Transport Transport         `json:"transport"`
	Command   string            `json:"command,omitempty"`
	URL       string            `json:"url,omitempty"`
	Args      []string          `json:"args,omitempty"`
	Env       map[string]string `json:"env,omitempty"`
}

// serverSpec is the YAML shape of a server entry. Enabled is a pointer so
// an absent key defaults to true.
type serverSpec struct {
	Enabled   *bool             `yaml:"enabled"`
	Transport Transport         `yaml:"transport"`
	Command   string            `yaml:"command"`
	URL       string            `yaml:"url"`
	Args      []string          `yaml:"args"`
	Env       map[string]string `yaml:"env"`
}

////////////////////////////////////////////////////////////////////////////////
// CONSTANTS

const (
	TransportStdio          Transport = "stdio"
	TransportStreamableHTTP Transport = "streamable_http"
)

const (
	DefaultModel     = "gemini-2.5-flash"
	DefaultAPIKeyEnv = "GEMINI_API_KEY"
)

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// Load reads and resolves the registry from a file. When lookup is nil the
// process environment is used for placeholder expansion.
func Load(path string, lookup LookupFunc) (*Config, error) {
	r, err := os.Open(path)
	if err != nil {
		return nil, mcpchat.ErrConfig.Withf("%v", err)
	}
	defer r.Close()
	return Read(r, lookup)
}

// Read reads and resolves the registry from a reader
func Read(r io.Reader, lookup LookupFunc) (*Config, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, mcpchat.ErrConfig.Withf("%v", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, mcpchat.ErrConfig.Withf("%v", err)
	}

	// Expand placeholders, then validate every entry (disabled included)
	if err := config.expand(lookup); err != nil {
		return nil, err
	}
	for _, server := range config.Servers {
		if err := server.validate(); err != nil {
			return nil, err
		}
	}

	// Model defaults
	if config.LLM.Model == "" {
		config.LLM.Model = DefaultModel
	}
	if config.LLM.APIKeyEnv == "" {
		config.LLM.APIKeyEnv = DefaultAPIKeyEnv
	}

	return &config, nil
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// UnmarshalYAML decodes the registry document. The servers section is a
// mapping from name to spec; declaration order is preserved since it decides
// conflict resolution later on.
func (c *Config) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return mcpchat.ErrConfig.With("registry must be a mapping")
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		switch key.Value {
		case "llm":
			if err := value.Decode(&c.LLM); err != nil {
				return mcpchat.ErrConfig.Withf("llm: %v", err)
			}
		case "servers":
			servers, err := decodeServers(value)
			if err != nil {
				return err
			}
			c.Servers = servers
		default:
			return mcpchat.ErrConfig.Withf("unknown section %q", key.Value)
		}
	}
	return nil
}

// Enabled returns the servers marked enabled, in declaration order
func (c *Config) Enabled() []ServerSpec {
	result := make([]ServerSpec, 0, len(c.Servers))
	for _, server := range c.Servers {
		if server.Enabled {
			result = append(result, server)
		}
	}
	return result
}

// Environ returns the server's environment overrides as "key=value" pairs,
// sorted by key, suitable for appending to os.Environ
func (s ServerSpec) Environ() []string {
	result := make([]string, 0, len(s.Env))
	for key, value := range s.Env {
		result = append(result, key+"="+value)
	}
	sort.Strings(result)
	return result
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func decodeServers(node *yaml.Node) ([]ServerSpec, error) {
	if node.Kind != yaml.MappingNode {
		return nil, mcpchat.ErrConfig.With("servers must be a mapping")
	}
	servers := make([]ServerSpec, 0, len(node.Content)/2)
	seen := make(map[string]bool, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		if name == "" {
			return nil, mcpchat.ErrConfig.With("server name cannot be empty")
		}
		if seen[name] {
			return nil, mcpchat.ErrConfig.Withf("duplicate server %q", name)
		}
		seen[name] = true

		var spec serverSpec
		if err := node.Content[i+1].Decode(&spec); err != nil {
			return nil, mcpchat.ErrConfig.Withf("server %q: %v", name, err)
		}
		servers = append(servers, ServerSpec{
			Name:      name,
			Enabled:   spec.Enabled == nil || *spec.Enabled,
			Transport: spec.Transport,
			Command:   spec.Command,
			URL:       spec.URL,
			Args:      spec.Args,
			Env:       spec.Env,
		})
	}
	return servers, nil
}

// expand applies placeholder expansion to every string field
func (c *Config) expand(lookup LookupFunc) error {
	var err error
	if c.LLM.SystemPrompt, err = Expand(c.LLM.SystemPrompt, lookup); err != nil {
		return err
	}
	for i := range c.Servers {
		server := &c.Servers[i]
		if server.Command, err = Expand(server.Command, lookup); err != nil {
			return fmt.Errorf("server %q: %w", server.Name, err)
		}
		if server.URL, err = Expand(server.URL, lookup); err != nil {
			return fmt.Errorf("server %q: %w", server.Name, err)
		}
		for j := range server.Args {
			if server.Args[j], err = Expand(server.Args[j], lookup); err != nil {
				return fmt.Errorf("server %q: %w", server.Name, err)
			}
		}
		for key, value := range server.Env {
			if server.Env[key], err = Expand(value, lookup); err != nil {
				return fmt.Errorf("server %q: %w", server.Name, err)
			}
		}
	}
	return nil
}

// validate checks the structural rules for a server entry
func (s ServerSpec) validate() error {
	switch s.Transport {
	case TransportStdio:
		if s.Command == "" {
			return mcpchat.ErrConfig.Withf("server %q: stdio transport requires a command", s.Name)
		}
	case TransportStreamableHTTP:
		if s.URL == "" {
			return mcpchat.ErrConfig.Withf("server %q: streamable_http transport requires a url", s.Name)
		}
	case "":
		return mcpchat.ErrConfig.Withf("server %q: transport is required", s.Name)
	default:
		return mcpchat.ErrConfig.Withf("server %q: unknown transport %q", s.Name, s.Transport)
	}
	return nil
}

////////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (c Config) String() string {
	return types.Stringify(c)
}

func (s ServerSpec) String() string {
	return types.Stringify(s)
}
