package config

import (
	"strings"
	"testing"

	// Packages
	mcpchat "github.com/mutablelogic/go-mcpchat"
	assert "github.com/stretchr/testify/assert"
)

///////////////////////////////////////////////////////////////////////////////
// MOCK TYPES

func lookupMap(env map[string]string) LookupFunc {
	return func(name string) (string, bool) {
		value, ok := env[name]
		return value, ok
	}
}

///////////////////////////////////////////////////////////////////////////////
// TESTS

// Test placeholder expansion with the variable set
func Test_expand_001(t *testing.T) {
	assert := assert.New(t)

	result, err := Expand("${PYTHON_BIN:-python3} run", lookupMap(map[string]string{"PYTHON_BIN": "/usr/bin/python3.12"}))
	assert.NoError(err)
	assert.Equal("/usr/bin/python3.12 run", result)
}

// Test the default is used when the variable is unset
func Test_expand_002(t *testing.T) {
	assert := assert.New(t)

	result, err := Expand("${PYTHON_BIN:-python3} run", lookupMap(nil))
	assert.NoError(err)
	assert.Equal("python3 run", result)
}

// Test an unset variable without a default expands to the empty string
func Test_expand_003(t *testing.T) {
	assert := assert.New(t)

	result, err := Expand("prefix-${MISSING}-suffix", lookupMap(nil))
	assert.NoError(err)
	assert.Equal("prefix--suffix", result)
}

// Test an unterminated placeholder is an error, not literal text
func Test_expand_004(t *testing.T) {
	assert := assert.New(t)

	_, err := Expand("${UNCLOSED", lookupMap(nil))
	assert.ErrorIs(err, mcpchat.ErrConfig)
}

// Test the default may be empty and may contain further text
func Test_expand_005(t *testing.T) {
	assert := assert.New(t)

	result, err := Expand("${A:-}${B:-b/c}", lookupMap(nil))
	assert.NoError(err)
	assert.Equal("b/c", result)
}

// Test expansion is idempotent on resolved values
func Test_expand_006(t *testing.T) {
	assert := assert.New(t)

	resolved, err := Expand("${HOME:-/home/user}/servers", lookupMap(nil))
	assert.NoError(err)

	again, err := Expand(resolved, lookupMap(nil))
	assert.NoError(err)
	assert.Equal(resolved, again)
}

// Test reading a registry preserves declaration order and fills defaults
func Test_config_001(t *testing.T) {
	assert := assert.New(t)

	doc := `
servers:
  filesystem:
    transport: stdio
    command: fs-server
  weather:
    transport: streamable_http
    url: http://localhost:9000/mcp
  math:
    transport: stdio
    command: mathserver
`
	config, err := Read(strings.NewReader(doc), lookupMap(nil))
	assert.NoError(err)
	assert.Len(config.Servers, 3)
	assert.Equal("filesystem", config.Servers[0].Name)
	assert.Equal("weather", config.Servers[1].Name)
	assert.Equal("math", config.Servers[2].Name)
	assert.Equal(DefaultModel, config.LLM.Model)
	assert.Equal(DefaultAPIKeyEnv, config.LLM.APIKeyEnv)
}

// Test disabled servers are excluded from Enabled but still present
func Test_config_002(t *testing.T) {
	assert := assert.New(t)

	doc := `
servers:
  one:
    enabled: true
    transport: stdio
    command: one-server
  two:
    enabled: false
    transport: stdio
    command: two-server
  three:
    transport: stdio
    command: three-server
`
	config, err := Read(strings.NewReader(doc), lookupMap(nil))
	assert.NoError(err)
	assert.Len(config.Servers, 3)

	enabled := config.Enabled()
	assert.Len(enabled, 2)
	assert.Equal("one", enabled[0].Name)
	assert.Equal("three", enabled[1].Name)
}

// Test a disabled server is still validated
func Test_config_003(t *testing.T) {
	assert := assert.New(t)

	doc := `
servers:
  broken:
    enabled: false
    transport: carrier_pigeon
    command: coop
`
	_, err := Read(strings.NewReader(doc), lookupMap(nil))
	assert.ErrorIs(err, mcpchat.ErrConfig)
}

// Test duplicate server names are rejected
func Test_config_004(t *testing.T) {
	assert := assert.New(t)

	doc := `
servers:
  math:
    transport: stdio
    command: mathserver
  math:
    transport: stdio
    command: mathserver2
`
	_, err := Read(strings.NewReader(doc), lookupMap(nil))
	assert.ErrorIs(err, mcpchat.ErrConfig)
}

// Test transport-specific required fields
func Test_config_005(t *testing.T) {
	assert := assert.New(t)

	_, err := Read(strings.NewReader(`
servers:
  a:
    transport: stdio
`), lookupMap(nil))
	assert.ErrorIs(err, mcpchat.ErrConfig)

	_, err = Read(strings.NewReader(`
servers:
  b:
    transport: streamable_http
`), lookupMap(nil))
	assert.ErrorIs(err, mcpchat.ErrConfig)

	_, err = Read(strings.NewReader(`
servers:
  c:
    command: something
`), lookupMap(nil))
	assert.ErrorIs(err, mcpchat.ErrConfig)
}

// Test expansion is applied to command, url, args and env values
func Test_config_006(t *testing.T) {
	assert := assert.New(t)

	doc := `
servers:
  math:
    transport: stdio
    command: ${BIN:-mathserver}
    args:
      - --root
      - ${ROOT}
    env:
      API_KEY: ${KEY:-secret}
  remote:
    transport: streamable_http
    url: ${URL:-http://localhost:8080/mcp}
`
	config, err := Read(strings.NewReader(doc), lookupMap(map[string]string{"ROOT": "/srv/data"}))
	assert.NoError(err)
	assert.Equal("mathserver", config.Servers[0].Command)
	assert.Equal([]string{"--root", "/srv/data"}, config.Servers[0].Args)
	assert.Equal("secret", config.Servers[0].Env["API_KEY"])
	assert.Equal("http://localhost:8080/mcp", config.Servers[1].URL)
	assert.Equal([]string{"API_KEY=secret"}, config.Servers[0].Environ())
}

// Test an expansion error names the server
func Test_config_007(t *testing.T) {
	assert := assert.New(t)

	doc := `
servers:
  math:
    transport: stdio
    command: ${UNCLOSED
`
	_, err := Read(strings.NewReader(doc), lookupMap(nil))
	assert.ErrorIs(err, mcpchat.ErrConfig)
	assert.Contains(err.Error(), "math")
}

// Test the llm section round trips
func Test_config_008(t *testing.T) {
	assert := assert.New(t)

	doc := `
llm:
  model: gemini-2.5-pro
  api_key_env: MY_KEY
  temperature: 0.5
  system_prompt: You are terse.
  max_iterations: 5
servers:
  math:
    transport: stdio
    command: mathserver
`
	config, err := Read(strings.NewReader(doc), lookupMap(nil))
	assert.NoError(err)
	assert.Equal("gemini-2.5-pro", config.LLM.Model)
	assert.Equal("MY_KEY", config.LLM.APIKeyEnv)
	if assert.NotNil(config.LLM.Temperature) {
		assert.Equal(0.5, *config.LLM.Temperature)
	}
	assert.Equal("You are terse.", config.LLM.SystemPrompt)
	assert.Equal(uint(5), config.LLM.MaxIterations)
}

// Test resolution is a pure function of the document and the lookup
func Test_config_009(t *testing.T) {
	assert := assert.New(t)

	doc := `
servers:
  math:
    transport: stdio
    command: ${BIN:-mathserver}
`
	lookup := lookupMap(map[string]string{"BIN": "/opt/bin/mathserver"})
	first, err := Read(strings.NewReader(doc), lookup)
	assert.NoError(err)
	second, err := Read(strings.NewReader(doc), lookup)
	assert.NoError(err)
	assert.Equal(first, second)
}
