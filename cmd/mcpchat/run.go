package main

import (
	"os"

	// Packages
	mcpchat "github.com/mutablelogic/go-mcpchat"
	config "github.com/mutablelogic/go-mcpchat/pkg/config"
	dispatch "github.com/mutablelogic/go-mcpchat/pkg/dispatch"
	client "github.com/mutablelogic/go-mcpchat/pkg/mcp/client"
	registry "github.com/mutablelogic/go-mcpchat/pkg/mcp/registry"
	google "github.com/mutablelogic/go-mcpchat/pkg/provider/google"
	version "github.com/mutablelogic/go-mcpchat/pkg/version"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// app wires the registry file, the server sessions, and the aggregated tool
// catalog together for the lifetime of one command
type app struct {
	config     *config.Config
	supervisor *client.Supervisor
	registry   *registry.Registry
}

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// open resolves the registry, dials the enabled servers, and builds the
// tool catalog. The caller must Close the returned app.
func (g *Globals) open() (*app, error) {
	cfg, err := config.Load(g.Config, nil)
	if err != nil {
		return nil, err
	}

	connector := client.NewConnector(
		client.WithTimeout(g.Timeout),
		client.WithLogger(g.logger),
		client.WithClientInfo("mcpchat", version.Version()),
	)
	supervisor := client.NewSupervisor(connector, g.logger)
	if err := supervisor.Open(g.ctx, cfg.Enabled()); err != nil {
		supervisor.Close()
		return nil, err
	}

	sessions := supervisor.Sessions()
	sources := make([]registry.Source, 0, len(sessions))
	for _, session := range sessions {
		sources = append(sources, session)
	}
	reg, err := registry.New(g.ctx, sources, g.logger)
	if err != nil {
		supervisor.Close()
		return nil, err
	}

	return &app{
		config:     cfg,
		supervisor: supervisor,
		registry:   reg,
	}, nil
}

func (a *app) Close() error {
	return a.supervisor.Close()
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// dispatcher builds the chat loop from the registry's llm section
func (a *app) dispatcher(g *Globals) (*dispatch.Dispatcher, error) {
	apiKey := os.Getenv(a.config.LLM.APIKeyEnv)
	if apiKey == "" {
		return nil, mcpchat.ErrConfig.Withf("%s is not set", a.config.LLM.APIKeyEnv)
	}

	var opts []google.Opt
	if a.config.LLM.SystemPrompt != "" {
		opts = append(opts, google.WithSystemPrompt(a.config.LLM.SystemPrompt))
	}
	if a.config.LLM.Temperature != nil {
		opts = append(opts, google.WithTemperature(*a.config.LLM.Temperature))
	}
	generator, err := google.New(apiKey, a.config.LLM.Model, opts...)
	if err != nil {
		return nil, err
	}

	dispatchOpts := []dispatch.Opt{
		dispatch.WithLogger(g.logger),
	}
	if a.config.LLM.MaxIterations > 0 {
		dispatchOpts = append(dispatchOpts, dispatch.WithMaxIterations(a.config.LLM.MaxIterations))
	}
	return dispatch.New(generator, a.registry, dispatchOpts...)
}
