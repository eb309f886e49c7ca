package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	// Packages
	kong "github.com/alecthomas/kong"
	version "github.com/mutablelogic/go-mcpchat/pkg/version"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type CLI struct {
	Globals

	// Commands
	Chat    ChatCommand    `cmd:"" help:"Chat with the model, with tools from the configured servers"`
	Tools   ToolsCommand   `cmd:"" help:"List the aggregated tool catalog"`
	Servers ServersCommand `cmd:"" help:"Show configured servers and their connection state"`
	Version VersionCommand `cmd:"" help:"Print version information"`
}

type Globals struct {
	Config    string        `name:"config" help:"Path to the server registry" default:"config.yaml"`
	Debug     bool          `name:"debug" help:"Enable debug logging" default:"false"`
	LogFormat string        `name:"log-format" help:"Log output format" enum:"text,json" default:"text"`
	LogFile   string        `name:"log-file" help:"Write logs to a file instead of stderr" optional:""`
	Timeout   time.Duration `name:"timeout" help:"Server connect timeout" default:"15s"`

	// Private
	ctx    context.Context
	cancel context.CancelFunc
	logger *slog.Logger
}

type VersionCommand struct{}

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

func main() {
	cli := CLI{}
	cmd := kong.Parse(&cli,
		kong.Name("mcpchat"),
		kong.Description("Chat with an LLM using tools from MCP servers"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	// Create context
	cli.ctx, cli.cancel = signal.NotifyContext(context.Background(), os.Interrupt)
	defer cli.cancel()

	// Create logger
	logger, closer, err := newLogger(&cli.Globals)
	cmd.FatalIfErrorf(err)
	if closer != nil {
		defer closer.Close()
	}
	cli.logger = logger
	slog.SetDefault(logger)

	// Run the selected command
	cmd.FatalIfErrorf(cmd.Run(&cli.Globals))
}

///////////////////////////////////////////////////////////////////////////////
// COMMANDS

func (cmd *VersionCommand) Run(g *Globals) error {
	fmt.Println(string(version.JSON("mcpchat")))
	return nil
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// newLogger builds the process logger from the global flags
func newLogger(g *Globals) (*slog.Logger, io.Closer, error) {
	var w io.Writer = os.Stderr
	var closer io.Closer
	if g.LogFile != "" {
		f, err := os.OpenFile(g.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, nil, err
		}
		w, closer = f, f
	}

	level := slog.LevelInfo
	if g.Debug {
		level = slog.LevelDebug
	}

	var handler slog.Handler
	if g.LogFormat == "json" {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	}
	return slog.New(handler), closer, nil
}
