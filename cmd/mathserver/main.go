package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	// Packages
	kong "github.com/alecthomas/kong"
	mcp "github.com/modelcontextprotocol/go-sdk/mcp"
	mathtool "github.com/mutablelogic/go-mcpchat/pkg/mathtool"
	tool "github.com/mutablelogic/go-mcpchat/pkg/tool"
	version "github.com/mutablelogic/go-mcpchat/pkg/version"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type CLI struct {
	Version kong.VersionFlag `name:"version" help:"Print version and exit"`
}

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

func main() {
	cli := CLI{}
	kong.Parse(&cli,
		kong.Name("mathserver"),
		kong.Description("Arithmetic MCP server over stdio"),
		kong.UsageOnError(),
		kong.Vars{"version": version.Version()},
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	toolkit, err := tool.NewToolkit(mathtool.NewTools()...)
	if err != nil {
		return err
	}

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "mathserver",
		Version: version.Version(),
	}, nil)
	if err := tool.RegisterWithServer(server, toolkit); err != nil {
		return err
	}

	return server.Run(ctx, &mcp.StdioTransport{})
}
