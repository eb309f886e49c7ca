package main

import (
	"encoding/json"
	"fmt"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type ToolsCommand struct {
	Schemas bool `name:"schemas" help:"Include tool input schemas" default:"false"`
}

type ServersCommand struct{}

///////////////////////////////////////////////////////////////////////////////
// COMMANDS

func (cmd *ToolsCommand) Run(g *Globals) error {
	app, err := g.open()
	if err != nil {
		return err
	}
	defer app.Close()

	for i, descriptor := range app.registry.Catalog() {
		if i > 0 {
			fmt.Println()
		}
		fmt.Printf("%s (%s)\n", descriptor.Name, descriptor.Server)
		if descriptor.Description != "" {
			fmt.Printf("  %s\n", descriptor.Description)
		}
		if cmd.Schemas && descriptor.InputSchema != nil {
			if data, err := json.MarshalIndent(descriptor.InputSchema, "  ", "  "); err == nil {
				fmt.Printf("  %s\n", string(data))
			}
		}
	}
	for _, conflict := range app.registry.Conflicts() {
		fmt.Printf("\nconflict: %q from %s is shadowed by %s\n", conflict.Name, conflict.Loser, conflict.Winner)
	}
	fmt.Printf("\n%d tools\n", len(app.registry.Catalog()))
	return nil
}

func (cmd *ServersCommand) Run(g *Globals) error {
	app, err := g.open()
	if err != nil {
		return err
	}
	defer app.Close()

	for _, server := range app.config.Servers {
		if !server.Enabled {
			fmt.Printf("%-20s %-16s disabled\n", server.Name, server.Transport)
			continue
		}
		state := "failed"
		for _, session := range app.supervisor.All() {
			if session.Name() == server.Name {
				state = session.State().String()
				break
			}
		}
		fmt.Printf("%-20s %-16s %s\n", server.Name, server.Transport, state)
	}
	return nil
}
