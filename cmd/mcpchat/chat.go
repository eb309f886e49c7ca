package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	// Packages
	glamour "github.com/charmbracelet/glamour"
	dispatch "github.com/mutablelogic/go-mcpchat/pkg/dispatch"
	schema "github.com/mutablelogic/go-mcpchat/pkg/schema"
	term "golang.org/x/term"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type ChatCommand struct {
	Prompt []string `arg:"" optional:"" help:"Prompt text; omit for an interactive session"`
}

///////////////////////////////////////////////////////////////////////////////
// COMMANDS

func (cmd *ChatCommand) Run(g *Globals) error {
	app, err := g.open()
	if err != nil {
		return err
	}
	defer app.Close()

	dispatcher, err := app.dispatcher(g)
	if err != nil {
		return err
	}

	// The conversation lives for the whole session, so later prompts can
	// refer back to earlier answers
	var conversation schema.Conversation

	// One-shot mode
	if prompt := strings.Join(cmd.Prompt, " "); prompt != "" {
		return exchange(g, dispatcher, &conversation, prompt)
	}

	// Interactive mode
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}
		if err := exchange(g, dispatcher, &conversation, line); err != nil {
			if g.ctx.Err() != nil {
				return err
			}
			fmt.Fprintln(os.Stderr, err)
		}
	}
	return scanner.Err()
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// exchange runs one prompt through the dispatch loop and prints the outcome
func exchange(g *Globals, dispatcher *dispatch.Dispatcher, conversation *schema.Conversation, prompt string) error {
	result, err := dispatcher.Chat(g.ctx, conversation, prompt)
	if err != nil {
		return err
	}

	switch result.Result {
	case schema.ResultMaxIterations:
		fmt.Fprintln(os.Stderr, "unable to complete the request within the tool iteration limit")
		return nil
	case schema.ResultBlocked:
		fmt.Fprintln(os.Stderr, "the model declined to answer")
		return nil
	}

	render(result.Text())
	return nil
}

// render writes the answer to stdout, as styled markdown on a terminal
func render(text string) {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		if renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle()); err == nil {
			if out, err := renderer.Render(text); err == nil {
				fmt.Print(out)
				return
			}
		}
	}
	fmt.Println(text)
}
