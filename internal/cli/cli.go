// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

// Command identifies the requested top-level command.
type Command int

const (
	CmdTUI Command = iota
	CmdChat
	CmdAsk
	CmdModels
	CmdStatus
	CmdConfig
	CmdVersion
	CmdHelp
)

// Parse inspects os.Args and returns the command plus its parser.
func Parse() (Command, *ArgParser) {
	if len(os.Args) < 2 {
		return CmdTUI, NewArgParser(nil)
	}

	cmd := os.Args[1]
	args := NewArgParser(os.Args[2:])

	switch cmd {
	case "chat":
		return CmdChat, args
	case "ask":
		return CmdAsk, args
	case "models", "list":
		return CmdModels, args
	case "status":
		return CmdStatus, args
	case "config":
		return CmdConfig, args
	case "version", "--version", "-v":
		return CmdVersion, args
	case "help", "--help", "-h":
		return CmdHelp, args
	default:
		// Unknown words fall through to the TUI so plain invocation
		// stays forgiving; flags are reparsed including the first arg.
		return CmdTUI, NewArgParser(os.Args[1:])
	}
}

// PrintUsage writes the top-level help text.
func PrintUsage() {
	fmt.Print(`ollama-tui - terminal client for local Ollama models

Usage:
  ollama-tui                 Open the interactive TUI
  ollama-tui chat            Chat in a plain REPL (line editing, history)
  ollama-tui ask <prompt>    One question, rendered answer, exit
  ollama-tui models          List installed models
  ollama-tui status          Check server reachability
  ollama-tui config          Show the active configuration
  ollama-tui version         Print the version

Flags:
  -m, --model NAME   Use a specific model (chat, ask)
  --url URL          Ollama server URL (overrides config)
  --no-markdown      Disable markdown rendering (ask)

Configuration lives at ~/.ollama-tui/config.toml.
`)
}

// PrintVersion writes the version line.
func PrintVersion() {
	fmt.Printf("ollama-tui %s\n", Version)
}
