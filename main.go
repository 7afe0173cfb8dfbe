// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ollama-tui is a terminal client for local Ollama models: browse the
// installed models, pick one, and chat with streaming responses.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/morganforge/ollama-tui/internal/cli"
	"github.com/morganforge/ollama-tui/internal/config"
	"github.com/morganforge/ollama-tui/internal/logging"
	"github.com/morganforge/ollama-tui/internal/ollama"
	"github.com/morganforge/ollama-tui/internal/ui/chat"
)

func main() {
	os.Exit(run())
}

func run() int {
	cmd, args := cli.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		return 1
	}
	config.SetGlobal(cfg)

	// Logging goes to a file; the terminal belongs to the UI. A failed
	// init leaves the nop logger in place.
	if flush, err := logging.Init(cfg.LogFile(), cfg.Log.Level); err == nil {
		defer flush()
	}

	switch cmd {
	case cli.CmdChat:
		return cli.HandleChat(cfg, args)
	case cli.CmdAsk:
		return cli.HandleAsk(cfg, args)
	case cli.CmdModels:
		return cli.HandleModels(cfg, args)
	case cli.CmdStatus:
		return cli.HandleStatus(cfg, args)
	case cli.CmdConfig:
		return cli.HandleConfig(cfg, args)
	case cli.CmdVersion:
		cli.PrintVersion()
		return 0
	case cli.CmdHelp:
		cli.PrintUsage()
		return 0
	default:
		return runTUI(cfg, args)
	}
}

func runTUI(cfg *config.Config, args *cli.ArgParser) int {
	client := ollama.New(ollama.Config{
		BaseURL:   args.FlagOrDefault("url", cfg.Server.URL),
		Timeout:   cfg.Timeout(),
		AutoStart: cfg.Server.AutoStart,
	})

	// Autostart before entering the alternate screen so the server's
	// startup delay does not happen behind a blank TUI. Failure is fine,
	// the session surfaces it and offers retry.
	if cfg.Server.AutoStart {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		if err := client.EnsureRunning(ctx); err != nil {
			logging.L().Warn("ollama autostart failed", zap.Error(err))
		}
		cancel()
	}

	session := chat.New(cfg, client)
	program := tea.NewProgram(session, tea.WithAltScreen())
	session.SetRunner(chat.NewStreamRunner(program, client))

	// Hot-reload config edits into the running session.
	if path, err := config.Path(); err == nil {
		if stop, err := config.Watch(path, func(c *config.Config) {
			program.Send(chat.ConfigReloadedMsg{Config: c})
		}); err == nil {
			defer stop()
		}
	}

	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}
