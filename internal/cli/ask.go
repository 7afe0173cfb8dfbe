// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/morganforge/ollama-tui/internal/config"
	"github.com/morganforge/ollama-tui/internal/ollama"
	"github.com/morganforge/ollama-tui/internal/ui/components"
)

// HandleAsk answers a single prompt and exits: the response streams into
// an accumulator and, unless disabled, prints through the markdown
// renderer once complete.
func HandleAsk(cfg *config.Config, args *ArgParser) int {
	prompt := strings.TrimSpace(strings.Join(positionalsFrom(args, 0), " "))
	if prompt == "" {
		fmt.Fprintln(os.Stderr, "usage: ollama-tui ask <prompt>")
		return 2
	}

	client := ollama.New(ollama.Config{
		BaseURL:   args.FlagOrDefault("url", cfg.Server.URL),
		Timeout:   cfg.Timeout(),
		AutoStart: cfg.Server.AutoStart,
	})

	ctx := context.Background()
	if err := client.EnsureRunning(ctx); err != nil {
		fmt.Fprintln(os.Stderr, warningStyle.Render("ollama is not reachable: "+err.Error()))
		return 1
	}

	modelName := args.FlagOrDefault("model", args.Flag("m"))
	if modelName == "" {
		modelName = cfg.Chat.Model
	}
	if modelName == "" {
		var err error
		modelName, err = pickFirstModel(ctx, client)
		if err != nil {
			fmt.Fprintln(os.Stderr, warningStyle.Render(err.Error()))
			return 1
		}
	}

	var acc ollama.StreamAccumulator
	err := client.ChatStream(ctx, modelName, []ollama.Message{ollama.NewUserMessage(prompt)}, func(chunk ollama.StreamChunk) error {
		acc.Add(chunk)
		return nil
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, warningStyle.Render("error: "+err.Error()))
		return 1
	}

	if cfg.Chat.Markdown && !args.BoolFlag("no-markdown") {
		renderer := components.NewMarkdownRenderer(TerminalWidth())
		fmt.Println(renderer.Render(acc.Content()))
	} else {
		fmt.Println(acc.Content())
	}
	return 0
}

// positionalsFrom returns the positional arguments starting at index.
func positionalsFrom(args *ArgParser, from int) []string {
	var out []string
	for i := from; i < args.PositionalCount(); i++ {
		out = append(out, args.Positional(i))
	}
	return out
}
