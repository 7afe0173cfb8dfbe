// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/morganforge/ollama-tui/internal/config"
	"github.com/morganforge/ollama-tui/internal/ollama"
	"github.com/morganforge/ollama-tui/internal/ui/styles"
)

var (
	okStyle  = lipgloss.NewStyle().Foreground(styles.Emerald)
	badStyle = lipgloss.NewStyle().Foreground(styles.Rose)
)

// HandleStatus reports server reachability and model count.
func HandleStatus(cfg *config.Config, args *ArgParser) int {
	url := args.FlagOrDefault("url", cfg.Server.URL)
	client := ollama.New(ollama.Config{BaseURL: url, Timeout: cfg.Timeout()})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	fmt.Printf("server:  %s\n", url)
	if err := client.CheckRunning(ctx); err != nil {
		fmt.Printf("status:  %s\n", badStyle.Render("unreachable"))
		return 1
	}
	fmt.Printf("status:  %s\n", okStyle.Render("running"))

	models, err := client.ListModels(ctx)
	if err != nil {
		fmt.Printf("models:  %s\n", badStyle.Render("list failed: "+err.Error()))
		return 1
	}
	fmt.Printf("models:  %d installed\n", len(models))
	return 0
}

// HandleConfig prints the active configuration and its file path.
func HandleConfig(cfg *config.Config, args *ArgParser) int {
	path, err := config.Path()
	if err == nil {
		fmt.Printf("config file: %s\n\n", path)
	}
	fmt.Printf("server.url          = %s\n", cfg.Server.URL)
	fmt.Printf("server.auto_start   = %v\n", cfg.Server.AutoStart)
	fmt.Printf("server.timeout      = %ds\n", cfg.Server.TimeoutSeconds)
	fmt.Printf("chat.model          = %q\n", cfg.Chat.Model)
	fmt.Printf("chat.fold_policy    = %s\n", cfg.Chat.FoldPolicy)
	fmt.Printf("chat.markdown       = %v\n", cfg.Chat.Markdown)
	fmt.Printf("ui.theme            = %s\n", cfg.UI.Theme)
	fmt.Printf("log.level           = %s\n", cfg.Log.Level)
	fmt.Printf("log.file            = %s\n", cfg.LogFile())

	if args.Subcommand() == "init" {
		if err := config.Save(cfg); err != nil {
			fmt.Println(badStyle.Render("failed to write config: " + err.Error()))
			return 1
		}
		fmt.Println(okStyle.Render("config written"))
	}
	return 0
}
