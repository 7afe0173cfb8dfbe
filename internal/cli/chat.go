// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"
	"go.uber.org/zap"

	"github.com/morganforge/ollama-tui/internal/config"
	"github.com/morganforge/ollama-tui/internal/logging"
	"github.com/morganforge/ollama-tui/internal/ollama"
	"github.com/morganforge/ollama-tui/internal/ui/styles"
)

var (
	promptStyle  = lipgloss.NewStyle().Foreground(styles.Cyan).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(styles.TextMuted)
	warningStyle = lipgloss.NewStyle().Foreground(styles.Amber)
)

// replSession wraps liner with persistent input history.
type replSession struct {
	line        *liner.State
	historyFile string
}

func newREPLSession() *replSession {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	dir, err := config.Dir()
	if err != nil {
		dir = os.TempDir()
	}
	historyFile := filepath.Join(dir, "chat_history")
	if f, err := os.Open(historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	return &replSession{line: line, historyFile: historyFile}
}

func (s *replSession) close() {
	if f, err := os.Create(s.historyFile); err == nil {
		s.line.WriteHistory(f)
		f.Close()
	}
	s.line.Close()
}

// HandleChat runs the plain REPL chat: line-edited input, streaming
// output printed token by token, slash commands for session control.
func HandleChat(cfg *config.Config, args *ArgParser) int {
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

	fmt.Println(infoStyle.Render("chatting with " + modelName + " - /quit to exit, /help for commands"))

	session := newREPLSession()
	defer session.close()

	var history []ollama.Message
	for {
		input, err := session.line.Prompt(promptStyle.Render("> "))
		if err != nil {
			// liner returns ErrPromptAborted on ctrl+c, io.EOF on ctrl+d
			fmt.Println()
			return 0
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		session.line.AppendHistory(input)

		if strings.HasPrefix(input, "/") {
			done, newModel := handleSlashCommand(input, modelName, &history)
			if done {
				return 0
			}
			if newModel != "" {
				modelName = newModel
			}
			continue
		}

		history = append(history, ollama.NewUserMessage(input))
		reply, err := streamReply(ctx, client, modelName, history)
		if err != nil {
			logging.L().Warn("repl chat request failed", zap.Error(err))
			fmt.Println(warningStyle.Render("error: " + err.Error()))
			// Failed turn: drop the user message so a retry resends it.
			history = history[:len(history)-1]
			continue
		}
		history = append(history, ollama.NewAssistantMessage(reply))
	}
}

// streamReply prints fragments as they arrive and returns the full text.
func streamReply(ctx context.Context, client *ollama.Client, modelName string, history []ollama.Message) (string, error) {
	var acc ollama.StreamAccumulator
	err := client.ChatStream(ctx, modelName, history, func(chunk ollama.StreamChunk) error {
		fmt.Print(chunk.Content)
		acc.Add(chunk)
		return nil
	})
	fmt.Println()
	if err != nil {
		return acc.Content(), err
	}
	return acc.Content(), nil
}

func handleSlashCommand(input, currentModel string, history *[]ollama.Message) (quit bool, newModel string) {
	fields := strings.Fields(input)
	switch fields[0] {
	case "/quit", "/q", "/exit":
		return true, ""
	case "/clear", "/c":
		*history = nil
		fmt.Println(infoStyle.Render("history cleared"))
	case "/model", "/m":
		if len(fields) > 1 {
			fmt.Println(infoStyle.Render("switched to " + fields[1]))
			return false, fields[1]
		}
		fmt.Println(infoStyle.Render("current model: " + currentModel))
	case "/history":
		for _, msg := range *history {
			fmt.Printf("%s: %s\n", msg.Role, msg.Content)
		}
	case "/help", "/h":
		fmt.Println(infoStyle.Render("/model [name] · /clear · /history · /quit"))
	default:
		fmt.Println(warningStyle.Render("unknown command " + fields[0] + " - try /help"))
	}
	return false, ""
}

func pickFirstModel(ctx context.Context, client *ollama.Client) (string, error) {
	models, err := client.ListModels(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list models: %w", err)
	}
	if len(models) == 0 {
		return "", fmt.Errorf("no models installed - try: ollama pull llama3")
	}
	return models[0].Name, nil
}
