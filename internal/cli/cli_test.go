// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"testing"

	"github.com/morganforge/ollama-tui/internal/ollama"
)

func TestArgParser_Formats(t *testing.T) {
	tests := []struct {
		name  string
		raw   []string
		check func(t *testing.T, p *ArgParser)
	}{
		{
			name: "subcommand and long flags",
			raw:  []string{"show", "--model", "llama3", "--url=http://x:1"},
			check: func(t *testing.T, p *ArgParser) {
				if p.Subcommand() != "show" {
					t.Errorf("Subcommand = %q", p.Subcommand())
				}
				if p.Flag("model") != "llama3" {
					t.Errorf("model = %q", p.Flag("model"))
				}
				if p.Flag("url") != "http://x:1" {
					t.Errorf("url = %q", p.Flag("url"))
				}
			},
		},
		{
			name: "boolean flags",
			raw:  []string{"--no-markdown", "--json=false"},
			check: func(t *testing.T, p *ArgParser) {
				if !p.BoolFlag("no-markdown") {
					t.Error("no-markdown not set")
				}
				if p.BoolFlag("json") {
					t.Error("json=false parsed as true")
				}
			},
		},
		{
			name: "short flag with value",
			raw:  []string{"-m", "phi3"},
			check: func(t *testing.T, p *ArgParser) {
				if p.Flag("m") != "phi3" {
					t.Errorf("m = %q", p.Flag("m"))
				}
			},
		},
		{
			name: "positionals",
			raw:  []string{"ask", "what", "is", "go"},
			check: func(t *testing.T, p *ArgParser) {
				if p.PositionalCount() != 4 {
					t.Errorf("count = %d", p.PositionalCount())
				}
				if p.Positional(3) != "go" {
					t.Errorf("Positional(3) = %q", p.Positional(3))
				}
				if p.Positional(10) != "" {
					t.Error("out of range positional not empty")
				}
			},
		},
		{
			name: "empty",
			raw:  nil,
			check: func(t *testing.T, p *ArgParser) {
				if p.Subcommand() != "" || p.PositionalCount() != 0 {
					t.Error("empty args produced positionals")
				}
				if p.Flag("anything") != "" || p.BoolFlag("anything") {
					t.Error("empty args produced flags")
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, NewArgParser(tt.raw))
		})
	}
}

func TestArgParser_FlagOrDefault(t *testing.T) {
	p := NewArgParser([]string{"--model", "x"})
	if got := p.FlagOrDefault("model", "d"); got != "x" {
		t.Errorf("got %q", got)
	}
	if got := p.FlagOrDefault("absent", "d"); got != "d" {
		t.Errorf("got %q", got)
	}
}

func TestHandleSlashCommand(t *testing.T) {
	t.Run("quit", func(t *testing.T) {
		var h []ollama.Message
		quit, _ := handleSlashCommand("/quit", "m", &h)
		if !quit {
			t.Error("/quit did not quit")
		}
	})

	t.Run("clear", func(t *testing.T) {
		h := []ollama.Message{ollama.NewUserMessage("x")}
		quit, _ := handleSlashCommand("/clear", "m", &h)
		if quit || len(h) != 0 {
			t.Errorf("/clear: quit=%v len=%d", quit, len(h))
		}
	})

	t.Run("model switch", func(t *testing.T) {
		var h []ollama.Message
		_, newModel := handleSlashCommand("/model phi3", "m", &h)
		if newModel != "phi3" {
			t.Errorf("newModel = %q", newModel)
		}
	})

	t.Run("unknown", func(t *testing.T) {
		var h []ollama.Message
		quit, newModel := handleSlashCommand("/bogus", "m", &h)
		if quit || newModel != "" {
			t.Error("unknown command changed state")
		}
	})
}
