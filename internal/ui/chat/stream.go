// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/morganforge/ollama-tui/internal/logging"
	"github.com/morganforge/ollama-tui/internal/model"
	"github.com/morganforge/ollama-tui/internal/ollama"
)

// ChatService is the transport contract the session consumes: send a
// model and history, receive fragments in order through the callback.
// *ollama.Client satisfies it.
type ChatService interface {
	ChatStream(ctx context.Context, modelName string, history []ollama.Message, callback func(ollama.StreamChunk) error) error
}

// ModelLister is the catalog loading contract.
type ModelLister interface {
	ListModels(ctx context.Context) ([]ollama.ModelInfo, error)
}

// Sender hands messages back into the update loop from other goroutines.
// *tea.Program satisfies it.
type Sender interface {
	Send(tea.Msg)
}

// =============================================================================
// COMMANDS
// =============================================================================

// CheckOllamaCmd probes the server.
func CheckOllamaCmd(client *ollama.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return OllamaStatusMsg{Err: client.CheckRunning(ctx)}
	}
}

// LoadModelsCmd fetches the installed models.
func LoadModelsCmd(lister ModelLister) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		models, err := lister.ListModels(ctx)
		return ModelsLoadedMsg{Models: models, Err: err}
	}
}

// =============================================================================
// STREAM RUNNER
// =============================================================================

// StreamRunner drives one chat request on its own goroutine and hands
// every event back to the update loop through the Sender, so the session
// state is only ever touched by the program's single actor.
type StreamRunner struct {
	sender  Sender
	service ChatService
}

// NewStreamRunner wires a runner to the program and transport.
func NewStreamRunner(sender Sender, service ChatService) *StreamRunner {
	return &StreamRunner{sender: sender, service: service}
}

// Run starts the request in the background. Fragments arrive as
// StreamFragmentMsg; exactly one of StreamCompleteMsg or StreamErrorMsg
// follows. Cancelling ctx stops delivery; a cancellation error after the
// final fragment is reported as completion.
func (r *StreamRunner) Run(ctx context.Context, turnID, modelName string, history []ollama.Message) {
	go func() {
		r.sender.Send(StreamStartMsg{TurnID: turnID})

		sawDone := false
		err := r.service.ChatStream(ctx, modelName, history, func(chunk ollama.StreamChunk) error {
			if chunk.Done {
				sawDone = true
			}
			r.sender.Send(StreamFragmentMsg{
				TurnID: turnID,
				Fragment: model.ResponseFragment{
					Model:   chunk.Model,
					Content: chunk.Content,
					Done:    chunk.Done,
				},
			})
			return nil
		})

		switch {
		case err == nil || sawDone:
			r.sender.Send(StreamCompleteMsg{TurnID: turnID})
		default:
			logging.L().Warn("chat stream failed",
				zap.String("turn_id", turnID),
				zap.String("model", modelName),
				zap.Error(err))
			r.sender.Send(StreamErrorMsg{TurnID: turnID, Err: err})
		}
	}()
}
