// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/ollama-tui/internal/ollama"
)

// fakeSender records messages in arrival order.
type fakeSender struct {
	mu   sync.Mutex
	msgs []tea.Msg
	done chan struct{}
}

func newFakeSender() *fakeSender {
	return &fakeSender{done: make(chan struct{}, 1)}
}

func (f *fakeSender) Send(msg tea.Msg) {
	f.mu.Lock()
	f.msgs = append(f.msgs, msg)
	terminal := false
	switch msg.(type) {
	case StreamCompleteMsg, StreamErrorMsg:
		terminal = true
	}
	f.mu.Unlock()
	if terminal {
		f.done <- struct{}{}
	}
}

func (f *fakeSender) wait(t *testing.T) []tea.Msg {
	t.Helper()
	select {
	case <-f.done:
	case <-time.After(3 * time.Second):
		t.Fatal("stream runner did not finish")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]tea.Msg(nil), f.msgs...)
}

// fakeService replays scripted chunks or fails.
type fakeService struct {
	chunks []ollama.StreamChunk
	err    error
}

func (f *fakeService) ChatStream(ctx context.Context, modelName string, history []ollama.Message, callback func(ollama.StreamChunk) error) error {
	for _, chunk := range f.chunks {
		if err := callback(chunk); err != nil {
			return err
		}
	}
	return f.err
}

func TestStreamRunner_HappyPath(t *testing.T) {
	sender := newFakeSender()
	runner := NewStreamRunner(sender, &fakeService{chunks: []ollama.StreamChunk{
		{Model: "m", Content: "He"},
		{Model: "m", Content: "llo", Done: true},
	}})

	runner.Run(context.Background(), "turn-1", "m", nil)
	msgs := sender.wait(t)

	if _, ok := msgs[0].(StreamStartMsg); !ok {
		t.Fatalf("first message is %T, want StreamStartMsg", msgs[0])
	}
	var text string
	for _, msg := range msgs {
		if frag, ok := msg.(StreamFragmentMsg); ok {
			if frag.TurnID != "turn-1" {
				t.Errorf("fragment turn id = %q", frag.TurnID)
			}
			text += frag.Fragment.Content
		}
	}
	if text != "Hello" {
		t.Errorf("fragments concatenate to %q, want Hello", text)
	}
	if _, ok := msgs[len(msgs)-1].(StreamCompleteMsg); !ok {
		t.Errorf("last message is %T, want StreamCompleteMsg", msgs[len(msgs)-1])
	}
}

func TestStreamRunner_ErrorAfterFragments(t *testing.T) {
	sender := newFakeSender()
	cause := errors.New("connection dropped")
	runner := NewStreamRunner(sender, &fakeService{
		chunks: []ollama.StreamChunk{{Content: "part"}},
		err:    cause,
	})

	runner.Run(context.Background(), "turn-2", "m", nil)
	msgs := sender.wait(t)

	last, ok := msgs[len(msgs)-1].(StreamErrorMsg)
	if !ok {
		t.Fatalf("last message is %T, want StreamErrorMsg", msgs[len(msgs)-1])
	}
	if !errors.Is(last.Err, cause) {
		t.Errorf("error = %v, want %v", last.Err, cause)
	}

	// The fragment before the failure was still delivered.
	found := false
	for _, msg := range msgs {
		if frag, ok := msg.(StreamFragmentMsg); ok && frag.Fragment.Content == "part" {
			found = true
		}
	}
	if !found {
		t.Error("fragment delivered before failure was lost")
	}
}

func TestStreamRunner_CancelAfterDoneReportsComplete(t *testing.T) {
	// A context cancelled as the final fragment lands must not turn a
	// finished reply into an error.
	sender := newFakeSender()
	runner := NewStreamRunner(sender, &fakeService{
		chunks: []ollama.StreamChunk{{Content: "all", Done: true}},
		err:    context.Canceled,
	})

	runner.Run(context.Background(), "turn-3", "m", nil)
	msgs := sender.wait(t)

	if _, ok := msgs[len(msgs)-1].(StreamCompleteMsg); !ok {
		t.Errorf("last message is %T, want StreamCompleteMsg", msgs[len(msgs)-1])
	}
}

func TestStreamRunner_ErrorBeforeAnyFragment(t *testing.T) {
	sender := newFakeSender()
	runner := NewStreamRunner(sender, &fakeService{err: errors.New("boom")})

	runner.Run(context.Background(), "turn-4", "m", nil)
	msgs := sender.wait(t)

	if len(msgs) != 2 {
		t.Fatalf("messages = %d, want start + error", len(msgs))
	}
	if _, ok := msgs[1].(StreamErrorMsg); !ok {
		t.Errorf("second message is %T, want StreamErrorMsg", msgs[1])
	}
}
