// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/morganforge/ollama-tui/internal/util"
)

// =============================================================================
// ROLES
// =============================================================================

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Assistant"
	case RoleSystem:
		return "System"
	default:
		return string(r)
	}
}

// =============================================================================
// MESSAGE
// =============================================================================

// Message is one entry in the conversation log: an author tag, the
// rendered text, and the structured payloads that produced it. Content is
// always derived from the payloads (a request's text, or the in-order
// concatenation of a turn's fragments) and grows in place while an
// assistant turn is streaming.
type Message struct {
	ID        string
	Role      Role
	Timestamp time.Time
	Content   string
	Payloads  []Payload

	// Streaming is true while an assistant turn is still receiving
	// fragments. The display layer defers markdown rendering until it
	// flips false.
	Streaming bool
}

// NewUserMessage creates a user message carrying the outgoing request as
// its single payload.
func NewUserMessage(modelName, content string) *Message {
	return &Message{
		ID:        generateID(),
		Role:      RoleUser,
		Timestamp: time.Now(),
		Content:   content,
		Payloads:  []Payload{OutgoingRequest{Model: modelName, Content: content}},
	}
}

// NewAssistantMessage creates an empty assistant message ready to
// accumulate streamed fragments.
func NewAssistantMessage() *Message {
	return &Message{
		ID:        generateID(),
		Role:      RoleAssistant,
		Timestamp: time.Now(),
		Streaming: true,
	}
}

// NewSystemMessage creates a system notice, used for inline error
// reporting in the log.
func NewSystemMessage(content string) *Message {
	return &Message{
		ID:        generateID(),
		Role:      RoleSystem,
		Timestamp: time.Now(),
		Content:   content,
	}
}

// AppendFragment folds one streamed fragment into the message: the
// fragment is retained as a payload and its text appended to the rendered
// content. Only meaningful on a streaming assistant message.
func (m *Message) AppendFragment(f ResponseFragment) {
	m.Payloads = append(m.Payloads, f)
	m.Content += f.Content
	if f.Done {
		m.Streaming = false
	}
}

// CompleteStream marks the message as no longer streaming.
func (m *Message) CompleteStream() {
	m.Streaming = false
}

// Fragments returns the response fragments retained by this message, in
// arrival order.
func (m *Message) Fragments() []ResponseFragment {
	var out []ResponseFragment
	for _, p := range m.Payloads {
		if f, ok := p.(ResponseFragment); ok {
			out = append(out, f)
		}
	}
	return out
}

// Preview returns the first maxRunes characters of the content, rune-safe.
func (m *Message) Preview(maxRunes int) string {
	return util.TruncateRunes(m.Content, maxRunes)
}

// IsEmpty reports whether the message has no visible content.
func (m *Message) IsEmpty() bool {
	return m.Content == ""
}

func generateID() string {
	return "msg_" + uuid.NewString()
}
