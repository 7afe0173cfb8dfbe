// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "testing"

func TestRole_DisplayName(t *testing.T) {
	tests := []struct {
		role Role
		want string
	}{
		{RoleUser, "You"},
		{RoleAssistant, "Assistant"},
		{RoleSystem, "System"},
		{Role("tool"), "tool"},
	}
	for _, tt := range tests {
		if got := tt.role.DisplayName(); got != tt.want {
			t.Errorf("DisplayName(%q) = %q, want %q", tt.role, got, tt.want)
		}
	}
}

func TestNewAssistantMessage_StartsStreaming(t *testing.T) {
	m := NewAssistantMessage()
	if !m.Streaming {
		t.Error("new assistant message not streaming")
	}
	if !m.IsEmpty() {
		t.Error("new assistant message has content")
	}
	if m.ID == "" {
		t.Error("message ID empty")
	}
}

func TestMessage_AppendFragment(t *testing.T) {
	m := NewAssistantMessage()
	m.AppendFragment(ResponseFragment{Model: "m", Content: "Hel"})
	m.AppendFragment(ResponseFragment{Model: "m", Content: "lo", Done: true})

	if m.Content != "Hello" {
		t.Errorf("Content = %q, want Hello", m.Content)
	}
	if m.Streaming {
		t.Error("still streaming after Done fragment")
	}
	frags := m.Fragments()
	if len(frags) != 2 || frags[0].Content != "Hel" || frags[1].Content != "lo" {
		t.Errorf("fragments out of order or lost: %+v", frags)
	}
}

func TestMessage_UniqueIDs(t *testing.T) {
	a := NewUserMessage("m", "x")
	b := NewUserMessage("m", "x")
	if a.ID == b.ID {
		t.Errorf("two messages share ID %q", a.ID)
	}
}

func TestMessage_Preview(t *testing.T) {
	m := NewSystemMessage("日本語のテキストです")
	if got := m.Preview(5); got != "日本..." {
		t.Errorf("Preview = %q", got)
	}
}
