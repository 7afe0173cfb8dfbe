// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/key"
)

// =============================================================================
// KEY MAP
// =============================================================================

// KeyMap defines the keyboard bindings for both modes. Normal mode moves
// the catalog highlight; Editing mode types, scrolls, and submits.
type KeyMap struct {
	// Normal mode
	SelectNext     key.Binding
	SelectPrevious key.Binding
	Confirm        key.Binding
	EnterEdit      key.Binding
	Reload         key.Binding
	Quit           key.Binding

	// Editing mode
	Submit      key.Binding
	Backspace   key.Binding
	CursorLeft  key.Binding
	CursorRight key.Binding
	ScrollUp    key.Binding
	ScrollDown  key.Binding
	Escape      key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		SelectNext: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "next model"),
		),
		SelectPrevious: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "previous model"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "confirm model"),
		),
		EnterEdit: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "start chatting"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload models"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),

		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
		Backspace: key.NewBinding(
			key.WithKeys("backspace"),
			key.WithHelp("⌫", "delete"),
		),
		CursorLeft: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "cursor left"),
		),
		CursorRight: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "cursor right"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("up", "pgup"),
			key.WithHelp("↑", "scroll up"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("down", "pgdown"),
			key.WithHelp("↓", "scroll down"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back to models"),
		),
	}
}
