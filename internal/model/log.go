// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"github.com/morganforge/ollama-tui/internal/util"
)

// =============================================================================
// CONVERSATION LOG
// =============================================================================

// Log is the append-only conversation history plus its scroll viewport.
// Messages are never removed or reordered. The scroll offset is the first
// visible line, clamped to [0, max(0, totalLines-viewportHeight)] after
// every append, scroll, and resize, so a previously valid offset never
// goes out of range.
type Log struct {
	messages       []*Message
	scrollOffset   int
	viewportWidth  int
	viewportHeight int
}

// NewLog returns an empty log. Viewport dimensions arrive with the first
// resize event; until then the log renders zero visible lines.
func NewLog() *Log {
	return &Log{}
}

// AppendUserTurn appends a user message carrying the outgoing request
// payload.
func (l *Log) AppendUserTurn(modelName, text string) *Message {
	m := NewUserMessage(modelName, text)
	l.messages = append(l.messages, m)
	l.clamp()
	return m
}

// BeginAssistantTurn appends an empty streaming assistant message for the
// incremental-append folding policy. Fragments grow it in place via
// AppendAssistantFragment.
func (l *Log) BeginAssistantTurn() *Message {
	m := NewAssistantMessage()
	l.messages = append(l.messages, m)
	l.clamp()
	return m
}

// AppendAssistantFragment folds one streamed fragment into the open
// assistant turn. If no assistant message is streaming, one is begun
// first, so a fragment is never lost. The offset is re-clamped in the
// same call: fold-then-reclamp is atomic from the viewport's view.
func (l *Log) AppendAssistantFragment(f ResponseFragment) *Message {
	m := l.streamingMessage()
	if m == nil {
		m = l.BeginAssistantTurn()
	}
	m.AppendFragment(f)
	l.clamp()
	return m
}

// FoldTurn appends one assistant message built from a finished turn: the
// batch folding policy. The displayed content is the concatenation of all
// fragment text and the payload list retains every fragment.
func (l *Log) FoldTurn(t *Turn) *Message {
	m := NewAssistantMessage()
	for _, f := range t.Fragments() {
		m.AppendFragment(f)
	}
	m.CompleteStream()
	l.messages = append(l.messages, m)
	l.clamp()
	return m
}

// AppendSystemNotice appends a system message, used to surface errors in
// conversation context.
func (l *Log) AppendSystemNotice(text string) *Message {
	m := NewSystemMessage(text)
	l.messages = append(l.messages, m)
	l.clamp()
	return m
}

// streamingMessage returns the trailing assistant message still receiving
// fragments, or nil.
func (l *Log) streamingMessage() *Message {
	if len(l.messages) == 0 {
		return nil
	}
	last := l.messages[len(l.messages)-1]
	if last.Role == RoleAssistant && last.Streaming {
		return last
	}
	return nil
}

// =============================================================================
// SCROLLING
// =============================================================================

// ScrollBy adjusts the scroll offset by delta lines, clamped to the valid
// range.
func (l *Log) ScrollBy(delta int) {
	l.scrollOffset += delta
	l.clamp()
}

// ScrollToEnd positions the viewport so the last line is visible.
func (l *Log) ScrollToEnd() {
	l.scrollOffset = l.maxScroll()
}

// SetViewportSize records the display area and re-clamps the offset
// against the new height.
func (l *Log) SetViewportSize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	l.viewportWidth = width
	l.viewportHeight = height
	l.clamp()
}

// ScrollOffset returns the index of the first visible line.
func (l *Log) ScrollOffset() int {
	return l.scrollOffset
}

// AtEnd reports whether the last line is currently visible. The chat view
// uses it to keep auto-following the stream only while the user has not
// scrolled away.
func (l *Log) AtEnd() bool {
	return l.scrollOffset == l.maxScroll()
}

func (l *Log) maxScroll() int {
	m := l.TotalLines() - l.viewportHeight
	if m < 0 {
		return 0
	}
	return m
}

func (l *Log) clamp() {
	if l.scrollOffset < 0 {
		l.scrollOffset = 0
	}
	if m := l.maxScroll(); l.scrollOffset > m {
		l.scrollOffset = m
	}
}

// =============================================================================
// LINE ACCOUNTING
// =============================================================================

// messageLines renders one message as display lines: a header line with
// the author name, the content wrapped to the viewport width, and a blank
// separator.
func (l *Log) messageLines(m *Message) []string {
	lines := []string{m.Role.DisplayName() + ":"}
	lines = append(lines, util.WrapToWidth(m.Content, l.viewportWidth)...)
	return append(lines, "")
}

// TotalLines returns the number of display lines the whole log occupies
// at the current viewport width.
func (l *Log) TotalLines() int {
	n := 0
	for _, m := range l.messages {
		n += len(l.messageLines(m))
	}
	return n
}

// VisibleLines returns the slice of display lines inside the viewport,
// from the scroll offset down to at most viewportHeight lines.
func (l *Log) VisibleLines() []string {
	var all []string
	for _, m := range l.messages {
		all = append(all, l.messageLines(m)...)
	}
	if l.scrollOffset >= len(all) {
		return nil
	}
	end := l.scrollOffset + l.viewportHeight
	if end > len(all) {
		end = len(all)
	}
	return all[l.scrollOffset:end]
}

// Messages returns the history in append order. Callers must treat it as
// read-only.
func (l *Log) Messages() []*Message {
	return l.messages
}

// LastMessage returns the most recent message, or nil on an empty log.
func (l *Log) LastMessage() *Message {
	if len(l.messages) == 0 {
		return nil
	}
	return l.messages[len(l.messages)-1]
}

// Len returns the number of messages.
func (l *Log) Len() int {
	return len(l.messages)
}
