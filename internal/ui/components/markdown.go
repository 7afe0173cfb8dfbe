// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// MarkdownRenderer renders completed assistant turns as terminal
// markdown. It is rebuilt on resize so word wrap follows the window.
// A nil or failed renderer degrades to plain text.
type MarkdownRenderer struct {
	renderer *glamour.TermRenderer
	width    int
}

// NewMarkdownRenderer builds a renderer wrapping at the given width.
func NewMarkdownRenderer(width int) *MarkdownRenderer {
	if width < 10 {
		width = 10
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		r = nil
	}
	return &MarkdownRenderer{renderer: r, width: width}
}

// Resize rebuilds the renderer when the wrap width changes.
func (m *MarkdownRenderer) Resize(width int) {
	if width == m.width {
		return
	}
	*m = *NewMarkdownRenderer(width)
}

// Render returns the markdown rendering of text, or the text unchanged
// when rendering is unavailable or fails.
func (m *MarkdownRenderer) Render(text string) string {
	if m == nil || m.renderer == nil {
		return text
	}
	out, err := m.renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}
