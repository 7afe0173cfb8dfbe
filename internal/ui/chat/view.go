// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/morganforge/ollama-tui/internal/model"
	"github.com/morganforge/ollama-tui/internal/ollama"
	"github.com/morganforge/ollama-tui/internal/ui/components"
	"github.com/morganforge/ollama-tui/internal/util"
)

func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	switch m.mode {
	case ModeEditing:
		return m.viewEditing()
	default:
		return m.viewNormal()
	}
}

// =============================================================================
// NORMAL MODE: MODEL BROWSER
// =============================================================================

func (m *Model) viewNormal() string {
	var b strings.Builder

	b.WriteString(components.Banner(m.theme, m.width))
	b.WriteString("\n\n")

	b.WriteString(m.serverLine())
	b.WriteString("\n\n")

	if m.catalog.Len() == 0 {
		if m.modelsSeen {
			b.WriteString(m.theme.Hint.Render("  no models installed - try: ollama pull llama3"))
		} else {
			b.WriteString(m.theme.Hint.Render("  " + m.spinner.View() + " loading models..."))
		}
		b.WriteString("\n")
	} else {
		active, hasActive := m.catalog.ActiveModel()
		for i, entry := range m.catalog.Models() {
			b.WriteString(m.modelRow(entry, i, active, hasActive))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(m.theme.StatusBad.Render("  " + m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.theme.Hint.Render("  j/k select · enter confirm · i chat · r reload · q quit"))
	return b.String()
}

func (m *Model) serverLine() string {
	switch {
	case !m.probeDone:
		return m.theme.StatusBar.Render("  " + m.spinner.View() + " checking ollama...")
	case m.serverUp:
		return m.theme.StatusGood.Render("  ● ollama connected")
	default:
		return m.theme.StatusBad.Render("  ○ ollama unreachable")
	}
}

func (m *Model) modelRow(entry model.ModelEntry, idx int, active model.ModelEntry, hasActive bool) string {
	marker := "  "
	if idx == m.catalog.SelectedIndex() {
		marker = "➤ "
	}
	activeMark := " "
	if hasActive && entry.Name == active.Name {
		activeMark = "●"
	}

	meta := entry.ParameterSize
	if entry.QuantizationLevel != "" {
		meta += " " + entry.QuantizationLevel
	}
	if entry.Size > 0 {
		meta += " · " + ollama.FormatSize(entry.Size)
	}
	row := fmt.Sprintf("%s%s %-30s %s", marker, activeMark, util.TruncateRunes(entry.Name, 30), meta)

	if idx == m.catalog.SelectedIndex() {
		return m.theme.ModelSelected.Render(row)
	}
	if hasActive && entry.Name == active.Name {
		return m.theme.ModelActive.Render(row)
	}
	return m.theme.ModelRow.Render(row)
}

// =============================================================================
// EDITING MODE: CONVERSATION
// =============================================================================

func (m *Model) viewEditing() string {
	var b strings.Builder

	b.WriteString(m.titleLine())
	b.WriteString("\n")

	for _, line := range m.log.VisibleLines() {
		b.WriteString(m.styleLogLine(line))
		b.WriteString("\n")
	}

	b.WriteString(m.inputLine())
	b.WriteString("\n")
	b.WriteString(m.editingStatusLine())
	return b.String()
}

func (m *Model) titleLine() string {
	name := "?"
	if active, ok := m.catalog.ActiveModel(); ok {
		name = active.Name
	}
	title := m.theme.Title.Render(" " + name)
	if m.awaitingFirstFragment() {
		title += " " + m.spinner.View() + m.theme.Hint.Render(" thinking...")
	} else if m.turn != nil {
		title += m.theme.Hint.Render(" streaming...")
	}
	return title
}

// styleLogLine colors the author header lines the log emits; content
// lines pass through unstyled so widths stay exactly as counted.
func (m *Model) styleLogLine(line string) string {
	switch line {
	case model.RoleUser.DisplayName() + ":":
		return m.theme.UserLabel.Render(line)
	case model.RoleAssistant.DisplayName() + ":":
		return m.theme.AssistLabel.Render(line)
	case model.RoleSystem.DisplayName() + ":":
		return m.theme.SystemLabel.Render(line)
	default:
		return line
	}
}

// inputLine renders the prompt with a block cursor at the editor's
// position.
func (m *Model) inputLine() string {
	runes := []rune(m.editor.Content())
	cur := m.editor.Cursor()

	before := string(runes[:cur])
	under := " "
	after := ""
	if cur < len(runes) {
		under = string(runes[cur])
		after = string(runes[cur+1:])
	}

	return m.theme.InputPrompt.Render("> ") +
		m.theme.InputText.Render(before) +
		m.theme.InputCursor.Render(under) +
		m.theme.InputText.Render(after)
}

func (m *Model) editingStatusLine() string {
	if m.status != "" {
		return m.theme.StatusBad.Render(" " + m.status)
	}
	return m.theme.Hint.Render(" enter send · esc models · ↑/↓ scroll · ctrl+c quit")
}
