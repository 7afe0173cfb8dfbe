// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components holds small self-contained view pieces shared by
// the TUI screens.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/morganforge/ollama-tui/internal/ui/styles"
)

const banner = `
       _ _                             _         _
  ___ | | | __ _ _ __ ___   __ _      | |_ _   _(_)
 / _ \| | |/ _` + "`" + ` | '_ ` + "`" + ` _ \ / _` + "`" + ` |_____| __| | | | |
| (_) | | | (_| | | | | | | (_| |_____| |_| |_| | |
 \___/|_|_|\__,_|_| |_| |_|\__,_|      \__|\__,_|_|`

// Banner renders the startup banner centered in the given width. Falls
// back to a plain title line when the art does not fit.
func Banner(theme styles.Theme, width int) string {
	lines := strings.Split(strings.TrimPrefix(banner, "\n"), "\n")
	artWidth := 0
	for _, l := range lines {
		if len(l) > artWidth {
			artWidth = len(l)
		}
	}
	if width > 0 && artWidth > width {
		return theme.Banner.Render("ollama-tui")
	}
	styled := theme.Banner.Render(strings.Join(lines, "\n"))
	if width <= 0 {
		return styled
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, styled)
}
