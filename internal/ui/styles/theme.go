// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// =============================================================================
// THEME
// =============================================================================

// Theme bundles the lipgloss styles the views compose from. Built once at
// startup after the terminal color profile is known.
type Theme struct {
	Profile termenv.Profile

	Banner        lipgloss.Style
	Title         lipgloss.Style
	StatusBar     lipgloss.Style
	StatusGood    lipgloss.Style
	StatusBad     lipgloss.Style
	Hint          lipgloss.Style
	ModelRow      lipgloss.Style
	ModelSelected lipgloss.Style
	ModelActive   lipgloss.Style
	UserLabel     lipgloss.Style
	AssistLabel   lipgloss.Style
	SystemLabel   lipgloss.Style
	SystemText    lipgloss.Style
	InputPrompt   lipgloss.Style
	InputText     lipgloss.Style
	InputCursor   lipgloss.Style
	Spinner       lipgloss.Style
	Frame         lipgloss.Style
}

// NewTheme builds the style set for the given color profile. The theme
// name forces dark or light rendering; "auto" trusts lipgloss detection.
func NewTheme(themeName string) Theme {
	profile := termenv.ColorProfile()
	switch themeName {
	case "dark":
		lipgloss.SetHasDarkBackground(true)
	case "light":
		lipgloss.SetHasDarkBackground(false)
	}

	return Theme{
		Profile: profile,

		Banner:        lipgloss.NewStyle().Foreground(Purple).Bold(true),
		Title:         lipgloss.NewStyle().Foreground(TextPrimary).Bold(true),
		StatusBar:     lipgloss.NewStyle().Foreground(TextMuted),
		StatusGood:    lipgloss.NewStyle().Foreground(Emerald),
		StatusBad:     lipgloss.NewStyle().Foreground(Rose),
		Hint:          lipgloss.NewStyle().Foreground(TextMuted).Italic(true),
		ModelRow:      lipgloss.NewStyle().Foreground(TextPrimary),
		ModelSelected: lipgloss.NewStyle().Foreground(Cyan).Background(SurfaceBright).Bold(true),
		ModelActive:   lipgloss.NewStyle().Foreground(Emerald).Bold(true),
		UserLabel:     lipgloss.NewStyle().Foreground(Cyan).Bold(true),
		AssistLabel:   lipgloss.NewStyle().Foreground(Purple).Bold(true),
		SystemLabel:   lipgloss.NewStyle().Foreground(Amber).Bold(true),
		SystemText:    lipgloss.NewStyle().Foreground(Amber),
		InputPrompt:   lipgloss.NewStyle().Foreground(Purple).Bold(true),
		InputText:     lipgloss.NewStyle().Foreground(TextPrimary),
		InputCursor:   lipgloss.NewStyle().Foreground(Surface).Background(TextPrimary),
		Spinner:       lipgloss.NewStyle().Foreground(Purple),
		Frame:         lipgloss.NewStyle().Foreground(Border),
	}
}
