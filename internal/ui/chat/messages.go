// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/morganforge/ollama-tui/internal/config"
	"github.com/morganforge/ollama-tui/internal/model"
	"github.com/morganforge/ollama-tui/internal/ollama"
)

// Message types flowing through the update loop, grouped by source:
// server probes, catalog loading, the streaming turn, and config reload.

// =============================================================================
// SERVER / CATALOG MESSAGES
// =============================================================================

// OllamaStatusMsg reports the reachability probe.
type OllamaStatusMsg struct {
	Err error
}

// ModelsLoadedMsg carries the result of a catalog load. On error the
// catalog is left as it was and the failure is surfaced in the UI.
type ModelsLoadedMsg struct {
	Models []ollama.ModelInfo
	Err    error
}

// =============================================================================
// STREAMING MESSAGES
// =============================================================================

// StreamStartMsg announces that the request for a turn is on the wire.
type StreamStartMsg struct {
	TurnID string
}

// StreamFragmentMsg delivers one decoded fragment of the in-flight turn.
type StreamFragmentMsg struct {
	TurnID   string
	Fragment model.ResponseFragment
}

// StreamCompleteMsg announces that the stream ended cleanly.
type StreamCompleteMsg struct {
	TurnID string
}

// StreamErrorMsg announces that the stream failed. Fragments already
// delivered stay in the log.
type StreamErrorMsg struct {
	TurnID string
	Err    error
}

// =============================================================================
// CONFIG MESSAGES
// =============================================================================

// ConfigReloadedMsg arrives when the config file changes on disk.
type ConfigReloadedMsg struct {
	Config *config.Config
}
