// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads and saves the TOML configuration at
// ~/.ollama-tui/config.toml. Absent fields fall back to defaults and
// OLLAMA_TUI_* environment variables override the file. A file watcher
// reloads edits made while the program runs.
package config
