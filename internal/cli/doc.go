// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli parses the command line and implements the non-TUI
// commands: the line-based chat REPL, one-shot ask, model listing, and
// server status.
package cli
