// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat is the interactive session: a Bubble Tea model with two
// modes. Normal mode browses the model catalog; Editing mode types into
// the input buffer and scrolls the conversation. Streamed response
// fragments arrive as messages on the program's update loop, so every
// state mutation happens on one goroutine and no locking is needed.
package chat
