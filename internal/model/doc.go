// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the session state: the model catalog with its
// selection cursor, the rune-addressed input editor, the append-only
// conversation log with its scroll viewport, and the per-turn streaming
// state machine. Everything here is plain data owned by a single
// goroutine; rendering and transport live elsewhere.
package model
