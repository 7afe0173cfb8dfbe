// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ollama is the HTTP client for a local Ollama server: model
// listing via /api/tags and streaming chat via /api/chat. Responses
// stream as newline-delimited JSON; the reader decodes one chunk per
// line and hands each to a callback. All failures surface as typed
// ClientError values so callers can distinguish a server that is not
// running from a missing model or a malformed stream.
package ollama
