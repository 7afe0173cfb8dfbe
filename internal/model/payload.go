// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// =============================================================================
// STRUCTURED PAYLOADS
// =============================================================================

// Payload is the structured record behind a message's rendered text. A
// user turn carries one OutgoingRequest; an assistant turn carries one
// ResponseFragment per streamed chunk. Payloads are retained verbatim for
// inspection and are never re-parsed by the log.
//
// The interface is sealed: only the two variants below implement it.
type Payload interface {
	payloadVariant()
}

// OutgoingRequest is the payload of a user turn: the request as it was
// handed to the chat transport.
type OutgoingRequest struct {
	Model   string
	Content string
}

func (OutgoingRequest) payloadVariant() {}

// ResponseFragment is one incremental unit of a streamed assistant reply.
// Done marks the final fragment of a turn.
type ResponseFragment struct {
	Model   string
	Content string
	Done    bool
}

func (ResponseFragment) payloadVariant() {}
