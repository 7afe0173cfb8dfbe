// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "strings"

// =============================================================================
// STREAMING TURN STATE MACHINE
// =============================================================================

// TurnState tracks one in-flight assistant turn. Transitions:
//
//	AwaitingFirst -> Accumulating  (first fragment arrives)
//	AwaitingFirst -> Failed        (error before any fragment)
//	Accumulating  -> Complete      (fragment with Done set)
//	Accumulating  -> Failed        (transport or decode error mid-stream)
//
// Complete and Failed are terminal.
type TurnState int

const (
	TurnAwaitingFirst TurnState = iota
	TurnAccumulating
	TurnComplete
	TurnFailed
)

func (s TurnState) String() string {
	switch s {
	case TurnAwaitingFirst:
		return "awaiting-first-fragment"
	case TurnAccumulating:
		return "accumulating"
	case TurnComplete:
		return "complete"
	case TurnFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Turn accumulates the fragments of one assistant reply and tracks where
// the stream stands. It exists so cancellation and partial turns are
// explicit states rather than ad hoc flags spread across the controller.
type Turn struct {
	Model     string
	fragments []ResponseFragment
	state     TurnState
	err       error
}

// NewTurn starts tracking a turn for the given model, awaiting its first
// fragment.
func NewTurn(modelName string) *Turn {
	return &Turn{Model: modelName, state: TurnAwaitingFirst}
}

// Observe records one fragment. The first fragment moves the turn to
// accumulating; a fragment with Done set completes it. Fragments arriving
// after a terminal state are dropped.
func (t *Turn) Observe(f ResponseFragment) {
	if t.state == TurnComplete || t.state == TurnFailed {
		return
	}
	t.fragments = append(t.fragments, f)
	if f.Done {
		t.state = TurnComplete
	} else {
		t.state = TurnAccumulating
	}
}

// Fail moves the turn to the failed state, keeping any fragments already
// received. No-op once the turn is complete.
func (t *Turn) Fail(err error) {
	if t.state == TurnComplete {
		return
	}
	t.state = TurnFailed
	t.err = err
}

// State returns the current turn state.
func (t *Turn) State() TurnState {
	return t.state
}

// Err returns the failure cause, if the turn failed.
func (t *Turn) Err() error {
	return t.err
}

// Fragments returns the fragments received so far, in arrival order.
func (t *Turn) Fragments() []ResponseFragment {
	return t.fragments
}

// Concat returns the in-order concatenation of all fragment text. This is
// the displayed content of a completed turn.
func (t *Turn) Concat() string {
	var b strings.Builder
	for _, f := range t.fragments {
		b.WriteString(f.Content)
	}
	return b.String()
}
