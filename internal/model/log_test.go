// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"errors"
	"testing"
)

// =============================================================================
// FRAGMENT FOLDING
// =============================================================================

func TestLog_IncrementalFoldYieldsOneMessage(t *testing.T) {
	l := NewLog()
	l.SetViewportSize(80, 10)
	l.AppendUserTurn("llama3", "hi")

	l.AppendAssistantFragment(ResponseFragment{Model: "llama3", Content: "He"})
	l.AppendAssistantFragment(ResponseFragment{Model: "llama3", Content: "llo"})
	l.AppendAssistantFragment(ResponseFragment{Model: "llama3", Content: "!", Done: true})

	if l.Len() != 2 {
		t.Fatalf("Len = %d, want 2 (one user, one assistant)", l.Len())
	}
	last := l.LastMessage()
	if last.Role != RoleAssistant {
		t.Fatalf("last role = %v, want assistant", last.Role)
	}
	if last.Content != "Hello!" {
		t.Errorf("Content = %q, want concatenation %q", last.Content, "Hello!")
	}
	if len(last.Fragments()) != 3 {
		t.Errorf("retained %d fragments, want 3", len(last.Fragments()))
	}
	if last.Streaming {
		t.Error("message still streaming after Done fragment")
	}
}

func TestLog_FragmentWithoutOpenTurnBeginsOne(t *testing.T) {
	l := NewLog()
	l.AppendAssistantFragment(ResponseFragment{Content: "orphan"})
	if l.Len() != 1 {
		t.Fatalf("Len = %d, want 1", l.Len())
	}
	if l.LastMessage().Content != "orphan" {
		t.Errorf("fragment was lost: %q", l.LastMessage().Content)
	}
}

func TestLog_BatchFoldTurn(t *testing.T) {
	turn := NewTurn("llama3")
	turn.Observe(ResponseFragment{Model: "llama3", Content: "He"})
	turn.Observe(ResponseFragment{Model: "llama3", Content: "llo", Done: true})

	l := NewLog()
	l.SetViewportSize(80, 10)
	m := l.FoldTurn(turn)

	if l.Len() != 1 {
		t.Fatalf("Len = %d, want exactly one message per completed turn", l.Len())
	}
	if m.Content != "Hello" {
		t.Errorf("Content = %q, want %q", m.Content, "Hello")
	}
	if len(m.Fragments()) != 2 {
		t.Errorf("payloads lost: %d fragments retained, want 2", len(m.Fragments()))
	}
	if m.Streaming {
		t.Error("folded message marked streaming")
	}
}

func TestLog_UserTurnCarriesRequestPayload(t *testing.T) {
	l := NewLog()
	m := l.AppendUserTurn("mistral", "question")
	if len(m.Payloads) != 1 {
		t.Fatalf("payloads = %d, want 1", len(m.Payloads))
	}
	req, ok := m.Payloads[0].(OutgoingRequest)
	if !ok {
		t.Fatalf("payload is %T, want OutgoingRequest", m.Payloads[0])
	}
	if req.Model != "mistral" || req.Content != "question" {
		t.Errorf("request payload = %+v", req)
	}
}

// =============================================================================
// TURN STATE MACHINE
// =============================================================================

func TestTurn_StateTransitions(t *testing.T) {
	turn := NewTurn("m")
	if turn.State() != TurnAwaitingFirst {
		t.Fatalf("initial state = %v", turn.State())
	}

	turn.Observe(ResponseFragment{Content: "a"})
	if turn.State() != TurnAccumulating {
		t.Fatalf("state after first fragment = %v", turn.State())
	}

	turn.Observe(ResponseFragment{Content: "b", Done: true})
	if turn.State() != TurnComplete {
		t.Fatalf("state after done fragment = %v", turn.State())
	}

	// Terminal states hold.
	turn.Observe(ResponseFragment{Content: "late"})
	if turn.Concat() != "ab" {
		t.Errorf("fragment accepted after completion: %q", turn.Concat())
	}
	turn.Fail(errors.New("ignored"))
	if turn.State() != TurnComplete {
		t.Errorf("Fail overrode completed turn: %v", turn.State())
	}
}

func TestTurn_FailKeepsPartialFragments(t *testing.T) {
	turn := NewTurn("m")
	turn.Observe(ResponseFragment{Content: "partial"})
	cause := errors.New("connection dropped")
	turn.Fail(cause)

	if turn.State() != TurnFailed {
		t.Fatalf("state = %v, want failed", turn.State())
	}
	if !errors.Is(turn.Err(), cause) {
		t.Errorf("Err = %v, want %v", turn.Err(), cause)
	}
	if turn.Concat() != "partial" {
		t.Errorf("partial content lost: %q", turn.Concat())
	}
}

func TestTurn_FailBeforeFirstFragment(t *testing.T) {
	turn := NewTurn("m")
	turn.Fail(errors.New("boom"))
	if turn.State() != TurnFailed {
		t.Fatalf("state = %v, want failed", turn.State())
	}
	if len(turn.Fragments()) != 0 {
		t.Errorf("fragments = %d, want 0", len(turn.Fragments()))
	}
}

// =============================================================================
// SCROLLING
// =============================================================================

// fillLog appends enough single-line user turns to produce a known total
// line count: each message renders as header + one content line + blank.
func fillLog(l *Log, n int) {
	for i := 0; i < n; i++ {
		l.AppendUserTurn("m", "x")
	}
}

func TestLog_ScrollClampAfterAppend(t *testing.T) {
	l := NewLog()
	l.SetViewportSize(80, 5)
	fillLog(l, 4) // 12 lines

	l.ScrollBy(100)
	if got, want := l.ScrollOffset(), l.TotalLines()-5; got != want {
		t.Errorf("ScrollOffset = %d, want clamp at %d", got, want)
	}
	l.ScrollBy(-100)
	if l.ScrollOffset() != 0 {
		t.Errorf("ScrollOffset = %d, want clamp at 0", l.ScrollOffset())
	}
}

func TestLog_ScrollToEndShowsLastLine(t *testing.T) {
	l := NewLog()
	l.SetViewportSize(80, 4)
	fillLog(l, 10)

	l.ScrollToEnd()
	visible := l.VisibleLines()
	if len(visible) != 4 {
		t.Fatalf("visible lines = %d, want 4", len(visible))
	}
	if !l.AtEnd() {
		t.Error("AtEnd false after ScrollToEnd")
	}
	if l.ScrollOffset() != l.TotalLines()-4 {
		t.Errorf("offset = %d, want %d", l.ScrollOffset(), l.TotalLines()-4)
	}
}

func TestLog_ResizeReclampsOffset(t *testing.T) {
	l := NewLog()
	l.SetViewportSize(80, 3)
	fillLog(l, 10)
	l.ScrollToEnd()
	before := l.ScrollOffset()

	// Growing the viewport shrinks the valid range; the old offset must
	// not survive out of range.
	l.SetViewportSize(80, 25)
	if l.ScrollOffset() > l.TotalLines()-25 && l.TotalLines() > 25 {
		t.Errorf("offset %d out of range after resize (was %d)", l.ScrollOffset(), before)
	}
	if l.ScrollOffset() < 0 {
		t.Errorf("offset %d negative after resize", l.ScrollOffset())
	}
}

func TestLog_ShortLogNeverScrolls(t *testing.T) {
	l := NewLog()
	l.SetViewportSize(80, 50)
	fillLog(l, 2)

	l.ScrollBy(10)
	if l.ScrollOffset() != 0 {
		t.Errorf("offset = %d, want 0 when content fits viewport", l.ScrollOffset())
	}
	l.ScrollToEnd()
	if l.ScrollOffset() != 0 {
		t.Errorf("ScrollToEnd offset = %d, want 0", l.ScrollOffset())
	}
}

func TestLog_WideContentWrapsIntoLines(t *testing.T) {
	l := NewLog()
	l.SetViewportSize(4, 10)
	l.AppendUserTurn("m", "abcdefgh")
	// header + 2 wrapped lines + blank
	if got := l.TotalLines(); got != 4 {
		t.Errorf("TotalLines = %d, want 4", got)
	}
}

func TestLog_SystemNotice(t *testing.T) {
	l := NewLog()
	m := l.AppendSystemNotice("stream decode failed")
	if m.Role != RoleSystem {
		t.Errorf("role = %v, want system", m.Role)
	}
	if l.LastMessage() != m {
		t.Error("notice not appended at end")
	}
}
