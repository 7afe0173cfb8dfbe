// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "golang.org/x/text/unicode/norm"

// =============================================================================
// INPUT EDITOR
// =============================================================================

// Editor is the single-line input buffer. The buffer is a rune sequence
// and the cursor is measured in runes, so a multi-byte character moves
// the cursor by exactly one position per key press. Invariant:
// 0 <= cursor <= len(buffer) at all times.
type Editor struct {
	buf    []rune
	cursor int
}

// NewEditor returns an empty editor with the cursor at position 0.
func NewEditor() *Editor {
	return &Editor{}
}

// Insert places r at the cursor and advances the cursor past it.
func (e *Editor) Insert(r rune) {
	e.buf = append(e.buf[:e.cursor], append([]rune{r}, e.buf[e.cursor:]...)...)
	e.cursor++
}

// InsertString inserts s at the cursor, NFC-normalized so pasted text
// with combining marks lands in composed form, and advances the cursor
// past it.
func (e *Editor) InsertString(s string) {
	runes := []rune(norm.NFC.String(s))
	if len(runes) == 0 {
		return
	}
	e.buf = append(e.buf[:e.cursor], append(runes, e.buf[e.cursor:]...)...)
	e.cursor += len(runes)
}

// DeleteBeforeCursor removes the rune immediately before the cursor and
// moves the cursor back one. No-op at position 0.
func (e *Editor) DeleteBeforeCursor() {
	if e.cursor == 0 {
		return
	}
	e.buf = append(e.buf[:e.cursor-1], e.buf[e.cursor:]...)
	e.cursor--
}

// MoveLeft moves the cursor one rune left, clamped at 0.
func (e *Editor) MoveLeft() {
	if e.cursor > 0 {
		e.cursor--
	}
}

// MoveRight moves the cursor one rune right, clamped at the buffer end.
func (e *Editor) MoveRight() {
	if e.cursor < len(e.buf) {
		e.cursor++
	}
}

// Clear resets the buffer and cursor, used after a message is submitted.
func (e *Editor) Clear() {
	e.buf = e.buf[:0]
	e.cursor = 0
}

// Content returns the buffer as a string.
func (e *Editor) Content() string {
	return string(e.buf)
}

// Len returns the buffer length in runes.
func (e *Editor) Len() int {
	return len(e.buf)
}

// Cursor returns the cursor position in runes.
func (e *Editor) Cursor() int {
	return e.cursor
}

// ByteOffsetOfCursor translates the rune cursor into the UTF-8 byte
// offset the terminal layer needs for cursor placement. Pure query.
func (e *Editor) ByteOffsetOfCursor() int {
	return len(string(e.buf[:e.cursor]))
}
