// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ollama

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"time"
)

// =============================================================================
// NDJSON STREAM READER
// =============================================================================

// StreamReader decodes a newline-delimited JSON chat stream. Each line is
// one chunk; the line carrying done=true terminates the stream and also
// carries the generation statistics.
type StreamReader struct {
	reader *bufio.Reader
}

// NewStreamReader wraps a response body.
func NewStreamReader(r io.Reader) *StreamReader {
	return &StreamReader{reader: bufio.NewReader(r)}
}

// Process reads chunks until the stream completes, the context is
// cancelled, or a line fails to decode. A malformed line terminates the
// stream with a Decode ClientError: the chunk boundary is lost at that
// point and resynchronizing would risk misattributing content.
func (s *StreamReader) Process(ctx context.Context, callback func(StreamChunk) error) error {
	for {
		select {
		case <-ctx.Done():
			return &ClientError{Type: ErrTypeTimeout, Message: "stream cancelled", Cause: ctx.Err()}
		default:
		}

		chunk, err := s.readChunk()
		if err != nil {
			if errors.Is(err, io.EOF) {
				// Server closed without a done chunk. Treat as complete;
				// the caller already has every fragment that arrived.
				return nil
			}
			return err
		}
		if chunk == nil {
			continue // blank line
		}

		if err := callback(*chunk); err != nil {
			return err
		}
		if chunk.Done {
			return nil
		}
	}
}

// readChunk reads one NDJSON line. Returns (nil, nil) for blank lines.
func (s *StreamReader) readChunk() (*StreamChunk, error) {
	line, err := s.reader.ReadBytes('\n')
	if len(line) == 0 && err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, &ClientError{Type: ErrTypeConnection, Message: "stream read failed", Cause: err}
	}

	trimmed := strings.TrimSpace(string(line))
	if trimmed == "" {
		if err != nil {
			return nil, io.EOF
		}
		return nil, nil
	}

	var resp chatStreamResponse
	if jsonErr := json.Unmarshal([]byte(trimmed), &resp); jsonErr != nil {
		return nil, &ClientError{
			Type:    ErrTypeDecode,
			Message: "failed to decode stream chunk",
			Cause:   jsonErr,
		}
	}

	// An error body can arrive mid-stream as its own line.
	var apiErr apiError
	if json.Unmarshal([]byte(trimmed), &apiErr) == nil && apiErr.Error != "" {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: apiErr.Error}
	}

	return &StreamChunk{
		Model:            resp.Model,
		Content:          resp.Message.Content,
		Done:             resp.Done,
		DoneReason:       resp.DoneReason,
		CompletionTokens: resp.EvalCount,
		TotalDuration:    time.Duration(resp.TotalDuration),
	}, nil
}

// =============================================================================
// ACCUMULATOR
// =============================================================================

// StreamAccumulator collects chunks into the full response text, for
// non-interactive callers like the REPL.
type StreamAccumulator struct {
	content strings.Builder
	Done    bool
	Final   StreamChunk
}

// Add folds one chunk into the accumulator.
func (a *StreamAccumulator) Add(chunk StreamChunk) {
	a.content.WriteString(chunk.Content)
	if chunk.Done {
		a.Done = true
		a.Final = chunk
	}
}

// Content returns the accumulated response text.
func (a *StreamAccumulator) Content() string {
	return a.content.String()
}
