// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ollama

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// =============================================================================
// LIST MODELS TESTS
// =============================================================================

func TestListModels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		fmt.Fprint(w, `{"models":[
			{"name":"llama3:8b","size":4661224676,"digest":"abc123",
			 "details":{"family":"llama","parameter_size":"8B","quantization_level":"Q4_0"}},
			{"name":"mistral:7b","size":4109865159,"digest":"def456",
			 "details":{"family":"mistral","parameter_size":"7B","quantization_level":"Q4_K_M"}}
		]}`)
	}))
	defer server.Close()

	c := New(Config{BaseURL: server.URL})
	models, err := c.ListModels(context.Background())
	if err != nil {
		t.Fatalf("ListModels failed: %v", err)
	}
	if len(models) != 2 {
		t.Fatalf("got %d models, want 2", len(models))
	}
	if models[0].Name != "llama3:8b" {
		t.Errorf("model order not preserved: first = %q", models[0].Name)
	}
	if models[1].Details.QuantizationLevel != "Q4_K_M" {
		t.Errorf("details not decoded: %+v", models[1].Details)
	}
}

func TestListModels_ServerDown(t *testing.T) {
	c := New(Config{BaseURL: "http://127.0.0.1:1", Timeout: time.Second})
	_, err := c.ListModels(context.Background())
	if err == nil {
		t.Fatal("expected error against closed port")
	}
	if !IsNotRunning(err) {
		// Any connection failure against a dead server must classify as
		// a recoverable transport condition, never panic or a raw error.
		var ce *ClientError
		if !asClientError(err, &ce) {
			t.Errorf("error is %T, want *ClientError", err)
		}
	}
}

func asClientError(err error, target **ClientError) bool {
	ce, ok := err.(*ClientError)
	if ok {
		*target = ce
	}
	return ok
}

// =============================================================================
// CHAT STREAM TESTS
// =============================================================================

func chatServer(t *testing.T, lines []string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/x-ndjson")
		for _, line := range lines {
			fmt.Fprintln(w, line)
			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}
		}
	}))
}

func TestChatStream_DeliversChunksInOrder(t *testing.T) {
	server := chatServer(t, []string{
		`{"model":"llama3","message":{"role":"assistant","content":"He"},"done":false}`,
		`{"model":"llama3","message":{"role":"assistant","content":"llo"},"done":false}`,
		`{"model":"llama3","message":{"role":"assistant","content":"!"},"done":true,"done_reason":"stop","eval_count":3}`,
	})
	defer server.Close()

	c := New(Config{BaseURL: server.URL})
	var acc StreamAccumulator
	err := c.ChatStream(context.Background(), "llama3", []Message{NewUserMessage("hi")}, func(chunk StreamChunk) error {
		acc.Add(chunk)
		return nil
	})
	if err != nil {
		t.Fatalf("ChatStream failed: %v", err)
	}
	if acc.Content() != "Hello!" {
		t.Errorf("accumulated %q, want %q", acc.Content(), "Hello!")
	}
	if !acc.Done {
		t.Error("final chunk not marked done")
	}
	if acc.Final.DoneReason != "stop" || acc.Final.CompletionTokens != 3 {
		t.Errorf("final chunk stats missing: %+v", acc.Final)
	}
}

func TestChatStream_MalformedLineIsDecodeError(t *testing.T) {
	server := chatServer(t, []string{
		`{"model":"llama3","message":{"role":"assistant","content":"ok"},"done":false}`,
		`{not json`,
	})
	defer server.Close()

	c := New(Config{BaseURL: server.URL})
	var got string
	err := c.ChatStream(context.Background(), "llama3", nil, func(chunk StreamChunk) error {
		got += chunk.Content
		return nil
	})
	if err == nil {
		t.Fatal("expected decode error")
	}
	if !IsDecode(err) {
		t.Errorf("error = %v, want decode classification", err)
	}
	if got != "ok" {
		t.Errorf("chunks before the bad line were lost: %q", got)
	}
}

func TestChatStream_BlankLinesSkipped(t *testing.T) {
	server := chatServer(t, []string{
		``,
		`{"model":"m","message":{"role":"assistant","content":"a"},"done":false}`,
		``,
		`{"model":"m","message":{"role":"assistant","content":"b"},"done":true}`,
	})
	defer server.Close()

	c := New(Config{BaseURL: server.URL})
	var got string
	if err := c.ChatStream(context.Background(), "m", nil, func(chunk StreamChunk) error {
		got += chunk.Content
		return nil
	}); err != nil {
		t.Fatalf("ChatStream failed: %v", err)
	}
	if got != "ab" {
		t.Errorf("got %q, want %q", got, "ab")
	}
}

func TestChatStream_ErrorBodyMidStream(t *testing.T) {
	server := chatServer(t, []string{
		`{"error":"model overloaded"}`,
	})
	defer server.Close()

	c := New(Config{BaseURL: server.URL})
	err := c.ChatStream(context.Background(), "m", nil, func(StreamChunk) error { return nil })
	if err == nil {
		t.Fatal("expected error from error body")
	}
}

func TestChatStream_ModelNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error":"model \"nope\" not found"}`)
	}))
	defer server.Close()

	c := New(Config{BaseURL: server.URL})
	err := c.ChatStream(context.Background(), "nope", nil, func(StreamChunk) error { return nil })
	if !IsModelNotFound(err) {
		t.Errorf("error = %v, want model-not-found classification", err)
	}
}

func TestChatStream_ContextCancellation(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"model":"m","message":{"role":"assistant","content":"x"},"done":false}`)
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		<-release
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	c := New(Config{BaseURL: server.URL})

	done := make(chan error, 1)
	go func() {
		done <- c.ChatStream(ctx, "m", nil, func(chunk StreamChunk) error {
			cancel()
			return nil
		})
	}()

	select {
	case err := <-done:
		if err == nil {
			t.Fatal("expected cancellation error")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("stream did not stop after cancel")
	}
}

func TestChatStreamChan(t *testing.T) {
	server := chatServer(t, []string{
		`{"model":"m","message":{"role":"assistant","content":"a"},"done":false}`,
		`{"model":"m","message":{"role":"assistant","content":"b"},"done":true}`,
	})
	defer server.Close()

	c := New(Config{BaseURL: server.URL})
	chunks, errc := c.ChatStreamChan(context.Background(), "m", nil)

	var got string
	for chunk := range chunks {
		got += chunk.Content
	}
	if err := <-errc; err != nil {
		t.Fatalf("stream error: %v", err)
	}
	if got != "ab" {
		t.Errorf("got %q, want %q", got, "ab")
	}
}

// =============================================================================
// MISC
// =============================================================================

func TestFormatSize(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{512, "512 B"},
		{2048, "2.0 KB"},
		{4661224676, "4.3 GB"},
	}
	for _, tt := range tests {
		if got := FormatSize(tt.bytes); got != tt.want {
			t.Errorf("FormatSize(%d) = %q, want %q", tt.bytes, got, tt.want)
		}
	}
}

func TestErrorClassificationHelpers(t *testing.T) {
	notRunning := &ClientError{Type: ErrTypeNotRunning, Message: "down", Cause: ErrNotRunning}
	if !IsNotRunning(notRunning) {
		t.Error("IsNotRunning false for not-running error")
	}
	if IsModelNotFound(notRunning) || IsTimeout(notRunning) || IsDecode(notRunning) {
		t.Error("not-running error matched an unrelated classifier")
	}

	decode := &ClientError{Type: ErrTypeDecode, Message: "bad line"}
	if !IsDecode(decode) {
		t.Error("IsDecode false for decode error")
	}
}
