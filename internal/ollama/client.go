// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ErrorType classifies client failures so the UI can react appropriately.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeNotRunning
	ErrTypeTimeout
	ErrTypeModelNotFound
	ErrTypeConnection
	ErrTypeInvalidResponse
	ErrTypeDecode
)

// ClientError wraps all failures from this package with a type tag, a
// user-presentable message, and the underlying cause.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

var (
	ErrNotRunning    = errors.New("ollama is not running")
	ErrTimeout       = errors.New("request timed out")
	ErrModelNotFound = errors.New("model not found")
)

// IsNotRunning reports whether err means the server is unreachable.
func IsNotRunning(err error) bool {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce.Type == ErrTypeNotRunning
	}
	return errors.Is(err, ErrNotRunning)
}

// IsModelNotFound reports whether err means the requested model is not
// installed.
func IsModelNotFound(err error) bool {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce.Type == ErrTypeModelNotFound
	}
	return errors.Is(err, ErrModelNotFound)
}

// IsTimeout reports whether err is a timeout.
func IsTimeout(err error) bool {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce.Type == ErrTypeTimeout
	}
	return errors.Is(err, ErrTimeout)
}

// IsDecode reports whether err means the stream produced a line that
// could not be interpreted.
func IsDecode(err error) bool {
	var ce *ClientError
	return errors.As(err, &ce) && ce.Type == ErrTypeDecode
}

// =============================================================================
// CLIENT
// =============================================================================

// Config holds client settings.
type Config struct {
	// BaseURL of the Ollama server.
	BaseURL string
	// Timeout for non-streaming requests.
	Timeout time.Duration
	// AutoStart launches "ollama serve" when the server is unreachable.
	AutoStart bool
}

// DefaultConfig returns settings for a local default installation.
func DefaultConfig() Config {
	return Config{
		BaseURL: "http://127.0.0.1:11434",
		Timeout: 30 * time.Second,
	}
}

// Client talks to one Ollama server. Safe for concurrent use.
type Client struct {
	cfg Config
	// httpClient serves non-streaming requests with cfg.Timeout.
	httpClient *http.Client
	// streamClient has no overall timeout: a chat stream legitimately
	// outlives any fixed deadline. Cancellation comes from the context.
	streamClient *http.Client
}

// New creates a client. Zero-valued config fields fall back to defaults.
func New(cfg Config) *Client {
	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = def.Timeout
	}
	return &Client{
		cfg:          cfg,
		httpClient:   &http.Client{Timeout: cfg.Timeout},
		streamClient: &http.Client{},
	}
}

// BaseURL returns the configured server address.
func (c *Client) BaseURL() string {
	return c.cfg.BaseURL
}

// CheckRunning probes the server root and returns nil when reachable.
func (c *Client) CheckRunning(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/", nil)
	if err != nil {
		return &ClientError{Type: ErrTypeConnection, Message: "failed to build request", Cause: err}
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &ClientError{Type: ErrTypeNotRunning, Message: "ollama is not running", Cause: err}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return nil
}

// EnsureRunning checks the server and, when AutoStart is set, launches it
// and waits for it to come up.
func (c *Client) EnsureRunning(ctx context.Context) error {
	if err := c.CheckRunning(ctx); err == nil {
		return nil
	}
	if !c.cfg.AutoStart {
		return &ClientError{Type: ErrTypeNotRunning, Message: "ollama is not running", Cause: ErrNotRunning}
	}
	return c.startOllamaProcess(ctx)
}

// ListModels fetches the installed models from GET /api/tags. Order is
// as reported by the server.
func (c *Client) ListModels(ctx context.Context) ([]ModelInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/api/tags", nil)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeConnection, Message: "failed to build request", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.classifyTransportError(err, "failed to list models")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.errorFromResponse(resp)
	}

	var list ListModelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode model list", Cause: err}
	}
	return list.Models, nil
}

// ChatStream sends the conversation to /api/chat with streaming enabled
// and invokes callback for every decoded chunk, in order, on the calling
// goroutine. It returns when the final chunk has been delivered, the
// context is cancelled, or the stream fails.
func (c *Client) ChatStream(ctx context.Context, model string, history []Message, callback func(StreamChunk) error) error {
	body, err := json.Marshal(ChatRequest{Model: model, Messages: history, Stream: true})
	if err != nil {
		return &ClientError{Type: ErrTypeUnknown, Message: "failed to encode chat request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return &ClientError{Type: ErrTypeConnection, Message: "failed to build request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.streamClient.Do(req)
	if err != nil {
		return c.classifyTransportError(err, "chat request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.errorFromResponse(resp)
	}

	return NewStreamReader(resp.Body).Process(ctx, callback)
}

// ChatStreamChan is the channel form of ChatStream for callers that
// consume chunks from a select loop. The channel closes when the stream
// ends; a terminal error arrives as a final chunk-free send on errc.
func (c *Client) ChatStreamChan(ctx context.Context, model string, history []Message) (<-chan StreamChunk, <-chan error) {
	chunks := make(chan StreamChunk)
	errc := make(chan error, 1)
	go func() {
		defer close(chunks)
		err := c.ChatStream(ctx, model, history, func(chunk StreamChunk) error {
			select {
			case chunks <- chunk:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		if err != nil {
			errc <- err
		}
		close(errc)
	}()
	return chunks, errc
}

// =============================================================================
// ERROR CLASSIFICATION
// =============================================================================

func (c *Client) classifyTransportError(err error, msg string) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &ClientError{Type: ErrTypeTimeout, Message: msg, Cause: ErrTimeout}
	}
	var ce *ClientError
	if errors.As(err, &ce) {
		return err
	}
	if strings.Contains(err.Error(), "connection refused") {
		return &ClientError{Type: ErrTypeNotRunning, Message: "ollama is not running", Cause: err}
	}
	return &ClientError{Type: ErrTypeConnection, Message: msg, Cause: err}
}

func (c *Client) errorFromResponse(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var apiErr apiError
	detail := strings.TrimSpace(string(body))
	if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
		detail = apiErr.Error
	}

	if resp.StatusCode == http.StatusNotFound || strings.Contains(detail, "not found") {
		return &ClientError{
			Type:    ErrTypeModelNotFound,
			Message: detail,
			Cause:   ErrModelNotFound,
		}
	}
	return &ClientError{
		Type:    ErrTypeInvalidResponse,
		Message: fmt.Sprintf("server returned %d: %s", resp.StatusCode, detail),
	}
}
