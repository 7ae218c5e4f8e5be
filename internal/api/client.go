// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api is the HTTP transport for the chat service: authentication,
// registration, prompt submission, history, and recent chats.
package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Configuration constants for the chat API.
const (
	// DefaultTimeout is the default timeout for API requests.
	DefaultTimeout = 60 * time.Second

	// MaxResponseSize is the maximum allowed response body size.
	// SECURITY: Response size limit prevents memory exhaustion.
	MaxResponseSize = 10 * 1024 * 1024

	// GenericErrorMessage is shown when a failure carries no server message.
	GenericErrorMessage = "An error occurred. Please try again."
)

// API paths.
const (
	PathAuthenticate = "/api/v1/auth/user/authenticate"
	PathRegister     = "/api/v1/auth/user/register"
	PathPrompt       = "/api/v1/chat/prompt"
	PathRecent       = "/api/v1/chat/recent"
	pathHistoryFmt   = "/api/v1/chat/%s/chat_messages"
)

// PERFORMANCE: Connection pooling reduces TCP handshake overhead.
// Every Client shares this transport.
var sharedTransport = &http.Transport{
	Proxy:               http.ProxyFromEnvironment,
	MaxIdleConns:        20,
	MaxIdleConnsPerHost: 10,
	IdleConnTimeout:     90 * time.Second,
	TLSHandshakeTimeout: 10 * time.Second,
	TLSClientConfig: &tls.Config{
		MinVersion: tls.VersionTLS12,
	},
}

// Error variables for common API failures.
var (
	// ErrNotSignedIn indicates a bearer call was made without a token.
	ErrNotSignedIn = errors.New("not signed in")

	// ErrUnauthorized indicates the server rejected the token.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNoRoomID indicates a prompt response carried no room id.
	ErrNoRoomID = errors.New("server did not assign a room id")

	// ErrInvalidResponse indicates the body could not be decoded.
	ErrInvalidResponse = errors.New("invalid response")
)

// APIError is a failure reported by the server, either through the
// envelope's error flag or through a non-2xx status.
type APIError struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("chat API error (HTTP %d)", e.Status)
	}
	return fmt.Sprintf("chat API error (HTTP %d): %s", e.Status, e.Message)
}

// Unwrap maps authorization statuses onto ErrUnauthorized.
func (e *APIError) Unwrap() error {
	if e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden {
		return ErrUnauthorized
	}
	return nil
}

// ServerMessage returns the message the server attached to err, or "".
func ServerMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

// MessageOr returns the server message carried by err, or fallback.
func MessageOr(err error, fallback string) string {
	if msg := ServerMessage(err); msg != "" {
		return msg
	}
	return fallback
}

// envelope is the common response wrapper.
type envelope struct {
	Error   bool            `json:"error"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// TokenSource supplies the bearer token at call time.
type TokenSource interface {
	Token() string
}

// StaticToken is a TokenSource that always returns the same token.
type StaticToken string

// Token implements TokenSource.
func (t StaticToken) Token() string { return string(t) }

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the chat API. It is safe for concurrent use.
type Client struct {
	baseURL        string
	tokens         TokenSource
	httpClient     *http.Client
	limiter        *rate.Limiter
	numericRoomIDs bool
}

// NewClient creates a client for baseURL. tokens may be nil when only the
// unauthenticated endpoints are used.
func NewClient(baseURL string, tokens TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		httpClient: &http.Client{
			Transport: sharedTransport,
			Timeout:   DefaultTimeout,
		},
		numericRoomIDs: true,
	}
}

// WithTimeout sets the per-request timeout; zero disables it.
func (c *Client) WithTimeout(d time.Duration) *Client {
	c.httpClient.Timeout = d
	return c
}

// WithRateLimit caps outbound requests per second; zero disables limiting.
func (c *Client) WithRateLimit(perSecond float64) *Client {
	if perSecond <= 0 {
		c.limiter = nil
		return c
	}
	c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	return c
}

// WithNumericRoomIDs controls whether numeric room ids are sent as JSON numbers.
func (c *Client) WithNumericRoomIDs(numeric bool) *Client {
	c.numericRoomIDs = numeric
	return c
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// =============================================================================
// REQUEST PLUMBING
// =============================================================================

// do sends a request and decodes the envelope's data into out.
func (c *Client) do(ctx context.Context, method, path string, body any, bearer bool, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit wait: %w", err)
		}
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer {
		token := ""
		if c.tokens != nil {
			token = c.tokens.Token()
		}
		if token == "" {
			return ErrNotSignedIn
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Debug("api request failed", "method", method, "path", path, "error", err)
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	// SECURITY: The Authorization header is never logged.
	slog.Debug("api request", "method", method, "path", path,
		"status", resp.StatusCode, "duration", time.Since(start))

	raw, err := readResponse(resp)
	if err != nil {
		return err
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return handleErrorResponse(resp.StatusCode, env, decodeErr)
	}
	if decodeErr != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, decodeErr)
	}
	if env.Error {
		return &APIError{Status: resp.StatusCode, Message: env.Message}
	}

	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}

// readResponse reads a size-limited body.
func readResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) > MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}
	return body, nil
}

// handleErrorResponse keeps the server's message when the body had one.
func handleErrorResponse(status int, env envelope, decodeErr error) error {
	msg := ""
	if decodeErr == nil {
		msg = env.Message
	}
	return &APIError{Status: status, Message: msg}
}
