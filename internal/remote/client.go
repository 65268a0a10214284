// ABOUTME: Generic authenticated HTTP client for the hosted data namespace
// ABOUTME: Applies the apikey/bearer headers and the 401 refresh-retry policy

package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// APIError is a non-2xx response from the hosted service, carried as a
// value. Callers branch on it; it never crosses the component boundary as
// a panic.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// DecodeError extracts a human-readable message from an error response
// body. Precedence: msg, then error_description, then error, else a
// generic HTTP status message. Shared by the auth and data namespaces.
func DecodeError(status int, body []byte) *APIError {
	var payload struct {
		Msg              string `json:"msg"`
		ErrorDescription string `json:"error_description"`
		Err              string `json:"error"`
	}

	msg := fmt.Sprintf("HTTP error %d", status)
	if err := json.Unmarshal(body, &payload); err == nil {
		switch {
		case payload.Msg != "":
			msg = payload.Msg
		case payload.ErrorDescription != "":
			msg = payload.ErrorDescription
		case payload.Err != "":
			msg = payload.Err
		}
	}

	return &APIError{Status: status, Message: msg}
}

// RetryPolicy decides whether a failed authenticated request may be
// replayed after a token refresh. The budget is per logical call, not
// global: concurrent 401s each run their own refresh.
type RetryPolicy struct {
	// MaxRetries is the number of replays allowed after the initial
	// attempt. The service contract is exactly one.
	MaxRetries int
}

// DefaultRetryPolicy replays once on 401 for authenticated requests.
var DefaultRetryPolicy = RetryPolicy{MaxRetries: 1}

// ShouldRetry reports whether an authenticated request that failed with
// the given status may be replayed. attempt is zero-based: the initial
// request is attempt 0.
func (p RetryPolicy) ShouldRetry(status int, authed bool, attempt int) bool {
	return status == http.StatusUnauthorized && authed && attempt < p.MaxRetries
}

// TokenSource supplies the bearer token for authenticated requests and
// refreshes it when the service reports it expired. The session manager
// implements this.
type TokenSource interface {
	// AccessToken returns the current token, or "" when no session exists.
	AccessToken() string

	// Refresh exchanges the refresh token for a new pair. It reports
	// success; a failure leaves session handling to the caller.
	Refresh(ctx context.Context) bool
}

// Client is the generic request wrapper for the data namespace. It is
// safe for use from the sequential command dispatcher; it holds no
// mutable state of its own.
type Client struct {
	baseURL string
	apiKey  string
	tokens  TokenSource
	policy  RetryPolicy
	http    *http.Client
	logger  *slog.Logger
}

// NewClient creates a data-namespace client rooted at baseURL (the service
// base, without the /rest/v1 prefix).
func NewClient(baseURL, apiKey string, tokens TokenSource) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		tokens:  tokens,
		policy:  DefaultRetryPolicy,
		http:    http.DefaultClient,
		logger:  slog.Default().With("component", "remote"),
	}
}

// WithPolicy overrides the retry policy. Used by tests; production code
// keeps the default one-replay budget.
func (c *Client) WithPolicy(p RetryPolicy) *Client {
	c.policy = p
	return c
}

// WithHTTPClient overrides the underlying HTTP client.
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	c.http = h
	return c
}

// Do performs one logical request against the data namespace. path is
// relative to /rest/v1 and may carry query parameters. A nil body sends no
// payload. When authed is set the current access token is attached, and a
// 401 triggers at most one refresh-and-replay per the policy.
//
// The returned payload is nil for 204 responses and the raw JSON body
// otherwise. Failures come back as *APIError values.
func (c *Client) Do(ctx context.Context, method, path string, body []byte, authed bool, headers http.Header) (json.RawMessage, error) {
	for attempt := 0; ; attempt++ {
		payload, status, err := c.once(ctx, method, path, body, authed, headers)
		if err != nil {
			return nil, err
		}

		if status >= 200 && status < 300 {
			return payload, nil
		}

		if c.policy.ShouldRetry(status, authed, attempt) {
			c.logger.Debug("access token rejected, refreshing", "path", path)
			if c.tokens.Refresh(ctx) {
				continue
			}
			// Refresh failed: propagate the original 401.
		}

		return nil, DecodeError(status, payload)
	}
}

// once performs a single HTTP round trip and returns the body and status.
func (c *Client) once(ctx context.Context, method, path string, body []byte, authed bool, headers http.Header) ([]byte, int, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/rest/v1"+path, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	for key, values := range headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	if authed {
		if token := c.tokens.AccessToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil, resp.StatusCode, nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("reading response: %w", err)
	}

	return raw, resp.StatusCode, nil
}
