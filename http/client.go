// Package http implements sophia.ChatClient against the chat backend's
// JSON-over-HTTP API.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fwojciec/sophia"
	"golang.org/x/time/rate"
)

const (
	loginPath = "/login"
	chatPath  = "/chat"

	defaultTimeout = 30 * time.Second

	// maxBodySize caps how much of a response body is read.
	maxBodySize = 1 << 20
)

// Interface compliance check.
var _ sophia.ChatClient = (*Client)(nil)

// Client implements [sophia.ChatClient] over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	limiter    *rate.Limiter
}

// Option configures a [Client].
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout bounds each request. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithRateLimit limits outgoing requests to r per second with the given
// burst. Requests wait for a token and fail with sophia.ErrNetwork if the
// context ends first.
func WithRateLimit(r rate.Limit, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(r, burst) }
}

// New creates a [Client] for the backend at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
		timeout:    defaultTimeout,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type loginRequest struct {
	Username string `json:"username"`
}

type loginResponse struct {
	AccessToken *string `json:"access_token"`
}

type chatRequest struct {
	Message  string `json:"message"`
	Username string `json:"username"`
}

type chatResponse struct {
	Response *string `json:"response"`
}

type errorResponse struct {
	Detail any `json:"detail"`
}

// Login exchanges username for a bearer token.
func (c *Client) Login(ctx context.Context, username string) (string, error) {
	resp, err := c.post(ctx, loginPath, loginRequest{Username: username}, nil)
	if err != nil {
		return "", fmt.Errorf("http: login: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("http: login: %w: %w", statusError(resp), sophia.ErrAuth)
	}
	var lr loginResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(&lr); err != nil {
		return "", fmt.Errorf("http: login: decode response: %w: %w", err, sophia.ErrAuth)
	}
	if lr.AccessToken == nil || *lr.AccessToken == "" {
		return "", fmt.Errorf("http: login: missing access_token: %w", sophia.ErrAuth)
	}
	return *lr.AccessToken, nil
}

// Send posts one message and returns the assistant reply.
func (c *Client) Send(ctx context.Context, req sophia.ChatRequest) (string, error) {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+req.Token)
	if req.ID != "" {
		header.Set("X-Request-ID", req.ID)
	}
	resp, err := c.post(ctx, chatPath, chatRequest{Message: req.Message, Username: req.Username}, header)
	if err != nil {
		return "", fmt.Errorf("http: chat: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return "", fmt.Errorf("http: chat: %w: %w", statusError(resp), sophia.ErrAuth)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return "", fmt.Errorf("http: chat: %w: %w", statusError(resp), sophia.ErrBackend)
	}
	var cr chatResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(&cr); err != nil {
		return "", fmt.Errorf("http: chat: decode response: %w: %w", err, sophia.ErrProtocol)
	}
	if cr.Response == nil {
		return "", fmt.Errorf("http: chat: missing response field: %w", sophia.ErrProtocol)
	}
	return *cr.Response, nil
}

// post sends body as JSON. Transport failures, including timeouts and
// cancellation, are wrapped with sophia.ErrNetwork. The request context
// lives until the response body is closed.
func (c *Client) post(ctx context.Context, path string, body any, header http.Header) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	ctx, cancel := c.requestContext(ctx)
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			cancel()
			return nil, fmt.Errorf("%w: %w", sophia.ErrNetwork, err)
		}
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		cancel()
		return nil, err
	}
	for k, v := range header {
		httpReq.Header[k] = v
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("%w: %w", sophia.ErrNetwork, err)
	}
	resp.Body = &cancelBody{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

func (c *Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout > 0 {
		return context.WithTimeout(ctx, c.timeout)
	}
	return context.WithCancel(ctx)
}

// cancelBody releases the request context once the body is closed.
type cancelBody struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelBody) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()
	return err
}

// statusError describes a non-success response, folding in the "detail"
// field of FastAPI-style error bodies when present.
func statusError(resp *http.Response) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("status %d (failed to read body: %w)", resp.StatusCode, err)
	}
	var er errorResponse
	if err := json.Unmarshal(body, &er); err == nil && er.Detail != nil {
		if s, ok := er.Detail.(string); ok {
			return fmt.Errorf("status %d: %s", resp.StatusCode, s)
		}
		if b, err := json.Marshal(er.Detail); err == nil {
			return fmt.Errorf("status %d: %s", resp.StatusCode, b)
		}
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		return fmt.Errorf("status %d: %s", resp.StatusCode, text)
	}
	return fmt.Errorf("status %d", resp.StatusCode)
}
