// Package apiclient talks JSON to the pharmacy REST backend on behalf of a
// signed-in user.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL matches the backend's local development address.
const DefaultBaseURL = "http://localhost:8080/api"

const maxBodyBytes = 8 << 20

// Client wraps HTTP calls to the backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *Metrics
	now        func() time.Time
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithMetrics attaches Prometheus collectors.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithClock replaces time.Now, used for token expiry checks.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// New constructs a Client for baseURL.
func New(baseURL string, opts ...Option) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured backend root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Request describes one backend call.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Token  string
	Body   any
	// Raw skips the success envelope check for endpoints that answer with a
	// bare object, such as /auth/login.
	Raw bool
}

type envelope struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Do executes req and decodes the response body into out when out is non-nil.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	if req.Method == "" {
		req.Method = http.MethodGet
	}
	start := c.now()
	err := c.do(ctx, req, out)
	c.metrics.observe(req.Path, err, c.now().Sub(start))
	if err != nil {
		c.logger.Warn("backend request failed",
			slog.String("method", req.Method),
			slog.String("path", req.Path),
			slog.String("kind", KindOf(err).String()),
			slog.Any("error", err))
	}
	return err
}

func (c *Client) do(ctx context.Context, req Request, out any) error {
	if !isPublic(req.Path) {
		if strings.TrimSpace(req.Token) == "" {
			return &Error{Kind: KindUnauthorized, Method: req.Method, Path: req.Path, Message: msgAuthRequired}
		}
		if tokenExpired(req.Token, c.now()) {
			return &Error{Kind: KindUnauthorized, Method: req.Method, Path: req.Path, Message: msgExpired}
		}
	}

	httpReq, err := c.newHTTPRequest(ctx, req)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return &Error{Kind: KindNetwork, Method: req.Method, Path: req.Path, Message: msgNetwork, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return &Error{Kind: KindUnauthorized, Status: resp.StatusCode, Method: req.Method, Path: req.Path, Message: msgExpired}
	case http.StatusForbidden:
		return &Error{Kind: KindForbidden, Status: resp.StatusCode, Method: req.Method, Path: req.Path, Message: msgForbidden}
	}

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &Error{Kind: KindNetwork, Status: resp.StatusCode, Method: req.Method, Path: req.Path, Message: msgNetwork, Err: err}
	}

	if resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(payload)) == 0 {
		if resp.StatusCode >= 200 && resp.StatusCode < 300 && (req.Raw || req.Method == http.MethodDelete) {
			return nil
		}
		return &Error{Kind: KindApplication, Status: resp.StatusCode, Method: req.Method, Path: req.Path,
			Message: fmt.Sprintf("HTTP error! status: %d", resp.StatusCode)}
	}

	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return &Error{Kind: KindApplication, Status: resp.StatusCode, Method: req.Method, Path: req.Path,
			Message: "Invalid response from server", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := firstNonEmpty(env.Message, env.Error, fmt.Sprintf("HTTP error! status: %d", resp.StatusCode))
		return &Error{Kind: KindApplication, Status: resp.StatusCode, Method: req.Method, Path: req.Path, Message: msg}
	}

	if !req.Raw && (env.Success == nil || !*env.Success) {
		msg := firstNonEmpty(env.Message, env.Error, "Operation failed")
		return &Error{Kind: KindApplication, Status: resp.StatusCode, Method: req.Method, Path: req.Path, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return &Error{Kind: KindApplication, Status: resp.StatusCode, Method: req.Method, Path: req.Path,
			Message: "Invalid response from server", Err: err}
	}
	return nil
}

func (c *Client) newHTTPRequest(ctx context.Context, req Request) (*http.Request, error) {
	target := c.baseURL + "/" + strings.TrimLeft(req.Path, "/")
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("apiclient: encode %s body: %w", req.Path, err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("apiclient: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if token := strings.TrimSpace(req.Token); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	return httpReq, nil
}

// Get issues a GET for path.
func (c *Client) Get(ctx context.Context, token, path string, query url.Values, out any) error {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query, Token: token}, out)
}

// Post issues a POST with a JSON body.
func (c *Client) Post(ctx context.Context, token, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Token: token, Body: body}, out)
}

// Put issues a PUT with a JSON body.
func (c *Client) Put(ctx context.Context, token, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPut, Path: path, Token: token, Body: body}, out)
}

// Delete issues a DELETE for path.
func (c *Client) Delete(ctx context.Context, token, path string) error {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: path, Token: token}, nil)
}

// Ping probes the public auth test endpoint. Any 2xx answer counts as reachable.
func (c *Client) Ping(ctx context.Context) error {
	httpReq, err := c.newHTTPRequest(ctx, Request{Method: http.MethodGet, Path: "/auth/test"})
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return &Error{Kind: KindNetwork, Method: http.MethodGet, Path: "/auth/test", Message: msgNetwork, Err: err}
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
	_ = resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &Error{Kind: KindApplication, Status: resp.StatusCode, Method: http.MethodGet, Path: "/auth/test",
			Message: fmt.Sprintf("HTTP error! status: %d", resp.StatusCode)}
	}
	return nil
}

func isPublic(path string) bool {
	return strings.HasPrefix("/"+strings.TrimLeft(path, "/"), "/auth/")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
