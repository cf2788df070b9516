// Package api is the HTTP client for the NoteGenius collaborator services
// (auth, notes, folders, AI). It owns status-to-sentinel error mapping and
// attaches the bearer credential to every request after authentication.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/notegenius/notegenius/internal/errs"
)

const defaultTimeout = 30 * time.Second

// Client talks JSON over HTTP to the NoteGenius API.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger

	mu    sync.RWMutex
	token string

	// onAuthReject fires on every 401 response; the session wires forced logout here.
	onAuthReject func()
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithLogger sets the structured logger (zap.NewNop is used otherwise).
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithTimeout sets the per-request timeout on the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// New constructs a Client for the given base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken installs the bearer credential used on subsequent requests.
func (c *Client) SetToken(tok string) {
	c.mu.Lock()
	c.token = tok
	c.mu.Unlock()
}

// ClearToken removes the credential.
func (c *Client) ClearToken() { c.SetToken("") }

// Token returns the current credential ("" when unauthenticated).
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// OnAuthReject registers a hook invoked whenever the server answers 401.
func (c *Client) OnAuthReject(fn func()) { c.onAuthReject = fn }

// apiError is the decoded error payload ({"detail": "..."}).
type apiError struct {
	Detail string `json:"detail"`
}

// do executes one JSON request and decodes the response into out (may be nil).
// Status codes map to sentinels: 400 validation, 401 unauthorized (fires the
// auth-reject hook), 404 not found, 409 already exists; transport failures and
// remaining server errors map to ErrNetwork.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		rd = bytes.NewReader(b)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rid := requestID()
	req.Header.Set("X-Request-Id", rid)
	if tok := c.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("http",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", rid),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %s %s: %v", errs.ErrNetwork, method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", errs.ErrNetwork, err)
	}

	c.log.Info("http",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("dur", time.Since(start)),
		zap.String("request_id", rid),
	)

	if resp.StatusCode >= 400 {
		return c.mapStatus(resp.StatusCode, respBody)
	}
	if out == nil || len(respBody) == 0 {
		return nil
	}
	return unmarshalResponse(respBody, out)
}

func unmarshalResponse(b []byte, out any) error {
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) mapStatus(status int, body []byte) error {
	var ae apiError
	_ = json.Unmarshal(body, &ae)
	detail := ae.Detail
	if detail == "" {
		detail = strings.TrimSpace(string(body))
	}

	switch status {
	case http.StatusUnauthorized:
		if c.onAuthReject != nil {
			c.onAuthReject()
		}
		return fmt.Errorf("%w: %s", errs.ErrUnauthorized, detail)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", errs.ErrNotFound, detail)
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", errs.ErrAlreadyExists, detail)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		if strings.Contains(strings.ToLower(detail), "already registered") {
			return fmt.Errorf("%w: %s", errs.ErrAlreadyExists, detail)
		}
		return fmt.Errorf("%w: %s", errs.ErrValidation, detail)
	default:
		return fmt.Errorf("%w: status %d: %s", errs.ErrNetwork, status, detail)
	}
}

func requestID() string {
	id, err := uuid.NewV4()
	if err != nil {
		return ""
	}
	return id.String()
}
