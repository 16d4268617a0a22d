// Package apiclient is the shared transport used by every backend API module.
// It owns base URL resolution, bearer-token injection, per-request timeouts
// and the translation of non-2xx answers into domain.APIError.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"backoffice/internal/domain"
	"backoffice/internal/utils"

	"go.uber.org/zap"
)

const defaultTimeout = 30 * time.Second

// maxErrorMessage bounds the message copied from a non-JSON error body.
const maxErrorMessage = 200

// TokenSource yields the bearer token attached to authenticated requests.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Options configures a Client.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Tokens     TokenSource
	Logger     *zap.Logger
	UserAgent  string
}

// Client is safe for concurrent use.
type Client struct {
	baseURL   string
	timeout   time.Duration
	http      *http.Client
	logger    *zap.Logger
	userAgent string

	mu     sync.RWMutex
	tokens TokenSource
}

// New builds a Client. BaseURL is required.
func New(opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		return nil, domain.ValidationError{Field: "base_url", Msg: "base url is required"}
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "backoffice/1"
	}
	return &Client{
		baseURL:   base,
		timeout:   opts.Timeout,
		http:      opts.HTTPClient,
		logger:    opts.Logger,
		userAgent: opts.UserAgent,
		tokens:    opts.Tokens,
	}, nil
}

// SetTokenSource swaps the token source. The session manager needs the
// client to exist before it can be plugged in.
func (c *Client) SetTokenSource(ts TokenSource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens = ts
}

func (c *Client) tokenSource() TokenSource {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tokens
}

// BaseURL returns the normalized backend URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Request describes one backend call.
type Request struct {
	Method string
	Path   string
	Query  Query
	// Body is JSON-encoded unless it is a []byte (sent as octet-stream) or a
	// json.RawMessage (sent verbatim as JSON).
	Body any
	// Accept overrides the default "application/json".
	Accept string
	// Anonymous skips the token source (login, refresh-token).
	Anonymous bool
}

// URL renders the absolute request URL.
func (c *Client) URL(path string, q Query) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u := c.baseURL + path
	if enc := q.Encode(); enc != "" {
		u += "?" + enc
	}
	return u
}

// Do sends req and returns the response once fully read. Non-2xx statuses
// come back as domain.APIError; transport failures are returned as-is.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, contentType, err := encodeBody(req.Body)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.URL(req.Path, req.Query), body)
	if err != nil {
		return nil, err
	}
	accept := req.Accept
	if accept == "" {
		accept = "application/json"
	}
	httpReq.Header.Set("Accept", accept)
	httpReq.Header.Set("User-Agent", c.userAgent)
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if rid := RequestIDFrom(ctx); rid != "" {
		httpReq.Header.Set("X-Request-ID", rid)
	}

	if ts := c.tokenSource(); ts != nil && !req.Anonymous {
		token, err := ts.Token(ctx)
		if err != nil {
			return nil, err
		}
		if token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.logger.Debug("backend request failed",
			zap.String("method", req.Method),
			zap.String("path", req.Path),
			zap.String("request_id", RequestIDFrom(ctx)),
			zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("backend request",
		zap.String("method", req.Method),
		zap.String("path", req.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
		zap.String("request_id", RequestIDFrom(ctx)))

	out := &Response{Status: resp.StatusCode, Header: resp.Header, Body: raw}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, domain.APIError{
			Source:  "backend",
			Method:  req.Method,
			Path:    req.Path,
			Status:  resp.StatusCode,
			Message: errorMessage(raw),
			Body:    raw,
		}
	}
	return out, nil
}

// Get issues a GET.
func (c *Client) Get(ctx context.Context, path string, q Query) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: q})
}

// Post issues a POST with a JSON body (nil sends no body).
func (c *Client) Post(ctx context.Context, path string, q Query, body any) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Query: q, Body: body})
}

// Put issues a PUT with a JSON body (nil sends no body).
func (c *Client) Put(ctx context.Context, path string, q Query, body any) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPut, Path: path, Query: q, Body: body})
}

// Delete issues a DELETE.
func (c *Client) Delete(ctx context.Context, path string, q Query) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodDelete, Path: path, Query: q})
}

func encodeBody(v any) (io.Reader, string, error) {
	switch b := v.(type) {
	case nil:
		return nil, "", nil
	case []byte:
		return bytes.NewReader(b), "application/octet-stream", nil
	case json.RawMessage:
		if len(b) == 0 {
			return nil, "", nil
		}
		return bytes.NewReader(b), "application/json", nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, "", fmt.Errorf("encode request body: %w", err)
		}
		return bytes.NewReader(data), "application/json", nil
	}
}

// errorMessage pulls a human message out of an error body.
func errorMessage(raw []byte) string {
	var payload struct {
		Message          string `json:"message"`
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil {
		switch {
		case payload.Message != "":
			return payload.Message
		case payload.ErrorDescription != "":
			return payload.ErrorDescription
		case payload.Error != "":
			return payload.Error
		}
	}
	return utils.Truncate(strings.TrimSpace(string(raw)), maxErrorMessage)
}
