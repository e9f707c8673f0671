package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/quillcms/console/internal/logger"
	"github.com/quillcms/console/internal/utils"
)

// envelope is the response shape every backend endpoint uses:
// {"success": bool, "data": ..., "error": "..."}.
// data is only trusted when success is true.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// errorBody covers the shapes backends put error text in on non-2xx
// responses.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Request describes one call against the backend.
type Request struct {
	Method string
	Path   string     // joined onto the base URL, ex: "/api/articles"
	Query  url.Values // optional
	Body   any        // JSON-encoded when non-nil and Raw is nil
	Raw    io.Reader  // raw body (multipart uploads); takes precedence over Body
	Header http.Header
	Token  string // bearer token; empty = unauthenticated call
}

// Client talks to the CMS backend. All calls carry the caller's context and
// return either the envelope's data or an *Error.
type Client struct {
	base   string
	http   *http.Client
	logger logger.Logger
}

func New(baseURL string, timeout time.Duration, log logger.Logger) *Client {
	return &Client{
		base:   strings.TrimRight(baseURL, "/"),
		http:   &http.Client{Timeout: timeout},
		logger: log,
	}
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string { return c.base }

// Do executes the request and returns the envelope data on success.
func (c *Client) Do(ctx context.Context, req Request) (json.RawMessage, error) {
	op := fmt.Sprintf("%s %s", req.Method, req.Path)

	httpReq, err := c.build(ctx, req)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Op: op, Err: err}
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.logger.Warn("upstream request failed",
			logger.String("op", op),
			logger.Error(err))
		return nil, &Error{Kind: KindNetwork, Op: op, Err: err}
	}
	defer utils.Close(resp.Body)

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Op: op, Err: err}
	}

	c.logger.Debug("upstream response",
		logger.String("op", op),
		logger.Int("status", resp.StatusCode),
		logger.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &Error{
			Kind:    KindHTTP,
			Op:      op,
			Status:  resp.StatusCode,
			Message: extractErrorMessage(body),
		}
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &Error{Kind: KindDecode, Op: op, Status: resp.StatusCode, Err: err}
	}
	if !env.Success {
		return nil, &Error{
			Kind:    KindEnvelope,
			Op:      op,
			Status:  resp.StatusCode,
			Message: env.Error,
		}
	}
	return env.Data, nil
}

func (c *Client) build(ctx context.Context, req Request) (*http.Request, error) {
	u := c.base + req.Path
	if len(req.Query) > 0 {
		u += "?" + req.Query.Encode()
	}

	var body io.Reader
	contentType := ""
	switch {
	case req.Raw != nil:
		body = req.Raw
	case req.Body != nil:
		encoded, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(encoded)
		contentType = "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u, body)
	if err != nil {
		return nil, err
	}
	for k, vals := range req.Header {
		for _, v := range vals {
			httpReq.Header.Add(k, v)
		}
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if req.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.Token)
	}
	return httpReq, nil
}

// extractErrorMessage pulls error text out of a non-2xx body: JSON
// {"error"} or {"message"} first, raw text as fallback.
func extractErrorMessage(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		if eb.Error != "" {
			return eb.Error
		}
		if eb.Message != "" {
			return eb.Message
		}
	}
	text := strings.TrimSpace(string(body))
	if len(text) > 200 {
		text = text[:200]
	}
	return text
}
