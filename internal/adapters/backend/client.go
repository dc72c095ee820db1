package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type requestIDKey struct{}

// WithRequestID stores the inbound request ID so backend calls can forward it.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the request ID stored by WithRequestID, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// Client issues authenticated JSON calls to the timetable REST backend.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client rooted at baseURL.
// A zero timeout leaves the transport default in place; no retries are made.
// PRE: baseURL is an absolute http(s) URL
// POST: Returns a client whose calls never return a Go error
func New(baseURL string, timeout time.Duration, transport http.RoundTripper) *Client {
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout, Transport: transport},
	}
}

// BaseURL returns the configured backend root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Call sends method to path (which may carry a query string) and returns the raw outcome.
// The bearer header is sent only when token is non-empty. A non-nil body is JSON-encoded.
// Every failure, from marshalling to reading the body, is reported in RawResult.Err.
// Transport errors name the path without its query, which may carry credentials.
// PRE: path starts with "/"
// POST: Exactly one of StatusCode > 0 or Err != nil holds
func (c *Client) Call(ctx context.Context, method, path, token string, body any) RawResult {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return RawResult{Err: fmt.Errorf("encode request body: %w", err)}
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return RawResult{Err: fmt.Errorf("build request %s %s: %w", method, stripQuery(path), unwrapURL(err))}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if id := RequestID(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return RawResult{Err: transportError(method, path, err)}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes))
	if err != nil {
		return RawResult{Err: fmt.Errorf("read response body: %w", err)}
	}
	return RawResult{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       data,
	}
}

func transportError(method, path string, err error) error {
	return fmt.Errorf("%s %s: %w", method, stripQuery(path), unwrapURL(err))
}

// unwrapURL drops the *url.Error layer, whose message repeats the full URL.
func unwrapURL(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return uerr.Err
	}
	return err
}

func stripQuery(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		return path[:i]
	}
	return path
}
