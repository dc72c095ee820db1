// Package gatewaytest provides in-memory Session and Backend fakes.
package gatewaytest

import (
	"context"
	"encoding/json"
	"sync"

	"timetable/internal/adapters/backend"
)

// Session is an in-memory gateway.Session.
type Session struct {
	token   string
	Cleared bool
}

// NewSession returns a session holding token; "" means logged out.
func NewSession(token string) *Session {
	return &Session{token: token}
}

// Token implements gateway.Session.
func (s *Session) Token() (string, bool) {
	return s.token, s.token != ""
}

// Clear implements gateway.Session.
func (s *Session) Clear() {
	s.token = ""
	s.Cleared = true
}

// SetToken stores a newly issued token.
func (s *Session) SetToken(token string) {
	s.token = token
	s.Cleared = false
}

// Call records one backend call.
type Call struct {
	Method string
	Path   string
	Token  string
	Body   map[string]any
}

// Backend answers calls from canned responses keyed by "METHOD path".
// Unknown keys answer 404.
type Backend struct {
	mu        sync.Mutex
	responses map[string]backend.RawResult
	calls     []Call
}

// NewBackend returns an empty fake backend.
func NewBackend() *Backend {
	return &Backend{responses: map[string]backend.RawResult{}}
}

// Respond registers a status and body for method and path.
func (b *Backend) Respond(method, path string, status int, body string) *Backend {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.responses[method+" "+path] = backend.RawResult{StatusCode: status, Body: []byte(body)}
	return b
}

// Fail registers a transport failure for method and path.
func (b *Backend) Fail(method, path string, err error) *Backend {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.responses[method+" "+path] = backend.RawResult{Err: err}
	return b
}

// Call implements gateway.Backend.
func (b *Backend) Call(_ context.Context, method, path, token string, body any) backend.RawResult {
	var decoded map[string]any
	if body != nil {
		raw, _ := json.Marshal(body)
		_ = json.Unmarshal(raw, &decoded)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, Call{Method: method, Path: path, Token: token, Body: decoded})
	if r, ok := b.responses[method+" "+path]; ok {
		return r
	}
	return backend.RawResult{StatusCode: 404, Body: []byte(`{"detail":"Not Found"}`)}
}

// Calls returns a copy of the calls made so far.
func (b *Backend) Calls() []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Call(nil), b.calls...)
}
