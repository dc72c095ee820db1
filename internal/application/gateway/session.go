package gateway

import (
	"context"

	"timetable/internal/adapters/backend"
)

// Session exposes the bearer token of the current request.
// After Clear, Token reports the token absent.
type Session interface {
	Token() (string, bool)
	Clear()
}

// Backend issues calls to the REST backend. *backend.Client satisfies it.
type Backend interface {
	Call(ctx context.Context, method, path, token string, body any) backend.RawResult
}

// Compile-time check that *backend.Client satisfies Backend.
var _ Backend = (*backend.Client)(nil)
