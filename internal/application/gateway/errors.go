package gateway

import "errors"

// Gateway errors. Every *Failure unwraps to exactly one of these.
// ErrSessionExpired never reaches a *Failure: expiry surfaces as a redirect to
// login and is recorded in the auth_event log by Expire.
var (
	ErrUnauthenticated  = errors.New("not authorized")
	ErrSessionExpired   = errors.New("session expired")
	ErrValidationFailed = errors.New("validation failed")
	ErrUpstreamFailure  = errors.New("backend request failed")
	ErrNotFound         = errors.New("resource not found")
)
