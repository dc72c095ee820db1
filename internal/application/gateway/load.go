package gateway

import (
	"context"
	"log/slog"
	"net/http"

	"timetable/internal/adapters/backend"
)

// LoadRequest names a GET endpoint and its fallback messages.
type LoadRequest struct {
	Path     string
	Messages backend.Messages
}

// Fetched is the result of one GET made with an already-checked token.
type Fetched[T any] struct {
	Value   T
	Expired bool   // backend answered 401
	Message string // user-facing error, empty on success
}

// Fetch performs one GET and decodes the body into T.
// Empty success bodies yield the zero value; undecodable bodies degrade to the
// NoDetail message. It never touches the session.
// PRE: token is non-empty
// POST: At most one of Expired or Message is set
func Fetch[T any](ctx context.Context, be Backend, token string, req LoadRequest) Fetched[T] {
	var f Fetched[T]
	out := backend.Normalize(be.Call(ctx, http.MethodGet, req.Path, token, nil), req.Messages)
	switch out.Class {
	case backend.SuccessWithBody:
		if err := out.Decode(&f.Value); err != nil {
			slog.Warn("backend_event", "event", "decode_failed", "path", req.Path, "error", err)
			var zero T
			f.Value = zero
			f.Message = req.Messages.NoDetail
		}
	case backend.SuccessEmpty:
	case backend.AuthExpired:
		f.Expired = true
	default:
		slog.Warn("backend_event", "event", "load_failed", "path", req.Path, "status", out.Status, "class", out.Class.String())
		f.Message = out.Message
	}
	return f
}

// Load is the read half of the gateway: it requires a token, fetches one
// resource and maps an expired session to a cleared token and a redirect.
// The returned *Redirect is nil unless the caller must stop and redirect;
// otherwise the page renders with the value and, on failure, the message.
// PRE: none
// POST: No backend call is made when the session has no token
func Load[T any](ctx context.Context, sess Session, be Backend, req LoadRequest) (T, string, *Redirect) {
	var zero T
	token, ok := sess.Token()
	if !ok {
		return zero, "", ToLogin()
	}
	f := Fetch[T](ctx, be, token, req)
	if f.Expired {
		Expire(sess, req.Path)
		return zero, "", ToLogin()
	}
	return f.Value, f.Message, nil
}

// Expire clears the session after the backend rejected its token.
func Expire(sess Session, path string) {
	slog.Info("auth_event", "event", "session_expired", "path", path, "error", ErrSessionExpired)
	sess.Clear()
}
