package gateway

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"timetable/internal/adapters/backend"
	"timetable/internal/domain/form"
	"timetable/internal/domain/notification"
)

// SubmitRequest describes a create action.
type SubmitRequest struct {
	Path     string // backend endpoint, POSTed to
	Schema   form.Schema
	Form     url.Values
	Messages backend.Messages
	Success  string // notification shown on the listing
	Listing  string // front-end route redirected to on success
}

// Submit validates a form, posts the coerced payload and sequences the
// post-action redirect. It returns *Redirect or *Failure.
// PRE: req.Schema is non-empty
// POST: No backend call is made without a token or with any field error
func Submit(ctx context.Context, sess Session, be Backend, req SubmitRequest) Result {
	token, ok := sess.Token()
	if !ok {
		return Unauthorized()
	}

	values := req.Schema.Extract(req.Form)
	if errs := req.Schema.Validate(values); len(errs) > 0 {
		return &Failure{
			Err:         ErrValidationFailed,
			Status:      http.StatusBadRequest,
			FieldErrors: errs,
			Values:      values,
		}
	}

	raw := be.Call(ctx, http.MethodPost, req.Path, token, req.Schema.Payload(values))
	out := backend.Normalize(raw, req.Messages)
	switch {
	case out.OK():
		slog.Info("resource_event", "event", "created", "path", req.Path)
		return SeeOther(req.Listing, notification.Success(req.Success))
	case out.Class == backend.AuthExpired:
		Expire(sess, req.Path)
		return ToLogin()
	default:
		slog.Warn("resource_event", "event", "create_failed", "path", req.Path, "status", out.Status, "error", raw.Err)
		return &Failure{
			Err:     ErrUpstreamFailure,
			Status:  failureStatus(out),
			Message: out.Message,
			Values:  values,
		}
	}
}

// DeleteRequest describes a delete action on one entity.
type DeleteRequest struct {
	Resource string // display name, e.g. "College"
	Path     string // backend collection path with trailing slash, e.g. "/college/"
	ID       string
	Messages backend.Messages
	Success  string
	Listing  string
}

// Delete removes one entity. Once a token and an ID are present the outcome
// is always a 303 to the listing, carrying a success or error notification.
// PRE: none
// POST: Returns *Failure only for a missing token or ID
func Delete(ctx context.Context, sess Session, be Backend, req DeleteRequest) Result {
	token, ok := sess.Token()
	if !ok {
		return Unauthorized()
	}
	id := strings.TrimSpace(req.ID)
	if id == "" {
		return &Failure{Err: ErrNotFound, Status: http.StatusBadRequest, Message: req.Resource + " ID missing"}
	}

	raw := be.Call(ctx, http.MethodDelete, req.Path+url.PathEscape(id), token, nil)
	out := backend.Normalize(raw, req.Messages)
	switch {
	case out.OK():
		slog.Info("resource_event", "event", "deleted", "path", req.Path, "id", id)
		return SeeOther(req.Listing, notification.Success(req.Success))
	case out.Class == backend.AuthExpired:
		Expire(sess, req.Path)
		return ToLogin()
	default:
		slog.Warn("resource_event", "event", "delete_failed", "path", req.Path, "id", id, "status", out.Status, "error", raw.Err)
		return SeeOther(req.Listing, notification.Error(out.Message))
	}
}

// failureStatus is the backend status, or 500 when no response arrived.
func failureStatus(out backend.Outcome) int {
	if out.Status == 0 {
		return http.StatusInternalServerError
	}
	return out.Status
}
