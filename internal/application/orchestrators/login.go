package orchestrators

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"timetable/internal/adapters/backend"
	"timetable/internal/application/gateway"
	"timetable/internal/domain/form"
	"timetable/internal/domain/notification"
	"timetable/internal/domain/user"
)

// TokenSession is a session that can also store a freshly issued token.
type TokenSession interface {
	gateway.Session
	SetToken(token string)
}

// LoginInput carries the submitted login form.
type LoginInput struct {
	Form url.Values
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	Session TokenSession
	Backend gateway.Backend
}

// loginResponse is the backend's token grant.
type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// AfterLoginRoute is where a successful login lands.
const AfterLoginRoute = "/timetable"

var loginMessages = backend.Messages{
	Undecodable: "Login failed",
	NoDetail:    "Login failed",
	ServerError: "Server error while logging in",
}

// ExecuteLogin exchanges credentials for a bearer token and stores it in the session.
// A 401 means bad credentials here; there is no session to expire yet.
// PRE: none
// POST: On success the session holds the new token and a 303 to /timetable is returned
// INVARIANT: The password is never echoed back in Failure.Values
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) gateway.Result {
	values := user.LoginSchema.Extract(input.Form)
	echo := form.Values{"email": values["email"]}
	if errs := user.LoginSchema.Validate(values); len(errs) > 0 {
		return &gateway.Failure{Err: gateway.ErrValidationFailed, Status: http.StatusBadRequest, FieldErrors: errs, Values: echo}
	}

	email := strings.TrimSpace(values["email"])
	q := url.Values{"email": {email}, "password": {values["password"]}}
	raw := deps.Backend.Call(ctx, http.MethodPost, "/auth/login?"+q.Encode(), "", nil)
	out := backend.Normalize(raw, loginMessages)

	switch out.Class {
	case backend.AuthExpired:
		slog.Info("auth_event", "event", "login_failed", "email", email, "reason", "invalid_credentials")
		return &gateway.Failure{Err: gateway.ErrUnauthenticated, Status: http.StatusUnauthorized, Message: "Invalid email or password", Values: echo}
	case backend.ValidationError, backend.GenericFailure:
		slog.Warn("auth_event", "event", "login_failed", "email", email, "status", out.Status, "class", out.Class.String(), "transport", raw.Transport())
		return &gateway.Failure{Err: gateway.ErrUpstreamFailure, Status: failureStatus(out.Status), Message: out.Message, Values: echo}
	}

	var grant loginResponse
	if out.Class != backend.SuccessWithBody || out.Decode(&grant) != nil || grant.AccessToken == "" {
		slog.Warn("auth_event", "event", "login_failed", "email", email, "reason", "no_token_in_response")
		return &gateway.Failure{Err: gateway.ErrUpstreamFailure, Status: http.StatusBadGateway, Message: loginMessages.NoDetail, Values: echo}
	}

	deps.Session.SetToken(grant.AccessToken)
	slog.Info("auth_event", "event", "login_success", "email", email)
	return gateway.SeeOther(AfterLoginRoute, notification.Success("Logged in successfully"))
}

// ExecuteLogout forgets the session token.
// PRE: none
// POST: The session reports no token and a 303 to the login page is returned
func ExecuteLogout(_ context.Context, deps Deps) gateway.Result {
	deps.Session.Clear()
	slog.Info("auth_event", "event", "logout")
	return gateway.SeeOther(gateway.LoginRoute, notification.Success("Logged out successfully"))
}

// failureStatus is the backend status, or 500 when no response arrived.
func failureStatus(status int) int {
	if status == 0 {
		return http.StatusInternalServerError
	}
	return status
}
