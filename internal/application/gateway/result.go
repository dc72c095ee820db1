package gateway

import (
	"net/http"

	"timetable/internal/domain/form"
	"timetable/internal/domain/notification"
)

// LoginRoute is where unauthenticated and expired sessions are sent.
const LoginRoute = "/"

// Result is the outcome of a load or action, interpreted by the HTTP layer.
// It is one of *Render, *Redirect or *Failure.
type Result interface {
	result()
}

// Render asks for the page to be rendered with Data.
type Render struct {
	Data any
}

// Redirect asks for a redirect, optionally carrying a one-shot notification.
type Redirect struct {
	Target string
	Status int
	Notice *notification.Notification
}

// Failure reports an action that did not complete. The submitted values are
// carried back so the form can be re-rendered pre-filled.
type Failure struct {
	Err         error
	Status      int
	Message     string
	FieldErrors form.FieldErrors
	Values      form.Values
}

func (*Render) result()   {}
func (*Redirect) result() {}
func (*Failure) result()  {}

// Error implements error.
func (f *Failure) Error() string {
	if f.Message != "" {
		return f.Message
	}
	return f.Err.Error()
}

// Unwrap returns the gateway sentinel behind the failure.
func (f *Failure) Unwrap() error {
	return f.Err
}

// ToLogin is the 302 sent when there is no usable session.
func ToLogin() *Redirect {
	return &Redirect{Target: LoginRoute, Status: http.StatusFound}
}

// SeeOther is the 303 sent after an action, with its notification.
func SeeOther(target string, n notification.Notification) *Redirect {
	return &Redirect{Target: target, Status: http.StatusSeeOther, Notice: &n}
}

// Unauthorized is the failure returned when an action is posted without a session.
func Unauthorized() *Failure {
	return &Failure{Err: ErrUnauthenticated, Status: http.StatusUnauthorized, Message: "Not authorized"}
}
