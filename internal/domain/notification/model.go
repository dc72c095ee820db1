package notification

import (
	"errors"
	"strings"
)

// Notification kinds
const (
	KindSuccess = "success"
	KindError   = "error"
)

// MaxAgeSeconds is how long an unread notification survives in the browser.
const MaxAgeSeconds = 5

// Domain errors
var (
	ErrEmptyMessage = errors.New("notification message cannot be empty")
	ErrInvalidKind  = errors.New("notification kind must be one of: success, error")
)

// ValidKinds contains all valid notification kinds.
var ValidKinds = []string{KindSuccess, KindError}

// Notification is a one-shot message shown on the render that follows an action.
// At most one is pending per browser; a newer one replaces an unread one.
type Notification struct {
	Kind    string `json:"type"`
	Message string `json:"message"`
}

// Success builds a success notification.
func Success(message string) Notification {
	return Notification{Kind: KindSuccess, Message: message}
}

// Error builds an error notification.
func Error(message string) Notification {
	return Notification{Kind: KindError, Message: message}
}

// Validate checks if the Notification has valid data.
// PRE: Notification struct is populated
// POST: Returns nil if valid, error otherwise
func (n Notification) Validate() error {
	if strings.TrimSpace(n.Message) == "" {
		return ErrEmptyMessage
	}
	for _, k := range ValidKinds {
		if n.Kind == k {
			return nil
		}
	}
	return ErrInvalidKind
}

// IsError reports whether the notification reports a failed action.
func (n Notification) IsError() bool {
	return n.Kind == KindError
}
