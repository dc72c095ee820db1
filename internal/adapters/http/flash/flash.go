// Package flash carries one notification across a redirect in a signed,
// short-lived cookie.
package flash

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"

	"timetable/internal/domain/notification"
)

// CookieName is the cookie holding the pending notification.
const CookieName = "flash"

const (
	kindKey    = "type"
	messageKey = "message"
)

// Store reads and writes the pending notification.
type Store struct {
	cookies *sessions.CookieStore
}

// NewStore creates a store signing cookies with hashKey.
// A non-positive maxAge uses notification.MaxAgeSeconds.
// PRE: len(hashKey) >= 32
// POST: Cookies older than maxAge fail verification and read as empty
func NewStore(hashKey []byte, maxAge int, secure bool) *Store {
	if maxAge <= 0 {
		maxAge = notification.MaxAgeSeconds
	}
	cs := sessions.NewCookieStore(hashKey)
	cs.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	cs.MaxAge(maxAge)
	return &Store{cookies: cs}
}

// Set stores n as the pending notification, replacing any earlier one.
// PRE: n.Validate() == nil
// POST: The response carries the flash cookie
func (s *Store) Set(w http.ResponseWriter, r *http.Request, n notification.Notification) error {
	sess, _ := s.cookies.New(r, CookieName)
	sess.Values = map[any]any{
		kindKey:    n.Kind,
		messageKey: n.Message,
	}
	return sess.Save(r, w)
}

// Consume returns the pending notification and deletes it.
// Missing, expired and tampered cookies read as no notification.
// POST: A second Consume on the next request returns false
func (s *Store) Consume(w http.ResponseWriter, r *http.Request) (notification.Notification, bool) {
	if _, err := r.Cookie(CookieName); err != nil {
		return notification.Notification{}, false
	}
	sess, err := s.cookies.New(r, CookieName)

	n := notification.Notification{}
	n.Kind, _ = sess.Values[kindKey].(string)
	n.Message, _ = sess.Values[messageKey].(string)

	sess.Options.MaxAge = -1
	if saveErr := sess.Save(r, w); saveErr != nil {
		slog.Warn("flash_event", "event", "delete_failed", "error", saveErr)
	}

	if err != nil {
		slog.Debug("flash_event", "event", "discarded", "error", err)
		return notification.Notification{}, false
	}
	if n.Validate() != nil {
		return notification.Notification{}, false
	}
	return n, true
}
