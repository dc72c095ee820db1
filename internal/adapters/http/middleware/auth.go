package middleware

import (
	"context"
	"net/http"
	"sync"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const sessionContextKey contextKey = "session"

// TokenCookieName is the cookie holding the backend bearer token.
const TokenCookieName = "token"

// CookieSession exposes the bearer token carried by the request's cookie.
// Clear and SetToken write cookies on the response and update what Token reports,
// so later reads in the same request see the change.
type CookieSession struct {
	mu     sync.Mutex
	w      http.ResponseWriter
	token  string
	secure bool
}

// NewCookieSession reads the token cookie from r.
// Cookies it writes are marked Secure when secure is set.
// PRE: w belongs to the same request as r
// POST: Token reports the cookie value, if any
func NewCookieSession(w http.ResponseWriter, r *http.Request, secure bool) *CookieSession {
	s := &CookieSession{w: w, secure: secure}
	if c, err := r.Cookie(TokenCookieName); err == nil {
		s.token = c.Value
	}
	return s
}

// Token returns the bearer token and whether one is present.
func (s *CookieSession) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.token != ""
}

// Clear deletes the token cookie.
// POST: Token reports no token
func (s *CookieSession) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	ClearTokenCookie(s.w, s.secure)
}

// SetToken stores a newly issued token in the cookie.
func (s *CookieSession) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	SetTokenCookie(s.w, token, s.secure)
}

// Auth returns middleware that attaches a CookieSession to the request context.
// It does NOT block requests without a token; loads and actions decide that.
func Auth(secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := NewCookieSession(w, r, secure)
			next.ServeHTTP(w, r.WithContext(ContextWithSession(r.Context(), sess)))
		})
	}
}

// GetSessionFromContext retrieves the session attached by Auth.
func GetSessionFromContext(ctx context.Context) (*CookieSession, bool) {
	sess, ok := ctx.Value(sessionContextKey).(*CookieSession)
	return sess, ok
}

// ContextWithSession returns ctx carrying sess.
func ContextWithSession(ctx context.Context, sess *CookieSession) context.Context {
	return context.WithValue(ctx, sessionContextKey, sess)
}

// SetTokenCookie sets the token cookie on the response.
func SetTokenCookie(w http.ResponseWriter, token string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearTokenCookie removes the token cookie.
func ClearTokenCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
