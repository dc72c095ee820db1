package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// TestCookieSession_ReadsToken verifies the token cookie is exposed.
func TestCookieSession_ReadsToken(t *testing.T) {
	req := httptest.NewRequest("GET", "/college", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: "abc"})
	sess := NewCookieSession(httptest.NewRecorder(), req, false)

	if tok, ok := sess.Token(); !ok || tok != "abc" {
		t.Errorf("Token() = %q, %v", tok, ok)
	}
}

// TestCookieSession_Clear verifies a deleting cookie scoped to / and that the token reads absent afterwards.
func TestCookieSession_Clear(t *testing.T) {
	req := httptest.NewRequest("GET", "/college", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: "abc"})
	rr := httptest.NewRecorder()
	sess := NewCookieSession(rr, req, false)

	sess.Clear()

	if _, ok := sess.Token(); ok {
		t.Error("token present after Clear")
	}
	cookies := rr.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("cookies = %d, want 1", len(cookies))
	}
	c := cookies[0]
	if c.Name != TokenCookieName || c.Path != "/" || c.MaxAge >= 0 {
		t.Errorf("cookie = %+v, want deleting cookie at /", c)
	}
}

// TestCookieSession_SetToken verifies the issued token is written HttpOnly.
func TestCookieSession_SetToken(t *testing.T) {
	rr := httptest.NewRecorder()
	sess := NewCookieSession(rr, httptest.NewRequest("POST", "/", nil), false)
	sess.SetToken("fresh")

	if tok, _ := sess.Token(); tok != "fresh" {
		t.Errorf("Token() = %q", tok)
	}
	c := rr.Result().Cookies()[0]
	if c.Value != "fresh" || !c.HttpOnly || c.SameSite != http.SameSiteLaxMode {
		t.Errorf("cookie = %+v", c)
	}
}

// TestAuth_AttachesSession verifies the middleware puts the session in context without blocking.
func TestAuth_AttachesSession(t *testing.T) {
	var got *CookieSession
	handler := Auth(false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = GetSessionFromContext(r.Context())
	}))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/college", nil))

	if got == nil {
		t.Fatal("no session in context")
	}
	if _, ok := got.Token(); ok {
		t.Error("token present without cookie")
	}
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
}

// TestAuth_SecureCookies verifies the token cookie carries the Secure flag Auth was built with.
func TestAuth_SecureCookies(t *testing.T) {
	for _, secure := range []bool{true, false} {
		rr := httptest.NewRecorder()
		handler := Auth(secure)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, _ := GetSessionFromContext(r.Context())
			sess.SetToken("fresh")
			sess.Clear()
		}))
		handler.ServeHTTP(rr, httptest.NewRequest("POST", "/", nil))

		cookies := rr.Result().Cookies()
		if len(cookies) != 2 {
			t.Fatalf("secure=%v: cookies = %d, want 2", secure, len(cookies))
		}
		for _, c := range cookies {
			if c.Secure != secure {
				t.Errorf("secure=%v: cookie %+v has Secure=%v", secure, c, c.Secure)
			}
		}
	}
}
