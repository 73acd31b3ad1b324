package auth

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const (
	// CookieName is the cookie carrying the session token.
	CookieName = "session"

	contextKey = "session"
)

// Session identifies the authenticated user of one login.
type Session struct {
	ID        string
	UserID    uint
	Remember  bool
	ExpiresAt time.Time
}

// TTL returns the remaining lifetime of the session, never negative.
func (s *Session) TTL(now time.Time) time.Duration {
	if s == nil {
		return 0
	}
	if d := s.ExpiresAt.Sub(now); d > 0 {
		return d
	}
	return 0
}

// FromContext returns the session attached by the middleware, or nil for
// anonymous requests.
func FromContext(c echo.Context) *Session {
	sess, _ := c.Get(contextKey).(*Session)
	return sess
}

// NewSessionCookie builds the cookie for a fresh login. Sessions without
// "remember" get a browser-session cookie.
func NewSessionCookie(token string, sess *Session, secure bool) *http.Cookie {
	cookie := &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	if sess.Remember {
		cookie.Expires = sess.ExpiresAt
		cookie.MaxAge = int(time.Until(sess.ExpiresAt).Seconds())
	}
	return cookie
}

// ExpiredSessionCookie clears the session cookie in the browser.
func ExpiredSessionCookie(secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
	}
}
