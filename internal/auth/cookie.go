package auth

import (
	"net/http"
	"time"
)

// CookieName is the name of the cookie carrying the token.
const CookieName = "token"

// DefaultCookieLifetime is how long the browser keeps the cookie. It is longer
// than the token's own validity, so a present cookie may hold an expired token.
const DefaultCookieLifetime = 10_000_000 * time.Millisecond

// NewTokenCookie builds the cookie that delivers token to the browser. The site
// front end is served from another origin, hence SameSite=None (which requires Secure).
func NewTokenCookie(token string, now time.Time, lifetime time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  now.Add(lifetime),
		MaxAge:   int(lifetime / time.Second),
		HttpOnly: false,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	}
}

// ClearTokenCookie returns a cookie that makes the browser drop the token.
// The token itself stays valid until it expires; there is no revocation list.
func ClearTokenCookie() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: false,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	}
}

// TokenFromRequest returns the token cookie value, or "" when absent.
func TokenFromRequest(r *http.Request) string {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return c.Value
}
