package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/launchdev/internal/service"
)

// SessionCookie is the name of the cookie carrying the session token.
const SessionCookie = "token"

// SessionVerifier checks a raw session token.
type SessionVerifier interface {
	VerifySession(raw string) (service.Identity, error)
}

// Session returns an Echo middleware that requires a valid session token.
// The token is read from the session cookie, falling back to an
// "Authorization: Bearer" header for non-browser clients.  On success the
// user's id and email are stored in the context under "user_id" and
// "email"; on failure the verifier's error is returned for the HTTP error
// handler to render.
func Session(v SessionVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ident, err := v.VerifySession(sessionToken(c.Request()))
			if err != nil {
				return err
			}
			setIdentity(c, ident)
			return next(c)
		}
	}
}

func sessionToken(r *http.Request) string {
	if ck, err := r.Cookie(SessionCookie); err == nil && ck.Value != "" {
		return ck.Value
	}
	auth := r.Header.Get("Authorization")
	if len(auth) > 7 && strings.EqualFold(auth[:7], "Bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}
