package middleware

// identity.go holds the context accessors for the authenticated user set by
// Session.

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/launchdev/internal/service"
)

const (
	ctxUserID = "user_id"
	ctxEmail  = "email"
)

func setIdentity(c echo.Context, ident service.Identity) {
	c.Set(ctxUserID, ident.UserID)
	c.Set(ctxEmail, ident.Email)
}

// CurrentIdentity returns the identity stored by Session.  ok is false on
// routes that are not behind Session.
func CurrentIdentity(c echo.Context) (ident service.Identity, ok bool) {
	id, ok := c.Get(ctxUserID).(int64)
	if !ok || id <= 0 {
		return service.Identity{}, false
	}
	email, _ := c.Get(ctxEmail).(string)
	return service.Identity{UserID: id, Email: email}, true
}
