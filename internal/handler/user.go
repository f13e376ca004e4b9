package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/launchdev/internal/apperror"
	"github.com/iliyamo/launchdev/internal/middleware"
	"github.com/iliyamo/launchdev/internal/service"
)

// UserHandler serves the current user's account state.
type UserHandler struct {
	Users *service.UserService
}

func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{Users: users}
}

// GetUser returns {"user": UserView} for the session's user.
func (h *UserHandler) GetUser(c echo.Context) error {
	ident, ok := middleware.CurrentIdentity(c)
	if !ok {
		return apperror.NewAuthError("No token provided", nil)
	}
	view, err := h.Users.GetBySession(c.Request().Context(), ident)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"user": view})
}
