package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/launchdev/internal/apperror"
	"github.com/iliyamo/launchdev/internal/middleware"
	"github.com/iliyamo/launchdev/internal/service"
)

// SubscriptionHandler serves plan purchases.
type SubscriptionHandler struct {
	Subs *service.SubscriptionService
}

func NewSubscriptionHandler(subs *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{Subs: subs}
}

type subscribeReq struct {
	Plan string `json:"plan" form:"plan"`
}

// Subscribe marks the session's user as paid with the posted plan.
func (h *SubscriptionHandler) Subscribe(c echo.Context) error {
	ident, ok := middleware.CurrentIdentity(c)
	if !ok {
		return apperror.NewAuthError("No token provided", nil)
	}
	var req subscribeReq
	if err := c.Bind(&req); err != nil {
		return apperror.NewValidationError("Invalid request body")
	}
	if err := h.Subs.Purchase(c.Request().Context(), ident, req.Plan); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
