package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Health is the liveness probe.  It returns a plain "ok" as long as the
// process serves requests.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Ready returns the readiness probe: 200 "ready" when the credential store
// answers a ping within two seconds, 503 otherwise.
func Ready(store Pinger, log *slog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			log.WarnContext(ctx, "readyz: store ping failed", "err", err)
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "Store unavailable"})
		}
		return c.String(http.StatusOK, "ready")
	}
}
