// Package router assembles the Echo instance: global middleware, the error
// handler and every route of the API.
package router

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/launchdev/internal/config"
	"github.com/iliyamo/launchdev/internal/handler"
	"github.com/iliyamo/launchdev/internal/middleware"
	"github.com/iliyamo/launchdev/internal/service"
)

// Deps are the collaborators the routes are built from.  Redis may be nil,
// in which case the credential endpoints are not rate limited.
type Deps struct {
	Auth          *service.AuthService
	Users         *service.UserService
	Subscriptions *service.SubscriptionService
	Store         handler.Pinger
	CookieSecure  bool
	RateLimit     config.RateLimitConfig
	Redis         *redis.Client
	Logger        *slog.Logger
}

// New returns a fully wired Echo instance.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	// Clients connect directly; forwarding headers are not trusted.
	e.IPExtractor = echo.ExtractIPDirect()
	e.HTTPErrorHandler = handler.ErrorHandler(d.Logger)

	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(requestLogger(d.Logger))

	RegisterRoutes(e, d.Store, d.Logger)
	RegisterAPI(e, d)
	return e
}

// RegisterRoutes registers the unauthenticated probes.
func RegisterRoutes(e *echo.Echo, store handler.Pinger, log *slog.Logger) {
	e.GET("/healthz", handler.Health)
	e.GET("/readyz", handler.Ready(store, log))
}

// RegisterAPI registers the account and subscription endpoints under /api.
// Signup and login share the token bucket; getUser and subscribe require a
// session.
func RegisterAPI(e *echo.Echo, d Deps) {
	auth := handler.NewAuthHandler(d.Auth, d.CookieSecure)
	users := handler.NewUserHandler(d.Users)
	subs := handler.NewSubscriptionHandler(d.Subscriptions)

	limited := middleware.NewTokenBucket(d.RateLimit, d.Redis, d.Logger)
	session := middleware.Session(d.Auth)

	api := e.Group("/api")
	api.POST("/signup", auth.Signup, limited)
	api.POST("/login", auth.Login, limited)
	api.POST("/logout", auth.Logout)
	api.GET("/getUser", users.GetUser, session)
	api.POST("/subscribe", subs.Subscribe, session)
}

func requestLogger(log *slog.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			attrs := []any{
				"request_id", v.RequestID,
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"remote_ip", v.RemoteIP,
			}
			if v.Error != nil {
				attrs = append(attrs, "err", v.Error)
			}
			log.LogAttrs(c.Request().Context(), levelFor(v.Status), "request", slog.Group("http", attrs...))
			return nil
		},
	})
}

func levelFor(status int) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
