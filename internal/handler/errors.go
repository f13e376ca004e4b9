package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/launchdev/internal/apperror"
)

// ErrorHandler renders every error as {"error": message}.  Application
// errors keep their mapped status; echo's own errors (404, 405, bind
// failures) keep theirs.  Internal errors are logged with the request id and
// answered with a generic message.
func ErrorHandler(log *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, msg := classify(err)
		if status >= http.StatusInternalServerError {
			log.ErrorContext(c.Request().Context(), "request failed",
				"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
				"method", c.Request().Method,
				"path", c.Path(),
				"err", err,
			)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, apperror.ErrorResponse{Error: msg})
		}
		if err != nil {
			log.Error("write error response", "err", err)
		}
	}
}

func classify(err error) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg, ok := he.Message.(string)
		if !ok {
			msg = fmt.Sprint(he.Message)
		}
		if he.Code >= http.StatusInternalServerError {
			msg = "Server error"
		}
		return he.Code, msg
	}
	appErr := apperror.From(err)
	return appErr.StatusCode(), appErr.Message
}
