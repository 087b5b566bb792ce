package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"myMealPlanner/business/bandit"
	"myMealPlanner/pkg/logger"
)

// ErrorHandler converts errors returned by handlers into the API error
// shape. Handlers that already wrote a response are left alone.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "internal server error"

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		code = httpErr.Code
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		} else {
			message = http.StatusText(code)
		}
	}

	if code >= http.StatusInternalServerError {
		logger.Error("request failed",
			"error", err,
			"method", c.Request().Method,
			"path", c.Path(),
			"request_id", bandit.TraceIDFromContext(c.Request().Context()),
		)
	}

	if c.Request().Method == http.MethodHead {
		if werr := c.NoContent(code); werr != nil {
			logger.Error("failed to write error response", "error", werr)
		}
		return
	}

	if werr := c.JSON(code, map[string]string{"message": message}); werr != nil {
		logger.Error("failed to write error response", "error", werr)
	}
}
