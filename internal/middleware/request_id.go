package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"myMealPlanner/business/bandit"
)

const RequestIDHeader = "X-Request-ID"

// RequestID tags every request with an id, reusing the X-Request-ID
// header when the caller sends one. The id rides the request context so
// service logs can correlate, and is echoed in the response header.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(RequestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}

			ctx := bandit.ContextWithTraceID(c.Request().Context(), id)
			c.SetRequest(c.Request().WithContext(ctx))
			c.Response().Header().Set(RequestIDHeader, id)

			return next(c)
		}
	}
}
