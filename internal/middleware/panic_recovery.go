package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"bank-gateway/internal/errors"

	"github.com/labstack/echo/v4"
)

// PanicRecovery converts handler panics into the standard error JSON. The
// panic value and stack stay in the log; the client only sees the generic
// system error with the request's trace ID.
func PanicRecovery() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			defer func() {
				if r := recover(); r != nil {
					traceID := GetTraceID(c)

					slog.Error("panic recovered",
						"trace_id", traceID,
						"panic", fmt.Sprintf("%v", r),
						"stack", string(debug.Stack()),
						"method", c.Request().Method,
						"path", c.Request().URL.Path,
					)

					errorResponse := errors.NewErrorResponse(errors.SystemInternalError, traceID)
					if err := c.JSON(http.StatusInternalServerError, errorResponse); err != nil {
						slog.Error("failed to write panic response",
							"trace_id", traceID,
							"error", err,
						)
					}
				}
			}()

			return next(c)
		}
	}
}
