package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"job-research/internal/logging"
)

// TimeoutConfig returns timeout middleware configuration. A zero timeout disables it.
func TimeoutConfig(timeout time.Duration) echo.MiddlewareFunc {
	return middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Skipper: func(c echo.Context) bool {
			return timeout <= 0
		},
		Timeout:      timeout,
		ErrorMessage: `{"error":"timeout","message":"Request timed out"}`,
		OnTimeoutRouteErrorHandler: func(err error, c echo.Context) {
			logging.GetGlobalLogger().Warn("Request timed out", map[string]interface{}{
				"path":  c.Path(),
				"error": err.Error(),
			})
		},
	})
}
