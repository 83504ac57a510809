package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"job-research/pkg/models"
)

// RateLimiter limits each client IP to perSecond requests with a small burst. Health probes are
// never limited and a non-positive rate disables the limiter.
func RateLimiter(perSecond float64) echo.MiddlewareFunc {
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(perSecond),
		Burst:     burstFor(perSecond),
		ExpiresIn: 3 * time.Minute,
	})

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Skipper: func(c echo.Context) bool {
			if perSecond <= 0 {
				return true
			}
			path := c.Path()
			return path == "/health" || path == "/health/ready" || path == "/health/live"
		},
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusForbidden, models.CreateAsyncErrorResponse("forbidden", "Unable to identify client"))
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return c.JSON(http.StatusTooManyRequests, models.CreateAsyncErrorResponse("rate_limited", "Too many requests"))
		},
	})
}

func burstFor(perSecond float64) int {
	burst := int(perSecond * 2)
	if burst < 1 {
		return 1
	}
	return burst
}
