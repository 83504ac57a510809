package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"job-research/pkg/models"
	"job-research/pkg/utils"
)

const maxRequestIDLength = 128

// RequestValidation assigns a request id and rejects POST bodies larger than maxBody bytes.
// A caller supplied X-Request-ID is kept when it looks sane.
func RequestValidation(maxBody int64) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := c.Request().Header.Get(echo.HeaderXRequestID)
			if !validRequestID(requestID) {
				requestID = utils.GenerateRequestID()
			}
			c.Set("request_id", requestID)
			c.Response().Header().Set(echo.HeaderXRequestID, requestID)

			if c.Request().Method == http.MethodPost && maxBody > 0 {
				if c.Request().ContentLength > maxBody {
					return c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{
						Error:     "request_too_large",
						Message:   "Request body too large",
						RequestID: requestID,
						Timestamp: time.Now(),
					})
				}
				c.Request().Body = http.MaxBytesReader(c.Response(), c.Request().Body, maxBody)
			}

			return next(c)
		}
	}
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for _, r := range id {
		if r < 0x21 || r > 0x7e {
			return false
		}
	}
	return true
}
