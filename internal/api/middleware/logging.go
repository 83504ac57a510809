package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"job-research/internal/logging"
)

// RequestLogger logs one structured line per request through the global logger
func RequestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := map[string]interface{}{
				"request_id": v.RequestID,
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency_ms": v.Latency.Milliseconds(),
				"remote_ip":  v.RemoteIP,
			}

			logger := logging.GetGlobalLogger()
			if v.Error != nil {
				fields["error"] = v.Error.Error()
				logger.Error("Request failed", fields)
				return nil
			}
			if v.Status >= 500 {
				logger.Warn("Request completed with server error", fields)
				return nil
			}
			logger.Debug("Request completed", fields)
			return nil
		},
	})
}
