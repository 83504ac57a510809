package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"job-research/internal/logging"
	"job-research/pkg/models"
	"job-research/pkg/utils"
)

// Version is reported by the health endpoints
const Version = "1.0.0"

var startTime = time.Now()

// HealthChecker is any dependency that can report its own health
type HealthChecker interface {
	IsHealthy() bool
}

// HealthHandler handles health check requests
func HealthHandler(c echo.Context) error {
	logging.GetGlobalLogger().Debug("Health check requested", map[string]interface{}{"request_id": RequestID(c)})

	return c.JSON(http.StatusOK, models.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   Version,
		Uptime:    utils.FormatDuration(time.Since(startTime)),
		Checks: map[string]string{
			"api": "ok",
		},
	})
}

// ReadinessHandler reports ready while the orchestrator accepts tasks. An unhealthy LLM is
// reported but does not fail readiness since tasks then fail individually.
func ReadinessHandler(svc ResearchService, llm HealthChecker) echo.HandlerFunc {
	return func(c echo.Context) error {
		logging.GetGlobalLogger().Debug("Readiness check requested", map[string]interface{}{"request_id": RequestID(c)})

		checks := map[string]string{"api": "ok", "research": "ok", "llm": "ok"}
		status, code := "ready", http.StatusOK

		if !svc.IsHealthy() {
			checks["research"] = "unavailable"
			status, code = "not_ready", http.StatusServiceUnavailable
		}
		if llm != nil && !llm.IsHealthy() {
			checks["llm"] = "degraded"
		}

		return c.JSON(code, models.HealthResponse{
			Status:    status,
			Timestamp: time.Now(),
			Version:   Version,
			Uptime:    utils.FormatDuration(time.Since(startTime)),
			Checks:    checks,
		})
	}
}

// LivenessHandler handles liveness probe requests
func LivenessHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, models.HealthResponse{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   Version,
		Uptime:    utils.FormatDuration(time.Since(startTime)),
	})
}

// StatusHandler provides detailed service status including task counts per status
func StatusHandler(svc ResearchService, llm HealthChecker) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()

		checks := map[string]string{
			"api":      "operational",
			"research": "operational",
			"llm":      "operational",
		}
		if !svc.IsHealthy() {
			checks["research"] = "stopped"
		}
		if llm != nil && !llm.IsHealthy() {
			checks["llm"] = "degraded"
		}

		tasks, err := svc.List(ctx)
		if err != nil {
			checks["tasks"] = "unknown"
		} else {
			counts := map[models.ResearchStatus]int{}
			for _, t := range tasks {
				counts[t.Status]++
			}
			for _, s := range []models.ResearchStatus{
				models.ResearchStatusStarted,
				models.ResearchStatusRunning,
				models.ResearchStatusCompleted,
				models.ResearchStatusFailed,
			} {
				checks["tasks_"+string(s)] = strconv.Itoa(counts[s])
			}
		}

		return c.JSON(http.StatusOK, models.HealthResponse{
			Status:    "operational",
			Timestamp: time.Now(),
			Version:   Version,
			Uptime:    utils.FormatDuration(time.Since(startTime)),
			Checks:    checks,
		})
	}
}
