package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"job-research/internal/api/handlers"
	"job-research/internal/api/middleware"
	"job-research/internal/config"
)

const maxRequestBody = 1 << 20 // 1MB

// SetupRoutes configures all API routes
func SetupRoutes(e *echo.Echo, cfg *config.Config, svc handlers.ResearchService, llm handlers.HealthChecker) {
	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(middleware.RequestValidation(maxRequestBody))
	e.Use(middleware.RequestLogger())
	e.Use(middleware.CORSConfig())
	e.Use(middleware.RateLimiter(cfg.Server.RateLimit))
	e.Use(middleware.TimeoutConfig(cfg.Server.RequestTimeout))

	// Health check routes
	health := e.Group("/health")
	{
		health.GET("", handlers.HealthHandler)
		health.GET("/ready", handlers.ReadinessHandler(svc, llm))
		health.GET("/live", handlers.LivenessHandler)
	}

	// Status route
	e.GET("/status", handlers.StatusHandler(svc, llm))

	// API v1 routes
	v1 := e.Group("/api/v1")
	{
		research := v1.Group("/research")
		{
			research.POST("", handlers.StartResearchHandler(svc))
			research.GET("", handlers.ListResearchHandler(svc))
			research.GET("/:id/status", handlers.ResearchStatusHandler(svc))
			research.GET("/:id/result", handlers.ResearchResultHandler(svc))
		}
	}

	// Root route
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"service": "Job Research API",
			"version": handlers.Version,
			"status":  "running",
		})
	})
}
