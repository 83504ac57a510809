package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"job-research/internal/logging"
	"job-research/internal/research"
	"job-research/pkg/models"
	"job-research/pkg/utils"
)

// ResearchService is the orchestrator surface the HTTP API drives
type ResearchService interface {
	Start(ctx context.Context, q models.ResearchQuery) (string, error)
	Status(ctx context.Context, id string) (models.ResearchSnapshot, error)
	Result(ctx context.Context, id string) (*models.ResearchResponse, error)
	List(ctx context.Context) ([]models.ResearchSnapshot, error)
	IsHealthy() bool
}

// StartResearchHandler handles POST /api/v1/research: it registers the task and replies 202
// with the research id while the pipeline runs in the background.
func StartResearchHandler(svc ResearchService) echo.HandlerFunc {
	return func(c echo.Context) error {
		logger := logging.LogWithRequestID(RequestID(c))

		var q models.ResearchQuery
		if err := c.Bind(&q); err != nil {
			logger.Warn("Failed to parse research request body", map[string]interface{}{
				"error": err.Error(),
			})
			return writeError(c, utils.NewBadRequestError("Invalid request body"), "")
		}

		researchID, err := svc.Start(c.Request().Context(), q)
		if err != nil {
			var verr *research.ValidationError
			switch {
			case errors.As(err, &verr):
				logger.Info("Research request rejected", map[string]interface{}{
					"error": err.Error(),
				})
				return writeError(c, utils.NewValidationError(err.Error()), "")
			case errors.Is(err, research.ErrOrchestratorClosed):
				return writeError(c, utils.NewUnavailableError(err.Error()), "")
			default:
				logger.Error("Failed to start research task", map[string]interface{}{
					"error": err.Error(),
				})
				return writeError(c, utils.NewInternalServerError("Failed to start research task"), "")
			}
		}

		logger.Info("Research task submitted", map[string]interface{}{
			"research_id": researchID,
			"job_title":   q.JobTitle,
		})

		return c.JSON(http.StatusAccepted, models.CreateAsyncResearchResponse(researchID))
	}
}

// ResearchStatusHandler handles GET /api/v1/research/:id/status
func ResearchStatusHandler(svc ResearchService) echo.HandlerFunc {
	return func(c echo.Context) error {
		researchID := c.Param("id")

		snapshot, err := svc.Status(c.Request().Context(), researchID)
		if err != nil {
			return writeTaskError(c, err, researchID)
		}

		return c.JSON(http.StatusOK, snapshot)
	}
}

// ResearchResultHandler handles GET /api/v1/research/:id/result
func ResearchResultHandler(svc ResearchService) echo.HandlerFunc {
	return func(c echo.Context) error {
		researchID := c.Param("id")

		response, err := svc.Result(c.Request().Context(), researchID)
		if err != nil {
			return writeTaskError(c, err, researchID)
		}

		return c.JSON(http.StatusOK, response)
	}
}

// ListResearchHandler handles GET /api/v1/research
func ListResearchHandler(svc ResearchService) echo.HandlerFunc {
	return func(c echo.Context) error {
		tasks, err := svc.List(c.Request().Context())
		if err != nil {
			logging.GetGlobalLogger().Error("Failed to list research tasks", map[string]interface{}{
				"request_id": RequestID(c),
				"error":      err.Error(),
			})
			return writeError(c, utils.NewInternalServerError("Failed to list research tasks"), "")
		}

		return c.JSON(http.StatusOK, models.CreateResearchListResponse(tasks))
	}
}

func writeTaskError(c echo.Context, err error, researchID string) error {
	switch {
	case errors.Is(err, research.ErrTaskNotFound):
		return writeError(c, utils.NewNotFoundError(researchID), researchID)
	case errors.Is(err, research.ErrTaskNotReady):
		return writeError(c, utils.NewNotReadyError(err.Error()), researchID)
	default:
		logging.GetGlobalLogger().Error("Research lookup failed", map[string]interface{}{
			"request_id":  RequestID(c),
			"research_id": researchID,
			"error":       err.Error(),
		})
		return writeError(c, utils.NewInternalServerError("Failed to read research task"), researchID)
	}
}

func writeError(c echo.Context, cerr *utils.CustomError, researchID string) error {
	return c.JSON(cerr.Code, models.CreateAsyncErrorResponse(cerr.Kind, cerr.Error(), researchID))
}

// RequestID returns the request id assigned by the request middleware
func RequestID(c echo.Context) string {
	if id, ok := c.Get("request_id").(string); ok {
		return id
	}
	return c.Response().Header().Get(echo.HeaderXRequestID)
}
