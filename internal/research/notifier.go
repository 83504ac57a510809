package research

import (
	"context"
	"time"

	"job-research/internal/logging/types"
	"job-research/pkg/models"
)

// Publisher broadcasts completion records to external listeners
type Publisher interface {
	PublishJSON(ctx context.Context, payload interface{}) error
}

// CompletionRecord is the structured event emitted when a task reaches a terminal state
type CompletionRecord struct {
	ResearchID         string                    `json:"research_id"`
	Status             models.ResearchStatus     `json:"status"`
	JobTitle           string                    `json:"job_title"`
	Error              string                    `json:"error,omitempty"`
	TotalPostings      int                       `json:"total_postings"`
	RecommendationMode models.RecommendationMode `json:"recommendation_mode,omitempty"`
	ProcessingTime     string                    `json:"processing_time"`
	Timestamp          time.Time                 `json:"timestamp"`
}

// TaskCompletionLogger handles structured logging and publication of task lifecycle events
type TaskCompletionLogger struct {
	logger         types.Logger
	publisher      Publisher
	publishTimeout time.Duration
}

// NewTaskCompletionLogger creates a completion logger. publisher may be nil.
func NewTaskCompletionLogger(logger types.Logger, publisher Publisher, publishTimeout time.Duration) *TaskCompletionLogger {
	if publishTimeout <= 0 {
		publishTimeout = 5 * time.Second
	}
	return &TaskCompletionLogger{
		logger:         logger,
		publisher:      publisher,
		publishTimeout: publishTimeout,
	}
}

// NewCompletionRecord builds the completion record of a terminal task
func NewCompletionRecord(task *ResearchTask) CompletionRecord {
	record := CompletionRecord{
		ResearchID: task.ID,
		Status:     task.Status,
		JobTitle:   task.Query.JobTitle,
		Error:      task.Error,
		Timestamp:  time.Now(),
	}

	end := task.UpdatedAt
	if task.CompletedAt != nil {
		end = *task.CompletedAt
	}
	record.ProcessingTime = end.Sub(task.CreatedAt).String()

	if task.Response != nil {
		record.TotalPostings = task.Response.TotalPostings
		record.RecommendationMode = task.Response.Recommendations.Mode
	}
	return record
}

func (l *TaskCompletionLogger) forTask(task *ResearchTask) types.Logger {
	return l.logger.WithFields(map[string]interface{}{"research_id": task.ID})
}

// LogTaskAccepted logs when a task is registered
func (l *TaskCompletionLogger) LogTaskAccepted(task *ResearchTask) {
	l.forTask(task).Info("Research task accepted", map[string]interface{}{
		"job_title":   task.Query.JobTitle,
		"location":    task.Query.Location,
		"max_results": task.Query.MaxResults,
		"status":      task.Status,
	})
}

// LogTaskProgress logs a pipeline step change
func (l *TaskCompletionLogger) LogTaskProgress(task *ResearchTask) {
	l.forTask(task).Debug("Research task progress", map[string]interface{}{
		"status":       task.Status,
		"progress":     task.Progress,
		"current_step": task.CurrentStep,
	})
}

// LogTaskCompletion logs the terminal state of a task and publishes it when a publisher is set.
// Publish failures are logged and otherwise ignored.
func (l *TaskCompletionLogger) LogTaskCompletion(task *ResearchTask) {
	record := NewCompletionRecord(task)
	log := l.forTask(task)

	fields := map[string]interface{}{
		"status":          record.Status,
		"job_title":       record.JobTitle,
		"total_postings":  record.TotalPostings,
		"processing_time": record.ProcessingTime,
	}
	if record.RecommendationMode != "" {
		fields["recommendation_mode"] = record.RecommendationMode
	}

	if task.Status == models.ResearchStatusFailed {
		fields["error"] = record.Error
		log.Error("Research task failed", fields)
	} else {
		log.Info("Research task completed", fields)
	}

	if l.publisher == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), l.publishTimeout)
	defer cancel()

	if err := l.publisher.PublishJSON(ctx, record); err != nil {
		log.Warn("Failed to publish research completion", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
