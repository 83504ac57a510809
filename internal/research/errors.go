package research

import (
	"errors"
	"fmt"
	"strings"

	"job-research/internal/validation"
)

// Common errors
var (
	ErrTaskNotFound       = NewTaskError("TASK_NOT_FOUND", "research task not found")
	ErrTaskNotReady       = NewTaskError("TASK_NOT_READY", "research task has not completed")
	ErrInvalidTransition  = NewTaskError("INVALID_TRANSITION", "invalid research status transition")
	ErrOrchestratorClosed = NewTaskError("ORCHESTRATOR_CLOSED", "research orchestrator is shutting down")
)

// TaskError represents a research task error
type TaskError struct {
	Message string
	Code    string
}

// NewTaskError creates a task error with a machine-readable code
func NewTaskError(code, message string) *TaskError {
	return &TaskError{
		Message: message,
		Code:    code,
	}
}

func (e *TaskError) Error() string {
	return e.Message
}

// ValidationError is returned by Start when the query is rejected
type ValidationError struct {
	Problems []validation.FieldProblem
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		if p.Field == "" {
			parts = append(parts, p.Message)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %s", p.Field, p.Message))
	}
	return "invalid research query: " + strings.Join(parts, "; ")
}

// IsValidationError reports whether err is or wraps a *ValidationError
func IsValidationError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}
