package utils

import (
	"fmt"
	"net/http"
)

// CustomError represents a custom application error
type CustomError struct {
	Code    int    `json:"code"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

func (e *CustomError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Detail)
	}
	return e.Message
}

// Common error constructors
func NewBadRequestError(message string) *CustomError {
	return &CustomError{
		Code:    http.StatusBadRequest,
		Kind:    "invalid_request",
		Message: message,
	}
}

func NewInternalServerError(message string) *CustomError {
	return &CustomError{
		Code:    http.StatusInternalServerError,
		Kind:    "internal_error",
		Message: message,
	}
}

func NewValidationError(detail string) *CustomError {
	return &CustomError{
		Code:    http.StatusBadRequest,
		Kind:    "validation_failed",
		Message: "Validation failed",
		Detail:  detail,
	}
}

func NewNotFoundError(detail string) *CustomError {
	return &CustomError{
		Code:    http.StatusNotFound,
		Kind:    "not_found",
		Message: "Research task not found",
		Detail:  detail,
	}
}

func NewNotReadyError(detail string) *CustomError {
	return &CustomError{
		Code:    http.StatusConflict,
		Kind:    "not_ready",
		Message: "Research task has not completed",
		Detail:  detail,
	}
}

func NewUnavailableError(detail string) *CustomError {
	return &CustomError{
		Code:    http.StatusServiceUnavailable,
		Kind:    "unavailable",
		Message: "Research service unavailable",
		Detail:  detail,
	}
}
