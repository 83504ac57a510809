package models

import (
	"time"
)

// AsyncResearchResponse is the immediate reply to a research submission
type AsyncResearchResponse struct {
	ResearchID string         `json:"research_id"`
	Status     ResearchStatus `json:"status"`
	Message    string         `json:"message"`
	Timestamp  time.Time      `json:"timestamp"`
}

// ResearchListResponse represents the response for listing research tasks
type ResearchListResponse struct {
	Success bool               `json:"success"`
	Tasks   []ResearchSnapshot `json:"tasks"`
	Count   int                `json:"count"`
}

// AsyncErrorResponse represents an error response for async operations
type AsyncErrorResponse struct {
	Error      string    `json:"error"`
	Message    string    `json:"message"`
	ResearchID string    `json:"research_id,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// CreateAsyncResearchResponse creates a successful async research response
func CreateAsyncResearchResponse(researchID string) *AsyncResearchResponse {
	return &AsyncResearchResponse{
		ResearchID: researchID,
		Status:     ResearchStatusStarted,
		Message:    "Research request accepted for background processing",
		Timestamp:  time.Now(),
	}
}

// CreateResearchListResponse wraps task snapshots for the list endpoint
func CreateResearchListResponse(tasks []ResearchSnapshot) *ResearchListResponse {
	if tasks == nil {
		tasks = []ResearchSnapshot{}
	}
	return &ResearchListResponse{
		Success: true,
		Tasks:   tasks,
		Count:   len(tasks),
	}
}

// CreateAsyncErrorResponse creates an error response for async operations
func CreateAsyncErrorResponse(error, message string, researchID ...string) *AsyncErrorResponse {
	response := &AsyncErrorResponse{
		Error:     error,
		Message:   message,
		Timestamp: time.Now(),
	}

	if len(researchID) > 0 && researchID[0] != "" {
		response.ResearchID = researchID[0]
	}

	return response
}
