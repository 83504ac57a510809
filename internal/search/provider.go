package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrSearchFailed matches every error returned when the provider could not be queried
var ErrSearchFailed = errors.New("search failed")

// SearchRequest is what a provider receives for one research query
type SearchRequest struct {
	Query      string
	Location   string
	RemoteOnly bool
	MaxResults int
}

// Provider is an external job-search backend returning raw, provider-shaped items
type Provider interface {
	Query(ctx context.Context, req SearchRequest) ([]json.RawMessage, error)
	Name() string
}

// SearchError wraps a provider failure
type SearchError struct {
	Provider string
	Err      error
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("%s via %s: %v", ErrSearchFailed.Error(), e.Provider, e.Err)
}

func (e *SearchError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrSearchFailed) match any SearchError
func (e *SearchError) Is(target error) bool {
	return target == ErrSearchFailed
}

// StatusError is returned by HTTP providers for non-2xx responses
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("provider returned status %d: %s", e.StatusCode, e.Body)
}

// Retryable reports whether the request may succeed if repeated
func (e *StatusError) Retryable() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}
