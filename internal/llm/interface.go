package llm

import (
	"context"

	"job-research/internal/llm/providers"
)

// ErrEmptyCompletion is returned when a provider answers without any text
var ErrEmptyCompletion = providers.ErrEmptyCompletion

// LLMProvider defines the interface for LLM providers
type LLMProvider interface {
	// Complete sends a single user prompt and returns the model's text reply
	Complete(ctx context.Context, prompt string) (string, error)

	// IsHealthy checks if the LLM provider is healthy and available
	IsHealthy(ctx context.Context) error

	// GetProviderName returns the name of the LLM provider
	GetProviderName() string
}
