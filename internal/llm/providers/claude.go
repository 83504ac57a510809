package providers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"job-research/internal/config"
	"job-research/internal/logging/types"
)

// ErrEmptyCompletion is returned when a provider answers without any text
var ErrEmptyCompletion = errors.New("llm returned an empty completion")

// ClaudeProvider implements the LLM provider interface using Anthropic's Claude
type ClaudeProvider struct {
	client anthropic.Client
	config *config.Config
	logger types.Logger
}

// NewClaudeProvider creates a new Claude provider instance
func NewClaudeProvider(cfg *config.Config, logger types.Logger) *ClaudeProvider {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.LLM.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.LLM.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.LLM.BaseURL))
	}

	return &ClaudeProvider{
		client: anthropic.NewClient(opts...),
		config: cfg,
		logger: logger,
	}
}

// Complete sends prompt as a single user message and returns the concatenated text blocks
func (cp *ClaudeProvider) Complete(ctx context.Context, prompt string) (string, error) {
	startTime := time.Now()

	response, err := cp.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(cp.config.LLM.Model),
		MaxTokens:   int64(cp.config.LLM.MaxTokens),
		Temperature: anthropic.Float(float64(cp.config.LLM.Temperature)),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to call Claude API: %w", err)
	}

	var text strings.Builder
	for _, content := range response.Content {
		if content.Type != "text" {
			continue
		}
		text.WriteString(content.AsText().Text)
	}

	reply := strings.TrimSpace(text.String())
	if reply == "" {
		return "", ErrEmptyCompletion
	}

	cp.logger.Debug("Claude completion received", map[string]interface{}{
		"provider":        "claude",
		"model":           cp.config.LLM.Model,
		"prompt_length":   len(prompt),
		"reply_length":    len(reply),
		"input_tokens":    response.Usage.InputTokens,
		"output_tokens":   response.Usage.OutputTokens,
		"processing_time": time.Since(startTime),
	})

	return reply, nil
}

// IsHealthy checks if the Claude provider is healthy and available
func (cp *ClaudeProvider) IsHealthy(ctx context.Context) error {
	if cp.config.LLM.APIKey == "" {
		return fmt.Errorf("Claude API key not configured - set LLM_API_KEY environment variable")
	}

	_, err := cp.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(cp.config.LLM.Model),
		MaxTokens: 16,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock("Hello")),
		},
	})
	if err != nil {
		return fmt.Errorf("Claude API health check failed: %w", err)
	}

	return nil
}

// GetProviderName returns the name of the LLM provider
func (cp *ClaudeProvider) GetProviderName() string {
	return "claude"
}
