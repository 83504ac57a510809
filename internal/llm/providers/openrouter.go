package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"job-research/internal/config"
	"job-research/internal/logging/types"
)

const defaultOpenRouterURL = "https://openrouter.ai/api/v1"

// OpenRouterProvider talks to OpenRouter's OpenAI-compatible chat completions endpoint
type OpenRouterProvider struct {
	baseURL    string
	config     *config.Config
	httpClient *http.Client
	logger     types.Logger
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewOpenRouterProvider creates a new OpenRouter provider instance
func NewOpenRouterProvider(cfg *config.Config, logger types.Logger) *OpenRouterProvider {
	baseURL := strings.TrimRight(cfg.LLM.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultOpenRouterURL
	}

	return &OpenRouterProvider{
		baseURL: baseURL,
		config:  cfg,
		httpClient: &http.Client{
			Timeout: cfg.LLM.Timeout,
		},
		logger: logger,
	}
}

// Complete posts prompt as a single user message and returns the first choice's content
func (p *OpenRouterProvider) Complete(ctx context.Context, prompt string) (string, error) {
	if p.config.LLM.APIKey == "" {
		return "", fmt.Errorf("openrouter API key not configured - set OPENROUTER_API_KEY environment variable")
	}

	body, err := json.Marshal(chatRequest{
		Model:       p.config.LLM.Model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: p.config.LLM.Temperature,
		MaxTokens:   p.config.LLM.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal openrouter payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	p.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	startTime := time.Now()
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("openrouter request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("openrouter error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var decoded chatResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4<<20)).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode openrouter response: %w", err)
	}
	if decoded.Error != nil && decoded.Error.Message != "" {
		return "", fmt.Errorf("openrouter error: %s", decoded.Error.Message)
	}
	if len(decoded.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	reply := strings.TrimSpace(decoded.Choices[0].Message.Content)
	if reply == "" {
		return "", ErrEmptyCompletion
	}

	p.logger.Debug("OpenRouter completion received", map[string]interface{}{
		"provider":        "openrouter",
		"model":           p.config.LLM.Model,
		"reply_length":    len(reply),
		"processing_time": time.Since(startTime),
	})

	return reply, nil
}

// IsHealthy verifies the key is configured and the models listing is reachable
func (p *OpenRouterProvider) IsHealthy(ctx context.Context) error {
	if p.config.LLM.APIKey == "" {
		return fmt.Errorf("openrouter API key not configured - set OPENROUTER_API_KEY environment variable")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/models", nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	p.setHeaders(req)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("openrouter health check failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("openrouter health check failed: %s", resp.Status)
	}
	return nil
}

// GetProviderName returns the name of the LLM provider
func (p *OpenRouterProvider) GetProviderName() string {
	return "openrouter"
}

func (p *OpenRouterProvider) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+p.config.LLM.APIKey)
	if p.config.LLM.Referer != "" {
		req.Header.Set("HTTP-Referer", p.config.LLM.Referer)
	}
	if p.config.LLM.AppTitle != "" {
		req.Header.Set("X-Title", p.config.LLM.AppTitle)
	}
}
