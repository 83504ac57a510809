package llm

import (
	"fmt"

	"job-research/internal/config"
	"job-research/internal/llm/providers"
	"job-research/internal/logging/types"
)

// LLMFactory creates LLM provider instances
type LLMFactory struct {
	config *config.Config
	logger types.Logger
}

// NewLLMFactory creates a new LLM factory instance
func NewLLMFactory(cfg *config.Config, logger types.Logger) *LLMFactory {
	return &LLMFactory{
		config: cfg,
		logger: logger,
	}
}

// CreateProvider creates an LLM provider based on the configuration
func (f *LLMFactory) CreateProvider() (LLMProvider, error) {
	switch f.config.LLM.Provider {
	case "claude":
		return providers.NewClaudeProvider(f.config, f.logger), nil
	case "openrouter":
		return providers.NewOpenRouterProvider(f.config, f.logger), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", f.config.LLM.Provider)
	}
}

// GetSupportedProviders returns a list of supported LLM providers
func (f *LLMFactory) GetSupportedProviders() []string {
	return []string{"claude", "openrouter"}
}
