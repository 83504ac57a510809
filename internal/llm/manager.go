package llm

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"job-research/internal/config"
	"job-research/internal/logging/types"
)

// Manager manages LLM providers and their lifecycle
type Manager struct {
	config   *config.Config
	factory  *LLMFactory
	provider LLMProvider
	logger   types.Logger
	mu       sync.RWMutex
	healthy  bool
}

// NewManager creates a new LLM manager instance
func NewManager(cfg *config.Config, logger types.Logger) *Manager {
	return &Manager{
		config:  cfg,
		factory: NewLLMFactory(cfg, logger),
		logger:  logger,
	}
}

// NewManagerWithProvider wraps an already constructed provider, skipping the factory
func NewManagerWithProvider(cfg *config.Config, provider LLMProvider, logger types.Logger) *Manager {
	return &Manager{
		config:   cfg,
		provider: provider,
		logger:   logger,
		healthy:  true,
	}
}

// Start initializes the LLM manager and creates the provider
func (m *Manager) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.logger.Info("Starting LLM manager", map[string]interface{}{
		"provider": m.config.LLM.Provider,
		"model":    m.config.LLM.Model,
	})

	if m.provider == nil {
		provider, err := m.factory.CreateProvider()
		if err != nil {
			return fmt.Errorf("failed to create LLM provider: %w", err)
		}
		m.provider = provider
	}

	ctx, cancel := context.WithTimeout(context.Background(), m.config.LLM.Timeout)
	defer cancel()

	if err := m.provider.IsHealthy(ctx); err != nil {
		// The server still starts; research tasks will fail at the recommendation step.
		m.logger.Warn("LLM provider health check failed", map[string]interface{}{
			"provider": m.provider.GetProviderName(),
			"error":    err.Error(),
		})
		m.healthy = false
	} else {
		m.healthy = true
		m.logger.Info("LLM manager started successfully", map[string]interface{}{
			"provider": m.provider.GetProviderName(),
		})
	}

	return nil
}

// Stop shuts down the LLM manager
func (m *Manager) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.logger.Info("Stopping LLM manager")
	m.provider = nil
	m.healthy = false
	return nil
}

// Complete forwards prompt to the configured provider. The outcome of every call updates the
// manager's health flag, so a provider that failed its startup probe can recover.
func (m *Manager) Complete(ctx context.Context, prompt string) (string, error) {
	m.mu.RLock()
	provider := m.provider
	m.mu.RUnlock()

	if provider == nil {
		return "", fmt.Errorf("LLM manager not started or provider not available")
	}

	reply, err := provider.Complete(ctx, prompt)

	// Context expiry says nothing about the provider itself.
	if err == nil || !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
		m.mu.Lock()
		m.healthy = err == nil || errors.Is(err, ErrEmptyCompletion)
		m.mu.Unlock()
	}

	return reply, err
}

// IsHealthy checks if the LLM manager and provider are healthy
func (m *Manager) IsHealthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.healthy && m.provider != nil
}

// GetProviderName returns the name of the current LLM provider
func (m *Manager) GetProviderName() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.provider != nil {
		return m.provider.GetProviderName()
	}
	return "none"
}

// CheckHealth performs a health check on the LLM provider
func (m *Manager) CheckHealth(ctx context.Context) error {
	m.mu.RLock()
	provider := m.provider
	m.mu.RUnlock()

	if provider == nil {
		return fmt.Errorf("LLM provider not available")
	}

	err := provider.IsHealthy(ctx)

	m.mu.Lock()
	m.healthy = (err == nil)
	m.mu.Unlock()

	return err
}
