package search

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"job-research/internal/logging/types"
)

// ErrCircuitOpen is returned while the provider circuit breaker rejects calls
var ErrCircuitOpen = errors.New("search provider circuit breaker is open")

// CircuitState represents the state of a circuit breaker
type CircuitState int

const (
	CircuitClosed CircuitState = iota
	CircuitOpen
	CircuitHalfOpen
)

// String returns string representation of CircuitState
func (cs CircuitState) String() string {
	switch cs {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// GuardOptions configures a GuardedProvider
type GuardOptions struct {
	MaxFailures  int
	ResetTimeout time.Duration
	Now          func() time.Time
}

// GuardedProvider stops calling a provider that keeps failing until ResetTimeout has passed,
// after which one trial call is let through.
type GuardedProvider struct {
	inner  Provider
	opts   GuardOptions
	logger types.Logger

	mu           sync.Mutex
	state        CircuitState
	trialPending bool
	failureCount int
	lastFailTime time.Time
	requests     int64
	failures     int64
}

// NewGuardedProvider wraps inner with a circuit breaker
func NewGuardedProvider(inner Provider, opts GuardOptions, logger types.Logger) *GuardedProvider {
	if opts.MaxFailures <= 0 {
		opts.MaxFailures = 5
	}
	if opts.ResetTimeout <= 0 {
		opts.ResetTimeout = 30 * time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &GuardedProvider{inner: inner, opts: opts, logger: logger}
}

// Name returns the wrapped provider's name
func (g *GuardedProvider) Name() string {
	return g.inner.Name()
}

// Query delegates to the wrapped provider unless the breaker is open
func (g *GuardedProvider) Query(ctx context.Context, req SearchRequest) ([]json.RawMessage, error) {
	trial, ok := g.allow()
	if !ok {
		g.logger.Debug("Search rejected by circuit breaker", map[string]interface{}{
			"provider": g.inner.Name(),
		})
		return nil, ErrCircuitOpen
	}

	items, err := g.inner.Query(ctx, req)
	switch {
	case err == nil:
		g.recordSuccess()
	case errors.Is(ctx.Err(), context.Canceled):
		// the caller gave up, the provider is not at fault
		g.releaseTrial(trial)
	default:
		// a deadline counts: a provider that hangs past the search timeout is failing
		g.recordFailure(err)
	}
	return items, err
}

// State returns the current circuit breaker state
func (g *GuardedProvider) State() CircuitState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Stats returns request counters and breaker state for status reporting
func (g *GuardedProvider) Stats() map[string]interface{} {
	g.mu.Lock()
	defer g.mu.Unlock()

	return map[string]interface{}{
		"provider":      g.inner.Name(),
		"requests":      g.requests,
		"failures":      g.failures,
		"circuit_state": g.state.String(),
		"failure_count": g.failureCount,
		"max_failures":  g.opts.MaxFailures,
	}
}

// allow reports whether a call may proceed and whether it is the half-open trial.
// Only one trial is in flight at a time; concurrent callers are rejected until it resolves.
func (g *GuardedProvider) allow() (trial, ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.requests++
	switch g.state {
	case CircuitClosed:
		return false, true
	case CircuitOpen:
		if g.opts.Now().Sub(g.lastFailTime) <= g.opts.ResetTimeout {
			return false, false
		}
		g.state = CircuitHalfOpen
		g.logger.Info("Search circuit breaker half-open", map[string]interface{}{
			"provider": g.inner.Name(),
		})
		fallthrough
	case CircuitHalfOpen:
		if g.trialPending {
			return false, false
		}
		g.trialPending = true
		return true, true
	default:
		return false, false
	}
}

func (g *GuardedProvider) releaseTrial(trial bool) {
	if !trial {
		return
	}
	g.mu.Lock()
	g.trialPending = false
	g.mu.Unlock()
}

func (g *GuardedProvider) recordSuccess() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state == CircuitHalfOpen {
		g.logger.Info("Search circuit breaker closed after successful request", map[string]interface{}{
			"provider": g.inner.Name(),
		})
	}
	g.state = CircuitClosed
	g.trialPending = false
	g.failureCount = 0
}

func (g *GuardedProvider) recordFailure(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.failures++
	g.failureCount++
	g.lastFailTime = g.opts.Now()
	g.trialPending = false

	// a failed trial call reopens immediately
	if g.state == CircuitHalfOpen || (g.state == CircuitClosed && g.failureCount >= g.opts.MaxFailures) {
		g.state = CircuitOpen
		g.logger.Warn("Search circuit breaker opened due to failures", map[string]interface{}{
			"provider": g.inner.Name(),
			"failures": g.failureCount,
			"error":    err.Error(),
		})
	}
}
