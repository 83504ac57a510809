// Package recommend turns normalized postings into job-seeker recommendations via an LLM.
package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"job-research/internal/logging/types"
	"job-research/pkg/models"
	"job-research/pkg/utils"
)

// ErrRecommendationFailed marks a synthesis that produced no usable recommendations
var ErrRecommendationFailed = errors.New("recommendation synthesis failed")

// SynthesisError carries the underlying cause of a failed synthesis
type SynthesisError struct {
	Err error
}

func (e *SynthesisError) Error() string {
	return fmt.Sprintf("%s: %v", ErrRecommendationFailed.Error(), e.Err)
}

func (e *SynthesisError) Unwrap() error { return e.Err }

// Is matches ErrRecommendationFailed
func (e *SynthesisError) Is(target error) bool { return target == ErrRecommendationFailed }

// Completer is the slice of the LLM manager the synthesizer needs
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Options tunes prompt construction and the LLM call
type Options struct {
	SampleSize int
	Count      int
	Timeout    time.Duration
}

// Synthesizer builds the recommendation prompt and interprets the reply
type Synthesizer struct {
	llm    Completer
	opts   Options
	logger types.Logger
}

// NewSynthesizer creates a synthesizer backed by llm
func NewSynthesizer(llm Completer, opts Options, logger types.Logger) *Synthesizer {
	if opts.SampleSize <= 0 {
		opts.SampleSize = 10
	}
	if opts.Count <= 0 {
		opts.Count = 5
	}
	return &Synthesizer{llm: llm, opts: opts, logger: logger}
}

// Synthesize asks the LLM for recommendations grounded in postings. It runs even when
// postings is empty so the seeker still gets general guidance.
func (s *Synthesizer) Synthesize(ctx context.Context, postings []models.JobPosting, q models.ResearchQuery) (models.RecommendationSet, error) {
	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	prompt := BuildPrompt(postings, q, s.opts.SampleSize, s.opts.Count)

	reply, err := s.llm.Complete(ctx, prompt)
	if err != nil {
		return models.RecommendationSet{}, &SynthesisError{Err: err}
	}

	set, ok := ParseRecommendations(reply, s.opts.Count)
	if !ok {
		return models.RecommendationSet{}, &SynthesisError{Err: errors.New("reply contained no recommendations")}
	}

	if set.Mode == models.RecommendationModeFallback {
		s.logger.Warn("LLM reply was not a JSON array, using line fallback", map[string]interface{}{
			"reply_preview": utils.Truncate(reply, 200),
			"items":         len(set.Items),
		})
	}

	return set, nil
}
