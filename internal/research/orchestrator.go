// Package research runs job-search research tasks asynchronously and tracks their lifecycle.
package research

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"

	"job-research/internal/config"
	"job-research/internal/insights"
	"job-research/internal/logging/types"
	"job-research/internal/search"
	"job-research/internal/validation"
	"job-research/pkg/models"
	"job-research/pkg/utils"
)

// Pipeline steps reported through CurrentStep
const (
	StepAccepted   = "research task accepted"
	StepSearching  = "searching job postings"
	StepAggregate  = "aggregating company insights"
	StepSynthesize = "synthesizing recommendations"
	StepAssemble   = "assembling response"
	StepCompleted  = "completed"
	StepFailed     = "failed"
)

const defaultEstimate = 30 * time.Second

// Searcher finds and normalizes postings for a query
type Searcher interface {
	Search(ctx context.Context, q models.ResearchQuery) (*search.Outcome, error)
}

// Synthesizer produces recommendations from postings
type Synthesizer interface {
	Synthesize(ctx context.Context, postings []models.JobPosting, q models.ResearchQuery) (models.RecommendationSet, error)
}

// Dependencies are the collaborators an Orchestrator drives
type Dependencies struct {
	Searcher    Searcher
	Synthesizer Synthesizer
	// Store defaults to an InMemoryTaskStore
	Store TaskStore
	// Publisher is optional
	Publisher Publisher
}

// Orchestrator accepts research queries, runs each pipeline in its own goroutine and
// answers status and result lookups from its task registry.
type Orchestrator struct {
	config      *config.Config
	searcher    Searcher
	synthesizer Synthesizer
	store       TaskStore
	validate    *validator.Validate
	completion  *TaskCompletionLogger
	logger      types.Logger
	scheduler   *cron.Cron
	now         func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.RWMutex
	running bool

	statsMu      sync.Mutex
	avgDuration  time.Duration
	finishedRuns int
}

// NewOrchestrator creates an orchestrator ready to accept tasks. When research.retention is
// positive the retention job is scheduled on research.cleanup_schedule.
func NewOrchestrator(cfg *config.Config, deps Dependencies, logger types.Logger) (*Orchestrator, error) {
	if deps.Searcher == nil || deps.Synthesizer == nil {
		return nil, errors.New("research orchestrator requires a searcher and a synthesizer")
	}

	store := deps.Store
	if store == nil {
		store = NewInMemoryTaskStore()
	}

	ctx, cancel := context.WithCancel(context.Background())
	o := &Orchestrator{
		config:      cfg,
		searcher:    deps.Searcher,
		synthesizer: deps.Synthesizer,
		store:       store,
		validate:    validation.New(),
		completion:  NewTaskCompletionLogger(logger, deps.Publisher, cfg.Redis.Timeout),
		logger:      logger,
		now:         time.Now,
		ctx:         ctx,
		cancel:      cancel,
		running:     true,
	}

	if cfg.Research.Retention > 0 {
		o.scheduler = cron.New()
		if _, err := o.scheduler.AddFunc(cfg.Research.CleanupSchedule, o.runCleanup); err != nil {
			cancel()
			return nil, fmt.Errorf("invalid research cleanup schedule %q: %w", cfg.Research.CleanupSchedule, err)
		}
		o.scheduler.Start()
	}

	logger.Info("Research orchestrator initialized", map[string]interface{}{
		"recency_window":   cfg.Research.RecencyWindow.String(),
		"retention":        cfg.Research.Retention.String(),
		"cleanup_schedule": cfg.Research.CleanupSchedule,
		"publisher":        deps.Publisher != nil,
	})

	return o, nil
}

// Start validates q, registers a task and launches its pipeline without waiting for it
func (o *Orchestrator) Start(ctx context.Context, q models.ResearchQuery) (string, error) {
	if err := o.validate.Struct(q); err != nil {
		return "", &ValidationError{Problems: validation.Describe(err)}
	}
	q = q.Normalized(o.config.Research.DefaultMaxResults, o.config.Research.MaxResultsCap)

	o.mu.RLock()
	defer o.mu.RUnlock()
	if !o.running {
		return "", ErrOrchestratorClosed
	}

	now := o.now()
	task := &ResearchTask{
		ID:          utils.GenerateResearchID(),
		Query:       q,
		Status:      models.ResearchStatusStarted,
		CurrentStep: StepAccepted,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := o.store.Create(ctx, task); err != nil {
		return "", fmt.Errorf("failed to register research task: %w", err)
	}
	o.completion.LogTaskAccepted(task)

	// Add happens under the read lock so Stop cannot begin waiting before this pipeline counts.
	o.wg.Add(1)
	go o.run(task.ID, q)

	return task.ID, nil
}

// Status returns the current snapshot of a task
func (o *Orchestrator) Status(ctx context.Context, id string) (models.ResearchSnapshot, error) {
	if !utils.IsValidResearchID(id) {
		return models.ResearchSnapshot{}, ErrTaskNotFound
	}
	task, err := o.store.Get(ctx, id)
	if err != nil {
		return models.ResearchSnapshot{}, err
	}
	return o.snapshot(task), nil
}

// Result returns the assembled response of a completed task
func (o *Orchestrator) Result(ctx context.Context, id string) (*models.ResearchResponse, error) {
	if !utils.IsValidResearchID(id) {
		return nil, ErrTaskNotFound
	}
	task, err := o.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.Status != models.ResearchStatusCompleted || task.Response == nil {
		return nil, fmt.Errorf("%w: status is %s", ErrTaskNotReady, task.Status)
	}
	return task.Response, nil
}

// List returns snapshots of every registered task ordered by creation time
func (o *Orchestrator) List(ctx context.Context) ([]models.ResearchSnapshot, error) {
	tasks, err := o.store.List(ctx)
	if err != nil {
		return nil, err
	}

	snapshots := make([]models.ResearchSnapshot, 0, len(tasks))
	for _, task := range tasks {
		snapshots = append(snapshots, o.snapshot(task))
	}
	return snapshots, nil
}

// Cleanup evicts terminal tasks older than the configured retention and returns how many
// were removed. It is a no-op when retention is disabled.
func (o *Orchestrator) Cleanup(ctx context.Context) (int, error) {
	if o.config.Research.Retention <= 0 {
		return 0, nil
	}
	return o.store.Cleanup(ctx, o.now().Add(-o.config.Research.Retention))
}

// IsHealthy reports whether the orchestrator accepts new tasks
func (o *Orchestrator) IsHealthy() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.running
}

// Stop refuses new tasks, stops the retention job and waits for in-flight pipelines. If ctx
// expires first the pipelines are cancelled and ctx's error is returned.
func (o *Orchestrator) Stop(ctx context.Context) error {
	o.mu.Lock()
	if !o.running {
		o.mu.Unlock()
		return nil
	}
	o.running = false
	o.mu.Unlock()

	o.logger.Info("Stopping research orchestrator...")

	if o.scheduler != nil {
		<-o.scheduler.Stop().Done()
	}

	done := make(chan struct{})
	go func() {
		o.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		o.cancel()
		o.logger.Info("Research orchestrator stopped gracefully")
		return nil
	case <-ctx.Done():
		o.cancel()
		<-done
		o.logger.Warn("Research orchestrator shutdown timed out, in-flight tasks cancelled")
		return ctx.Err()
	}
}

// run executes the research pipeline for one task
func (o *Orchestrator) run(id string, q models.ResearchQuery) {
	defer o.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			o.fail(o.logger.WithField("research_id", id), id, fmt.Errorf("research pipeline panicked: %v", r))
		}
	}()

	ctx := o.ctx
	log := o.logger.WithFields(map[string]interface{}{"research_id": id})

	if !o.advance(log, id, StepSearching, 10) {
		return
	}
	outcome, err := o.searcher.Search(ctx, q)
	if err != nil {
		o.fail(log, id, err)
		return
	}

	if !o.advance(log, id, StepAggregate, 40) {
		return
	}
	companyInsights := insights.Aggregate(outcome.Postings, o.config.Research.InsightDisplayCount)

	if !o.advance(log, id, StepSynthesize, 60) {
		return
	}
	recommendations, err := o.synthesizer.Synthesize(ctx, outcome.Postings, q)
	if err != nil {
		o.fail(log, id, err)
		return
	}

	if !o.advance(log, id, StepAssemble, 90) {
		return
	}

	postings := outcome.Postings
	if postings == nil {
		postings = []models.JobPosting{}
	}
	o.complete(log, id, &models.ResearchResponse{
		ResearchID:      id,
		Query:           q,
		JobPostings:     postings,
		CompanyInsights: companyInsights,
		Recommendations: recommendations,
		TotalPostings:   len(postings),
		Search:          outcome.Summary,
	})
}

// advance moves the task to running at the given step; false means the task can no longer progress
func (o *Orchestrator) advance(log types.Logger, id, step string, progress int) bool {
	task, err := o.store.Update(context.Background(), id, func(t *ResearchTask) error {
		t.Status = models.ResearchStatusRunning
		t.Progress = progress
		t.CurrentStep = step
		t.UpdatedAt = o.now()
		return nil
	})
	if err != nil {
		log.Error("Failed to update research task progress", map[string]interface{}{
			"step":  step,
			"error": err.Error(),
		})
		return false
	}
	o.completion.LogTaskProgress(task)
	return true
}

func (o *Orchestrator) complete(log types.Logger, id string, response *models.ResearchResponse) {
	task, err := o.store.Update(context.Background(), id, func(t *ResearchTask) error {
		now := o.now()
		response.CreatedAt = t.CreatedAt
		response.CompletedAt = now
		response.ProcessingTimeSeconds = now.Sub(t.CreatedAt).Seconds()

		t.Status = models.ResearchStatusCompleted
		t.Progress = 100
		t.CurrentStep = StepCompleted
		t.UpdatedAt = now
		t.CompletedAt = &now
		t.Response = response
		return nil
	})
	if err != nil {
		log.Error("Failed to complete research task", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	o.recordDuration(task.CompletedAt.Sub(task.CreatedAt))
	o.completion.LogTaskCompletion(task)
}

// fail moves the task to failed, discarding anything the pipeline produced so far
func (o *Orchestrator) fail(log types.Logger, id string, cause error) {
	task, err := o.store.Update(context.Background(), id, func(t *ResearchTask) error {
		now := o.now()
		t.Status = models.ResearchStatusFailed
		t.CurrentStep = StepFailed
		t.Error = cause.Error()
		t.UpdatedAt = now
		t.CompletedAt = &now
		t.Response = nil
		return nil
	})
	if err != nil {
		log.Error("Failed to mark research task as failed", map[string]interface{}{
			"cause": cause.Error(),
			"error": err.Error(),
		})
		return
	}

	o.completion.LogTaskCompletion(task)
}

func (o *Orchestrator) runCleanup() {
	removed, err := o.Cleanup(context.Background())
	if err != nil {
		o.logger.Error("Failed to cleanup old research tasks", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if removed > 0 {
		o.logger.Info("Evicted expired research tasks", map[string]interface{}{
			"removed":   removed,
			"retention": o.config.Research.Retention.String(),
		})
	}
}

// snapshot adds an estimated completion time to non-terminal tasks based on the running
// average duration of finished pipelines
func (o *Orchestrator) snapshot(task *ResearchTask) models.ResearchSnapshot {
	snap := task.Snapshot()
	if !task.Status.IsTerminal() {
		eta := task.CreatedAt.Add(o.expectedDuration())
		snap.EstimatedCompletion = &eta
	}
	return snap
}

func (o *Orchestrator) recordDuration(d time.Duration) {
	o.statsMu.Lock()
	defer o.statsMu.Unlock()

	o.finishedRuns++
	o.avgDuration += (d - o.avgDuration) / time.Duration(o.finishedRuns)
}

func (o *Orchestrator) expectedDuration() time.Duration {
	o.statsMu.Lock()
	defer o.statsMu.Unlock()

	if o.finishedRuns == 0 {
		return defaultEstimate
	}
	return o.avgDuration
}
