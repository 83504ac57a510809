package research

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"job-research/pkg/models"
)

// ResearchTask is the registry record of one research request
type ResearchTask struct {
	ID          string
	Query       models.ResearchQuery
	Status      models.ResearchStatus
	Progress    int
	CurrentStep string
	Error       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time
	Response    *models.ResearchResponse
}

// Clone returns a deep enough copy that callers cannot mutate registry state
func (t *ResearchTask) Clone() *ResearchTask {
	c := *t
	c.Query.Skills = append([]string(nil), t.Query.Skills...)
	if t.CompletedAt != nil {
		completed := *t.CompletedAt
		c.CompletedAt = &completed
	}
	if t.Response != nil {
		resp := *t.Response
		c.Response = &resp
	}
	return &c
}

// Snapshot projects the task onto its public status view
func (t *ResearchTask) Snapshot() models.ResearchSnapshot {
	snap := models.ResearchSnapshot{
		ResearchID:  t.ID,
		JobTitle:    t.Query.JobTitle,
		Location:    t.Query.Location,
		Status:      t.Status,
		Progress:    t.Progress,
		CurrentStep: t.CurrentStep,
		Error:       t.Error,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if t.CompletedAt != nil {
		completed := *t.CompletedAt
		snap.CompletedAt = &completed
	}
	return snap
}

// TaskStore defines the interface for storing and retrieving research tasks
type TaskStore interface {
	// Create registers a new task; the id must be unused
	Create(ctx context.Context, task *ResearchTask) error

	// Get returns a copy of the task
	Get(ctx context.Context, id string) (*ResearchTask, error)

	// Update applies fn to a copy of the task and commits it if the result is a legal
	// successor of the stored state. fn's error aborts the update.
	Update(ctx context.Context, id string, fn func(*ResearchTask) error) (*ResearchTask, error)

	// List returns copies of all tasks ordered by creation time
	List(ctx context.Context) ([]*ResearchTask, error)

	// Cleanup removes terminal tasks that reached their terminal state before cutoff
	Cleanup(ctx context.Context, cutoff time.Time) (int, error)
}

// InMemoryTaskStore implements TaskStore using in-memory storage
type InMemoryTaskStore struct {
	mu    sync.RWMutex
	tasks map[string]*ResearchTask
}

// NewInMemoryTaskStore creates a new in-memory task store
func NewInMemoryTaskStore() *InMemoryTaskStore {
	return &InMemoryTaskStore{
		tasks: make(map[string]*ResearchTask),
	}
}

// Create registers a new task
func (s *InMemoryTaskStore) Create(ctx context.Context, task *ResearchTask) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[task.ID]; exists {
		return fmt.Errorf("research task %s already exists", task.ID)
	}

	s.tasks[task.ID] = task.Clone()
	return nil
}

// Get retrieves a task by id
func (s *InMemoryTaskStore) Get(ctx context.Context, id string) (*ResearchTask, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, exists := s.tasks[id]
	if !exists {
		return nil, ErrTaskNotFound
	}

	return task.Clone(), nil
}

// Update applies fn under the store lock, rejecting regressions of the lifecycle
func (s *InMemoryTaskStore) Update(ctx context.Context, id string, fn func(*ResearchTask) error) (*ResearchTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.tasks[id]
	if !exists {
		return nil, ErrTaskNotFound
	}

	next := current.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	if err := checkSuccessor(current, next); err != nil {
		return nil, err
	}

	s.tasks[id] = next
	return next.Clone(), nil
}

// List returns all tasks ordered by creation time
func (s *InMemoryTaskStore) List(ctx context.Context) ([]*ResearchTask, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := make([]*ResearchTask, 0, len(s.tasks))
	for _, task := range s.tasks {
		tasks = append(tasks, task.Clone())
	}

	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].ID < tasks[j].ID
		}
		return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
	})

	return tasks, nil
}

// Cleanup removes expired terminal tasks; running tasks are never evicted
func (s *InMemoryTaskStore) Cleanup(ctx context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, task := range s.tasks {
		if !task.Status.IsTerminal() || task.CompletedAt == nil {
			continue
		}
		if task.CompletedAt.Before(cutoff) {
			delete(s.tasks, id)
			removed++
		}
	}

	return removed, nil
}
