package research

import (
	"fmt"

	"job-research/pkg/models"
)

// validTransitions lists every allowed (from → to) pair. Completed and failed are terminal.
var validTransitions = map[models.ResearchStatus][]models.ResearchStatus{
	models.ResearchStatusStarted: {models.ResearchStatusRunning, models.ResearchStatusFailed},
	models.ResearchStatusRunning: {models.ResearchStatusCompleted, models.ResearchStatusFailed},
}

// IsTransitionAllowed returns true when moving from → to is permitted by the lifecycle
func IsTransitionAllowed(from, to models.ResearchStatus) bool {
	allowed, ok := validTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// checkSuccessor validates that next may replace current in the registry. Terminal tasks are
// frozen, status only moves along validTransitions and progress never decreases.
func checkSuccessor(current, next *ResearchTask) error {
	if current.Status.IsTerminal() {
		return fmt.Errorf("%w: task %s is already %s", ErrInvalidTransition, current.ID, current.Status)
	}
	if next.Status != current.Status && !IsTransitionAllowed(current.Status, next.Status) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, next.Status)
	}
	if next.Progress < current.Progress {
		return fmt.Errorf("%w: progress %d -> %d", ErrInvalidTransition, current.Progress, next.Progress)
	}
	switch next.Status {
	case models.ResearchStatusCompleted:
		if next.Response == nil {
			return fmt.Errorf("%w: completed task %s has no response", ErrInvalidTransition, current.ID)
		}
	case models.ResearchStatusFailed:
		if next.Response != nil {
			return fmt.Errorf("%w: failed task %s carries a response", ErrInvalidTransition, current.ID)
		}
	}
	return nil
}
