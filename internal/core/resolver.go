package core

import (
	"time"

	"github.com/valter-silva-au/planboard/pkg/models"
)

// DependencyResolver answers prerequisite questions against the task store.
// Both methods are pure reads: they never mutate store state.
type DependencyResolver struct {
	store *TaskStore
}

// NewDependencyResolver creates a resolver backed by the given store.
func NewDependencyResolver(store *TaskStore) *DependencyResolver {
	return &DependencyResolver{store: store}
}

// PrerequisitesMet reports whether every prerequisite of the task is done.
// A prerequisite that cannot be resolved counts as not done (fails closed).
func (r *DependencyResolver) PrerequisitesMet(t *models.Task) bool {
	for _, id := range t.Prerequisites {
		pre, ok := r.store.Get(id)
		if !ok || pre.Status != models.StatusDone {
			return false
		}
	}
	return true
}

// EarliestStart computes the earliest feasible start date for the task.
//
// With no prerequisites the task can start at the project start date. With
// prerequisites, each one must have an effective end date (actual end if
// set, otherwise computed end); if any is missing the task cannot be
// scheduled yet and nil is returned. Note this checks date availability
// only, independent of whether the prerequisite is formally done. The
// result is the latest effective end plus one calendar day, normalized to
// midnight and clamped to no earlier than the project start.
func (r *DependencyResolver) EarliestStart(t *models.Task) *time.Time {
	projectStart := atMidnight(r.store.Project().Start)
	if len(t.Prerequisites) == 0 {
		return &projectStart
	}

	var latest *time.Time
	for _, id := range t.Prerequisites {
		pre, ok := r.store.Get(id)
		if !ok {
			return nil
		}
		end := pre.EffectiveEnd()
		if end == nil {
			return nil
		}
		if latest == nil || end.After(*latest) {
			latest = end
		}
	}

	start := atMidnight(latest.AddDate(0, 0, 1))
	if start.Before(projectStart) {
		start = projectStart
	}
	return &start
}
