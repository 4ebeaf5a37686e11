// Package core contains the scheduling engine for Planboard: the task store,
// dependency resolution, the status state machine, the cascading date
// recalculator, and the actionable-item query.
package core

import (
	"errors"
	"fmt"

	"github.com/valter-silva-au/planboard/pkg/models"
)

// ErrTaskNotFound is returned when a mutation references an unknown task ID.
var ErrTaskNotFound = errors.New("task not found")

// ErrInvalidDuration is returned when a duration edit supplies a negative
// number of days. The original value is preserved.
var ErrInvalidDuration = errors.New("duration must be a non-negative number of days")

// ErrWorkdayGuard is returned when the work-day iteration guard trips. This
// signals corrupted input that escaped validation, not a schedulable state.
var ErrWorkdayGuard = errors.New("work-day iteration guard tripped")

// TransitionError reports a status change request that is not legal for the
// task's current state.
type TransitionError struct {
	TaskID string
	From   models.TaskStatus
	To     models.TaskStatus
}

func (e *TransitionError) Error() string {
	if e.From == e.To {
		return fmt.Sprintf("task %s is already %s", e.TaskID, e.From)
	}
	return fmt.Sprintf("task %s cannot go from %s to %s", e.TaskID, e.From, e.To)
}
