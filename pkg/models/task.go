package models

import "time"

// TaskStatus represents the current workflow state of a task.
type TaskStatus string

const (
	StatusNotStarted      TaskStatus = "not_started"
	StatusWaiting         TaskStatus = "waiting_on_prerequisite"
	StatusInProgress      TaskStatus = "in_progress"
	StatusPendingApproval TaskStatus = "pending_approval"
	StatusProblem         TaskStatus = "problem_reported"
	StatusDone            TaskStatus = "done"
)

// ValidStatuses is the canonical set of accepted task status strings.
var ValidStatuses = map[TaskStatus]bool{
	StatusNotStarted:      true,
	StatusWaiting:         true,
	StatusInProgress:      true,
	StatusPendingApproval: true,
	StatusProblem:         true,
	StatusDone:            true,
}

// Terminal reports whether the status is the terminal done state.
func (s TaskStatus) Terminal() bool { return s == StatusDone }

// Task represents one unit of work in the project. Identity, sequence, name,
// description, phase, responsible role, and prerequisites are fixed at load
// time; every other field is mutable only through the scheduling engine.
type Task struct {
	ID            string     `yaml:"id"`
	Sequence      int        `yaml:"sequence"`
	Name          string     `yaml:"name"`
	Description   string     `yaml:"description,omitempty"`
	Phase         string     `yaml:"phase,omitempty"`
	RoleID        string     `yaml:"role"`
	Prerequisites []string   `yaml:"prerequisites,omitempty"`
	DurationDays  *int       `yaml:"duration_days,omitempty"`
	Status        TaskStatus `yaml:"status"`

	// Computed schedule fields, recalculated by the engine. Nil means the
	// task cannot be scheduled yet.
	ComputedStart *time.Time `yaml:"computed_start,omitempty"`
	ComputedEnd   *time.Time `yaml:"computed_end,omitempty"`

	// Actual timestamps, set once when the task first enters in_progress
	// and done respectively.
	ActualStart *time.Time `yaml:"actual_start,omitempty"`
	ActualEnd   *time.Time `yaml:"actual_end,omitempty"`

	// LeaderApproved is true once the task has been approved as done or
	// administratively force-completed.
	LeaderApproved bool `yaml:"leader_approved"`

	// Problem holds the problem description while status is problem_reported.
	Problem string `yaml:"problem,omitempty"`

	// ReadyPulse is a one-shot hint that the task just became start-eligible
	// because a prerequisite completed. Cleared the first time it is consumed.
	ReadyPulse bool `yaml:"-"`
}

// EffectiveEnd returns the actual end date if set, otherwise the computed
// end date. Nil means no end date is resolvable yet.
func (t *Task) EffectiveEnd() *time.Time {
	if t.ActualEnd != nil {
		return t.ActualEnd
	}
	return t.ComputedEnd
}
