package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/valter-silva-au/planboard/pkg/models"
)

// defaultProblemText is stored when a problem is reported with no description.
const defaultProblemText = "Problem reported"

// Event types emitted by the engine.
const (
	EventStatusChanged   = "task.status_changed"
	EventTaskReady       = "task.ready"
	EventDurationChanged = "task.duration_changed"
	EventProblemReported = "task.problem_reported"
	EventProblemResolved = "task.problem_resolved"
	EventForceCompleted  = "task.force_completed"
)

// EventLogger receives engine events. It may be nil-valued behind the
// interface only via a nil Engine field; callers pass nil to disable.
type EventLogger interface {
	LogEvent(eventType string, data map[string]any) error
}

// Engine is the scheduling engine. It owns all task mutation: the status
// state machine, duration edits, and the cascading date recalculation that
// follows every change. Operations run synchronously; when a mutation
// returns, the store reflects the full cascade.
type Engine struct {
	store        *TaskStore
	resolver     *DependencyResolver
	leaderRoleID string
	events       EventLogger
	now          func() time.Time
}

// NewEngine wires an engine to the given store, validates that the
// prerequisite graph is a DAG, derives each task's initial status, and
// computes initial dates in dependency order. events may be nil.
func NewEngine(store *TaskStore, leaderRoleID string, events EventLogger) (*Engine, error) {
	e := &Engine{
		store:        store,
		resolver:     NewDependencyResolver(store),
		leaderRoleID: leaderRoleID,
		events:       events,
		now:          time.Now,
	}

	ordered, err := TopoSort(store.All())
	if err != nil {
		return nil, fmt.Errorf("initializing engine: %w", err)
	}

	// Walking in dependency order means every schedulable task has its
	// dates available immediately after load.
	for _, t := range ordered {
		if e.resolver.PrerequisitesMet(t) {
			t.Status = models.StatusNotStarted
		} else {
			t.Status = models.StatusWaiting
		}
		if err := e.recalcDates(t); err != nil {
			return nil, fmt.Errorf("initializing engine: %w", err)
		}
	}
	return e, nil
}

// Store returns the task store for read access.
func (e *Engine) Store() *TaskStore { return e.store }

// Resolver returns the dependency resolver for read access.
func (e *Engine) Resolver() *DependencyResolver { return e.resolver }

// ChangeStatus applies one of the user-facing workflow transitions:
// starting work, sending to approval, approving (approved=true), or
// rejecting back to in-progress. Illegal transitions return a
// TransitionError; re-asserting done is permitted and runs the completion
// side effects again (idempotent re-approval).
func (e *Engine) ChangeStatus(taskID string, target models.TaskStatus, approved bool) error {
	t, ok := e.store.Get(taskID)
	if !ok {
		return fmt.Errorf("changing status of %s: %w", taskID, ErrTaskNotFound)
	}

	legal := false
	switch target {
	case models.StatusInProgress:
		switch t.Status {
		case models.StatusNotStarted, models.StatusWaiting:
			// Starting work requires every prerequisite to be done, so a
			// task never runs ahead of its dependencies.
			if !e.resolver.PrerequisitesMet(t) {
				return fmt.Errorf("changing status of %s: prerequisites not met", taskID)
			}
			legal = true
		case models.StatusPendingApproval:
			legal = true // rejection
		}
	case models.StatusPendingApproval:
		legal = t.Status == models.StatusInProgress
	case models.StatusDone:
		legal = t.Status == models.StatusPendingApproval || t.Status == models.StatusDone
	}
	if !legal {
		return &TransitionError{TaskID: taskID, From: t.Status, To: target}
	}

	return e.applyStatus(t, target, approved)
}

// SetDuration replaces the task's estimated duration, or clears it when
// days is nil, then recalculates dates starting at the task. Negative
// values are rejected and the stored value is preserved.
func (e *Engine) SetDuration(taskID string, days *int) error {
	t, ok := e.store.Get(taskID)
	if !ok {
		return fmt.Errorf("setting duration of %s: %w", taskID, ErrTaskNotFound)
	}
	if days != nil && *days < 0 {
		return fmt.Errorf("setting duration of %s to %d: %w", taskID, *days, ErrInvalidDuration)
	}
	if equalIntPtr(t.DurationDays, days) {
		return nil
	}

	old := t.DurationDays
	t.DurationDays = days
	e.logEvent(EventDurationChanged, map[string]any{
		"task_id": t.ID,
		"old":     intPtrLabel(old),
		"new":     intPtrLabel(days),
	})
	return e.recalcTask(t)
}

// ReportProblem moves any non-done task to problem_reported and stores the
// description. An empty description is replaced with a placeholder so the
// problem text is never blank while the status is active. Reporting on a
// task already in problem_reported amends the stored description in place.
func (e *Engine) ReportProblem(taskID, description string) error {
	t, ok := e.store.Get(taskID)
	if !ok {
		return fmt.Errorf("reporting problem on %s: %w", taskID, ErrTaskNotFound)
	}
	if t.Status == models.StatusDone {
		return &TransitionError{TaskID: taskID, From: t.Status, To: models.StatusProblem}
	}

	description = strings.TrimSpace(description)
	if description == "" {
		description = defaultProblemText
	}
	t.Problem = description
	e.logEvent(EventProblemReported, map[string]any{"task_id": t.ID, "problem": description})
	if t.Status == models.StatusProblem {
		return nil
	}
	return e.applyStatus(t, models.StatusProblem, false)
}

// ResolveProblem clears a reported problem and returns the task to the
// state its history implies: in_progress if work had already started, else
// not_started or waiting_on_prerequisite depending on its prerequisites.
func (e *Engine) ResolveProblem(taskID string) error {
	t, ok := e.store.Get(taskID)
	if !ok {
		return fmt.Errorf("resolving problem on %s: %w", taskID, ErrTaskNotFound)
	}
	if t.Status != models.StatusProblem {
		return fmt.Errorf("resolving problem on %s: task is %s, not %s", taskID, t.Status, models.StatusProblem)
	}

	next := models.StatusInProgress
	if t.ActualStart == nil {
		if e.resolver.PrerequisitesMet(t) {
			next = models.StatusNotStarted
		} else {
			next = models.StatusWaiting
		}
	}
	t.Problem = ""
	e.logEvent(EventProblemResolved, map[string]any{"task_id": t.ID, "new_status": string(next)})
	return e.applyStatus(t, next, false)
}

// ForceComplete is the administrative leader-only override: it marks any
// non-done task as done and approved in one step, filling in the actual
// timestamps. Role enforcement is the caller's responsibility.
func (e *Engine) ForceComplete(taskID string) error {
	t, ok := e.store.Get(taskID)
	if !ok {
		return fmt.Errorf("force-completing %s: %w", taskID, ErrTaskNotFound)
	}
	if t.Status == models.StatusDone {
		return &TransitionError{TaskID: taskID, From: t.Status, To: models.StatusDone}
	}

	if t.ActualStart == nil {
		now := e.now()
		t.ActualStart = &now
	}
	e.logEvent(EventForceCompleted, map[string]any{"task_id": t.ID})
	return e.applyStatus(t, models.StatusDone, true)
}

// applyStatus performs a legality-checked transition's side effects: field
// updates per the target state, the successor eligibility sweep on
// completion, and the date recalculation cascade. Same-status requests are
// rejected except for done, which re-runs completion side effects.
func (e *Engine) applyStatus(t *models.Task, target models.TaskStatus, approved bool) error {
	old := t.Status
	if old == target && target != models.StatusDone {
		return &TransitionError{TaskID: t.ID, From: old, To: target}
	}

	t.Status = target
	t.ReadyPulse = false

	switch target {
	case models.StatusInProgress:
		if t.ActualStart == nil {
			now := e.now()
			t.ActualStart = &now
		}
		t.LeaderApproved = false
		t.Problem = ""
	case models.StatusPendingApproval:
		t.LeaderApproved = false
		t.Problem = ""
	case models.StatusDone:
		if t.ActualEnd == nil {
			now := e.now()
			t.ActualEnd = &now
		}
		t.LeaderApproved = approved || t.LeaderApproved
		t.Problem = ""
	}

	if old != target {
		e.logEvent(EventStatusChanged, map[string]any{
			"task_id":    t.ID,
			"old_status": string(old),
			"new_status": string(target),
		})
	}

	if target == models.StatusDone {
		if err := e.triggerSuccessorUpdate(t.ID); err != nil {
			return err
		}
	}

	// Recompute this task's dates, then keep downstream dates live even
	// when the transition itself changed nothing scheduling-relevant.
	if err := e.recalcTask(t); err != nil {
		return err
	}
	return e.recalcSuccessors(t)
}

// triggerSuccessorUpdate re-derives eligibility for every direct successor
// of a just-completed task. A successor whose prerequisites are now all met
// becomes not_started; the ready pulse is set only if it had actually been
// waiting. Successors still blocked stay waiting with the pulse cleared.
func (e *Engine) triggerSuccessorUpdate(doneTaskID string) error {
	for _, succ := range e.store.Successors(doneTaskID) {
		if succ.Status != models.StatusNotStarted && succ.Status != models.StatusWaiting {
			continue
		}
		wasWaiting := succ.Status == models.StatusWaiting
		if e.resolver.PrerequisitesMet(succ) {
			succ.Status = models.StatusNotStarted
			succ.ReadyPulse = wasWaiting
			succ.ComputedStart = e.resolver.EarliestStart(succ)
			e.logEvent(EventTaskReady, map[string]any{"task_id": succ.ID, "name": succ.Name})
			if err := e.recalcTask(succ); err != nil {
				return err
			}
		} else {
			succ.Status = models.StatusWaiting
			succ.ReadyPulse = false
		}
	}
	return nil
}

// recalcTask recomputes the task's dates and, if anything changed,
// recursively recalculates every direct successor. Recursion depth is
// bounded by the longest prerequisite chain; the DAG is validated at load.
func (e *Engine) recalcTask(t *models.Task) error {
	changed, err := e.recalcDatesChanged(t)
	if err != nil {
		return err
	}
	if changed {
		return e.recalcSuccessors(t)
	}
	return nil
}

func (e *Engine) recalcSuccessors(t *models.Task) error {
	for _, succ := range e.store.Successors(t.ID) {
		if err := e.recalcTask(succ); err != nil {
			return err
		}
	}
	return nil
}

// recalcDates recomputes the task's computed start and end in place.
func (e *Engine) recalcDates(t *models.Task) error {
	_, err := e.recalcDatesChanged(t)
	return err
}

func (e *Engine) recalcDatesChanged(t *models.Task) (bool, error) {
	changed := false

	newStart := e.resolver.EarliestStart(t)
	if !equalTimePtr(t.ComputedStart, newStart) {
		t.ComputedStart = newStart
		changed = true
	}

	var newEnd *time.Time
	if t.ComputedStart != nil && t.DurationDays != nil {
		end, err := computeEndDate(*t.ComputedStart, *t.DurationDays)
		if err != nil {
			return changed, fmt.Errorf("recalculating %s: %w", t.ID, err)
		}
		newEnd = &end
	}
	if !equalTimePtr(t.ComputedEnd, newEnd) {
		t.ComputedEnd = newEnd
		changed = true
	}
	return changed, nil
}

// computeEndDate derives a task's end date from its start and duration. A
// task occupies its start day, so an n-day task starting Monday ends on the
// (n-1)th work day after it; zero duration collapses to the start day.
func computeEndDate(start time.Time, days int) (time.Time, error) {
	if days <= 0 {
		return atMidnight(start), nil
	}
	return AddWorkDays(start, days-1)
}

func (e *Engine) logEvent(eventType string, data map[string]any) {
	if e.events == nil {
		return
	}
	_ = e.events.LogEvent(eventType, data) // best effort
}

func equalTimePtr(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func equalIntPtr(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func intPtrLabel(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}
