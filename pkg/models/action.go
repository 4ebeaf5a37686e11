package models

// ActionType identifies the kind of action a task is waiting on.
type ActionType string

const (
	ActionResolveProblem ActionType = "resolve_problem"
	ActionApproveTask    ActionType = "approve_task"
	ActionStartTask      ActionType = "start_task"
)

// PendingAction is one entry in an actor's prioritized action list.
type PendingAction struct {
	Type ActionType
	Task *Task
}
