package core

import (
	"fmt"
	"sort"

	"github.com/valter-silva-au/planboard/pkg/models"
)

// TaskStore owns the project's task list and all mutable schedule and status
// fields. External collaborators read through the store; all mutation goes
// through the Engine.
type TaskStore struct {
	project models.Project
	tasks   []*models.Task
	byID    map[string]*models.Task
}

// NewTaskStore builds a store from the loaded project and its tasks. Tasks
// are kept in sequence order. Duplicate IDs or sequence numbers are rejected.
func NewTaskStore(project models.Project, tasks []*models.Task) (*TaskStore, error) {
	s := &TaskStore{
		project: project,
		tasks:   make([]*models.Task, len(tasks)),
		byID:    make(map[string]*models.Task, len(tasks)),
	}
	copy(s.tasks, tasks)
	sort.SliceStable(s.tasks, func(i, j int) bool {
		return s.tasks[i].Sequence < s.tasks[j].Sequence
	})

	seenSeq := make(map[int]string, len(tasks))
	for _, t := range s.tasks {
		if _, exists := s.byID[t.ID]; exists {
			return nil, fmt.Errorf("building task store: duplicate task id %s", t.ID)
		}
		if prev, exists := seenSeq[t.Sequence]; exists {
			return nil, fmt.Errorf("building task store: tasks %s and %s share sequence %d", prev, t.ID, t.Sequence)
		}
		s.byID[t.ID] = t
		seenSeq[t.Sequence] = t.ID
	}
	return s, nil
}

// Project returns the project metadata.
func (s *TaskStore) Project() models.Project { return s.project }

// Get returns the task with the given ID, or false if it does not exist.
func (s *TaskStore) Get(id string) (*models.Task, bool) {
	t, ok := s.byID[id]
	return t, ok
}

// All returns the tasks in sequence order. The slice is a copy; the tasks
// themselves are shared and must not be written by callers.
func (s *TaskStore) All() []*models.Task {
	out := make([]*models.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Successors returns the tasks whose prerequisite set contains taskID, in
// sequence order.
func (s *TaskStore) Successors(taskID string) []*models.Task {
	var out []*models.Task
	for _, t := range s.tasks {
		for _, pre := range t.Prerequisites {
			if pre == taskID {
				out = append(out, t)
				break
			}
		}
	}
	return out
}

// Phases returns the distinct phase labels in first-appearance order.
func (s *TaskStore) Phases() []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range s.tasks {
		if t.Phase != "" && !seen[t.Phase] {
			seen[t.Phase] = true
			out = append(out, t.Phase)
		}
	}
	return out
}

// ConsumeReadyPulse reports whether the task's ready pulse was set and
// clears it. The pulse is a one-shot display hint.
func (s *TaskStore) ConsumeReadyPulse(taskID string) bool {
	t, ok := s.byID[taskID]
	if !ok || !t.ReadyPulse {
		return false
	}
	t.ReadyPulse = false
	return true
}
