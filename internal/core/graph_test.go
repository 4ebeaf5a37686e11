package core

import (
	"strings"
	"testing"

	"github.com/valter-silva-au/planboard/pkg/models"
)

func TestTopoSortOrdersPrerequisitesFirst(t *testing.T) {
	tasks := []*models.Task{
		testTask(3, "TASK-003", "TASK-002"),
		testTask(1, "TASK-001"),
		testTask(2, "TASK-002", "TASK-001"),
	}

	ordered, err := TopoSort(tasks)
	if err != nil {
		t.Fatalf("TopoSort failed: %v", err)
	}

	pos := make(map[string]int, len(ordered))
	for i, task := range ordered {
		pos[task.ID] = i
	}
	for _, task := range tasks {
		for _, pre := range task.Prerequisites {
			if pos[pre] > pos[task.ID] {
				t.Errorf("prerequisite %s ordered after %s", pre, task.ID)
			}
		}
	}
}

func TestTopoSortIndependentTasksKeepSequenceOrder(t *testing.T) {
	ordered, err := TopoSort([]*models.Task{
		testTask(2, "TASK-002"),
		testTask(1, "TASK-001"),
		testTask(3, "TASK-003"),
	})
	if err != nil {
		t.Fatalf("TopoSort failed: %v", err)
	}
	for i, want := range []string{"TASK-001", "TASK-002", "TASK-003"} {
		if ordered[i].ID != want {
			t.Errorf("position %d: expected %s, got %s", i, want, ordered[i].ID)
		}
	}
}

func TestTopoSortRejectsCycle(t *testing.T) {
	_, err := TopoSort([]*models.Task{
		testTask(1, "TASK-001", "TASK-003"),
		testTask(2, "TASK-002", "TASK-001"),
		testTask(3, "TASK-003", "TASK-002"),
	})
	if err == nil {
		t.Fatal("expected cycle error")
	}
	for _, id := range []string{"TASK-001", "TASK-002", "TASK-003"} {
		if !strings.Contains(err.Error(), id) {
			t.Errorf("cycle error does not name %s: %v", id, err)
		}
	}
}

func TestTopoSortRejectsSelfReference(t *testing.T) {
	_, err := TopoSort([]*models.Task{testTask(1, "TASK-001", "TASK-001")})
	if err == nil || !strings.Contains(err.Error(), "references itself") {
		t.Errorf("expected self-reference error, got %v", err)
	}
}

func TestTopoSortToleratesDanglingReference(t *testing.T) {
	// Unknown prerequisites block scheduling in the resolver; they are not a
	// graph shape problem.
	ordered, err := TopoSort([]*models.Task{
		testTask(1, "TASK-001", "TASK-999"),
		testTask(2, "TASK-002", "TASK-001"),
	})
	if err != nil {
		t.Fatalf("TopoSort failed: %v", err)
	}
	if len(ordered) != 2 {
		t.Errorf("expected 2 ordered tasks, got %d", len(ordered))
	}
}
