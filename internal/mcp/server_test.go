package mcp

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/valter-silva-au/planboard/internal/core"
	"github.com/valter-silva-au/planboard/internal/observability"
	"github.com/valter-silva-au/planboard/pkg/models"
	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// --- Fakes and helpers ---

type fakeMetricsCalculator struct {
	metrics *observability.Metrics
}

func (f *fakeMetricsCalculator) Calculate(_ time.Time) (*observability.Metrics, error) {
	return f.metrics, nil
}

func testEngine(t *testing.T) *core.Engine {
	t.Helper()
	three := 3
	two := 2
	tasks := []*models.Task{
		{
			ID: "TASK-001", Sequence: 1, Name: "Gather requirements",
			Phase: "Discovery", RoleID: "ROLE-PM", DurationDays: &three,
		},
		{
			ID: "TASK-002", Sequence: 2, Name: "Build prototype",
			Phase: "Build", RoleID: "ROLE-DEV", DurationDays: &two,
			Prerequisites: []string{"TASK-001"},
		},
	}
	store, err := core.NewTaskStore(models.Project{
		ID:    "PROJ-001",
		Name:  "Website relaunch",
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}, tasks)
	if err != nil {
		t.Fatalf("NewTaskStore failed: %v", err)
	}
	engine, err := core.NewEngine(store, "ROLE-PL", nil)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	return engine
}

// callTool connects an in-memory client to the server and calls a tool.
func callTool(t *testing.T, srv *Server, toolName string, args map[string]any) *gomcp.CallToolResult {
	t.Helper()

	ctx := context.Background()
	client := gomcp.NewClient(&gomcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)

	t1, t2 := gomcp.NewInMemoryTransports()

	go func() {
		_ = srv.MCPServer().Run(ctx, t1)
	}()

	session, err := client.Connect(ctx, t2, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	defer session.Close()

	result, err := session.CallTool(ctx, &gomcp.CallToolParams{
		Name:      toolName,
		Arguments: args,
	})
	if err != nil {
		t.Fatalf("call tool %s: %v", toolName, err)
	}
	return result
}

func extractText(result *gomcp.CallToolResult) string {
	for _, c := range result.Content {
		if tc, ok := c.(*gomcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func decodeOutput(t *testing.T, result *gomcp.CallToolResult, out any) {
	t.Helper()
	if result.StructuredContent != nil {
		data, _ := json.Marshal(result.StructuredContent)
		if err := json.Unmarshal(data, out); err != nil {
			t.Fatalf("unmarshalling structured content: %v", err)
		}
		return
	}
	if err := json.Unmarshal([]byte(extractText(result)), out); err != nil {
		t.Fatalf("unmarshalling tool output: %v (text was: %s)", err, extractText(result))
	}
}

// --- Tests ---

func TestGetTask(t *testing.T) {
	srv := NewServer(testEngine(t), nil, "test")

	result := callTool(t, srv, "get_task", map[string]any{"task_id": "TASK-001"})
	if result.IsError {
		t.Fatalf("expected success, got error: %v", extractText(result))
	}

	var out taskOutput
	decodeOutput(t, result, &out)
	if out.ID != "TASK-001" || out.Name != "Gather requirements" {
		t.Errorf("unexpected task: %+v", out)
	}
	if out.Status != "not_started" {
		t.Errorf("expected status not_started, got %s", out.Status)
	}
	if out.ComputedStart != "2024-01-01" || out.ComputedEnd != "2024-01-03" {
		t.Errorf("unexpected schedule: %s .. %s", out.ComputedStart, out.ComputedEnd)
	}
}

func TestGetTaskNotFound(t *testing.T) {
	srv := NewServer(testEngine(t), nil, "test")

	result := callTool(t, srv, "get_task", map[string]any{"task_id": "TASK-999"})
	if !result.IsError {
		t.Fatal("expected error result for unknown task")
	}
}

func TestListTasksWithFilters(t *testing.T) {
	srv := NewServer(testEngine(t), nil, "test")

	result := callTool(t, srv, "list_tasks", map[string]any{})
	var out listTasksOutput
	decodeOutput(t, result, &out)
	if out.Count != 2 {
		t.Fatalf("expected 2 tasks, got %d", out.Count)
	}

	result = callTool(t, srv, "list_tasks", map[string]any{"status": "waiting_on_prerequisite"})
	decodeOutput(t, result, &out)
	if out.Count != 1 || out.Tasks[0].ID != "TASK-002" {
		t.Errorf("status filter wrong: %+v", out)
	}

	result = callTool(t, srv, "list_tasks", map[string]any{"phase": "Discovery"})
	decodeOutput(t, result, &out)
	if out.Count != 1 || out.Tasks[0].ID != "TASK-001" {
		t.Errorf("phase filter wrong: %+v", out)
	}

	result = callTool(t, srv, "list_tasks", map[string]any{"status": "bogus"})
	if !result.IsError {
		t.Error("expected error for invalid status filter")
	}
}

func TestChangeStatus(t *testing.T) {
	engine := testEngine(t)
	srv := NewServer(engine, nil, "test")

	result := callTool(t, srv, "change_status", map[string]any{
		"task_id": "TASK-001",
		"status":  "in_progress",
	})
	if result.IsError {
		t.Fatalf("expected success, got: %s", extractText(result))
	}

	task, _ := engine.Store().Get("TASK-001")
	if task.Status != models.StatusInProgress {
		t.Errorf("engine state not updated: %s", task.Status)
	}
}

func TestChangeStatusIllegalTransition(t *testing.T) {
	srv := NewServer(testEngine(t), nil, "test")

	// TASK-002 is blocked behind TASK-001.
	result := callTool(t, srv, "change_status", map[string]any{
		"task_id": "TASK-002",
		"status":  "in_progress",
	})
	if !result.IsError {
		t.Fatal("expected error for blocked task")
	}
}

func TestSetDuration(t *testing.T) {
	engine := testEngine(t)
	srv := NewServer(engine, nil, "test")

	result := callTool(t, srv, "set_duration", map[string]any{
		"task_id": "TASK-001",
		"days":    5,
	})
	if result.IsError {
		t.Fatalf("expected success, got: %s", extractText(result))
	}

	task, _ := engine.Store().Get("TASK-001")
	if task.DurationDays == nil || *task.DurationDays != 5 {
		t.Errorf("duration not applied: %v", task.DurationDays)
	}
	// The dependent task's dates follow.
	dep, _ := engine.Store().Get("TASK-002")
	if dep.ComputedStart == nil || dep.ComputedStart.Format("2006-01-02") != "2024-01-06" {
		t.Errorf("cascade missing: %v", dep.ComputedStart)
	}

	result = callTool(t, srv, "set_duration", map[string]any{
		"task_id": "TASK-001",
		"days":    -1,
	})
	if !result.IsError {
		t.Error("expected error for negative duration")
	}
}

func TestPendingActions(t *testing.T) {
	srv := NewServer(testEngine(t), nil, "test")

	result := callTool(t, srv, "pending_actions", map[string]any{
		"roles": []string{"ROLE-PM"},
	})
	var out pendingActionsOutput
	decodeOutput(t, result, &out)
	if out.Count != 1 || out.Actions[0].TaskID != "TASK-001" || out.Actions[0].Type != "start_task" {
		t.Errorf("unexpected actions: %+v", out)
	}
}

func TestGetMetrics(t *testing.T) {
	calc := &fakeMetricsCalculator{metrics: &observability.Metrics{
		StatusChanges:  4,
		TasksCompleted: 2,
		EventCount:     9,
		ByStatus:       map[string]int{"done": 2},
	}}
	srv := NewServer(testEngine(t), calc, "test")

	result := callTool(t, srv, "get_metrics", map[string]any{"since": "7d"})
	var out metricsOutput
	decodeOutput(t, result, &out)
	if out.StatusChanges != 4 || out.TasksCompleted != 2 || out.EventCount != 9 {
		t.Errorf("unexpected metrics: %+v", out)
	}
}

func TestGetMetricsWithoutCalculator(t *testing.T) {
	srv := NewServer(testEngine(t), nil, "test")

	result := callTool(t, srv, "get_metrics", map[string]any{})
	if !result.IsError {
		t.Error("expected error when observability is disabled")
	}
}
