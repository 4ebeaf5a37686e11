// Package mcp provides an MCP (Model Context Protocol) server that exposes
// the Planboard scheduling engine as tools for AI coding assistants.
package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/valter-silva-au/planboard/internal/core"
	"github.com/valter-silva-au/planboard/internal/observability"
	"github.com/valter-silva-au/planboard/pkg/models"
	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the engine and exposes it as MCP tools.
type Server struct {
	server      *gomcp.Server
	engine      *core.Engine
	metricsCalc observability.MetricsCalculator
}

// NewServer creates an MCP server over the given engine. metricsCalc may be
// nil if observability is disabled.
func NewServer(engine *core.Engine, metricsCalc observability.MetricsCalculator, version string) *Server {
	if version == "" {
		version = "dev"
	}

	s := &Server{
		engine:      engine,
		metricsCalc: metricsCalc,
	}

	s.server = gomcp.NewServer(
		&gomcp.Implementation{Name: "planboard", Version: version},
		nil,
	)

	s.registerTools()

	return s
}

// Run starts the MCP server on stdio, blocking until the client disconnects
// or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &gomcp.StdioTransport{})
}

// MCPServer returns the underlying mcp.Server for testing purposes.
func (s *Server) MCPServer() *gomcp.Server {
	return s.server
}

// --- Tool input/output types ---

type getTaskInput struct {
	TaskID string `json:"task_id" jsonschema:"required,the unique task identifier (e.g. TASK-004)"`
}

type taskOutput struct {
	ID            string   `json:"id"`
	Sequence      int      `json:"sequence"`
	Name          string   `json:"name"`
	Phase         string   `json:"phase,omitempty"`
	Role          string   `json:"role"`
	Status        string   `json:"status"`
	Prerequisites []string `json:"prerequisites,omitempty"`
	DurationDays  *int     `json:"duration_days,omitempty"`
	ComputedStart string   `json:"computed_start,omitempty"`
	ComputedEnd   string   `json:"computed_end,omitempty"`
	ActualStart   string   `json:"actual_start,omitempty"`
	ActualEnd     string   `json:"actual_end,omitempty"`
	Approved      bool     `json:"approved"`
	Problem       string   `json:"problem,omitempty"`
}

type listTasksInput struct {
	Status string `json:"status,omitempty" jsonschema:"filter tasks by status (not_started, waiting_on_prerequisite, in_progress, pending_approval, problem_reported, done)"`
	Phase  string `json:"phase,omitempty" jsonschema:"filter tasks by phase label"`
}

type listTasksOutput struct {
	Tasks []taskOutput `json:"tasks"`
	Count int          `json:"count"`
}

type changeStatusInput struct {
	TaskID   string `json:"task_id" jsonschema:"required,the unique task identifier"`
	Status   string `json:"status" jsonschema:"required,the target status (in_progress, pending_approval, done)"`
	Approved bool   `json:"approved,omitempty" jsonschema:"set true when a leader approves completion"`
}

type messageOutput struct {
	Message string `json:"message"`
}

type setDurationInput struct {
	TaskID string `json:"task_id" jsonschema:"required,the unique task identifier"`
	Days   *int   `json:"days" jsonschema:"estimated duration in work days; omit or null to clear the estimate"`
}

type pendingActionsInput struct {
	Roles []string `json:"roles" jsonschema:"required,role IDs held by the acting user"`
}

type pendingActionOutput struct {
	Type   string `json:"type"`
	TaskID string `json:"task_id"`
	Name   string `json:"name"`
}

type pendingActionsOutput struct {
	Actions []pendingActionOutput `json:"actions"`
	Count   int                   `json:"count"`
}

type getMetricsInput struct {
	Since string `json:"since,omitempty" jsonschema:"time window for metrics (e.g. 7d, 24h). Defaults to 7d."`
}

type metricsOutput struct {
	StatusChanges    int            `json:"status_changes"`
	TasksCompleted   int            `json:"tasks_completed"`
	TasksMadeReady   int            `json:"tasks_made_ready"`
	ProblemsReported int            `json:"problems_reported"`
	ProblemsResolved int            `json:"problems_resolved"`
	DurationEdits    int            `json:"duration_edits"`
	ByStatus         map[string]int `json:"by_status"`
	EventCount       int            `json:"event_count"`
}

// --- Tool registration ---

func (s *Server) registerTools() {
	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_task",
		Description: "Get task details by ID, including schedule dates, status, and prerequisites.",
	}, s.handleGetTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "list_tasks",
		Description: "List tasks with optional status and phase filters. Returns task summaries in sequence order.",
	}, s.handleListTasks)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "change_status",
		Description: "Apply a workflow transition: start work (in_progress), submit for approval (pending_approval), approve or reject. Illegal transitions are rejected.",
	}, s.handleChangeStatus)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "set_duration",
		Description: "Set or clear a task's estimated duration in work days. Downstream dates are recalculated.",
	}, s.handleSetDuration)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "pending_actions",
		Description: "List the prioritized pending actions for an actor holding the given roles (problems first, then approvals, then ready-to-start tasks).",
	}, s.handlePendingActions)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_metrics",
		Description: "Get aggregated metrics from the event log: status changes, completions, problems, and duration edits.",
	}, s.handleGetMetrics)
}

// --- Tool handlers ---

func (s *Server) handleGetTask(_ context.Context, _ *gomcp.CallToolRequest, input getTaskInput) (*gomcp.CallToolResult, taskOutput, error) {
	if input.TaskID == "" {
		return errorResult("task_id is required"), taskOutput{}, nil
	}

	task, ok := s.engine.Store().Get(input.TaskID)
	if !ok {
		return errorResult(fmt.Sprintf("task %s not found", input.TaskID)), taskOutput{}, nil
	}

	return nil, taskToOutput(task), nil
}

func (s *Server) handleListTasks(_ context.Context, _ *gomcp.CallToolRequest, input listTasksInput) (*gomcp.CallToolResult, listTasksOutput, error) {
	if input.Status != "" && !models.ValidStatuses[models.TaskStatus(input.Status)] {
		return errorResult(fmt.Sprintf("invalid status %q", input.Status)), listTasksOutput{}, nil
	}

	var out listTasksOutput
	for _, t := range s.engine.Store().All() {
		if input.Status != "" && t.Status != models.TaskStatus(input.Status) {
			continue
		}
		if input.Phase != "" && t.Phase != input.Phase {
			continue
		}
		out.Tasks = append(out.Tasks, taskToOutput(t))
	}
	out.Count = len(out.Tasks)
	return nil, out, nil
}

func (s *Server) handleChangeStatus(_ context.Context, _ *gomcp.CallToolRequest, input changeStatusInput) (*gomcp.CallToolResult, messageOutput, error) {
	if input.TaskID == "" {
		return errorResult("task_id is required"), messageOutput{}, nil
	}
	if input.Status == "" {
		return errorResult("status is required"), messageOutput{}, nil
	}
	if !models.ValidStatuses[models.TaskStatus(input.Status)] {
		return errorResult(fmt.Sprintf("invalid status %q", input.Status)), messageOutput{}, nil
	}

	if err := s.engine.ChangeStatus(input.TaskID, models.TaskStatus(input.Status), input.Approved); err != nil {
		return errorResult(fmt.Sprintf("changing status: %s", err)), messageOutput{}, nil
	}

	return nil, messageOutput{
		Message: fmt.Sprintf("task %s status changed to %s", input.TaskID, input.Status),
	}, nil
}

func (s *Server) handleSetDuration(_ context.Context, _ *gomcp.CallToolRequest, input setDurationInput) (*gomcp.CallToolResult, messageOutput, error) {
	if input.TaskID == "" {
		return errorResult("task_id is required"), messageOutput{}, nil
	}

	if err := s.engine.SetDuration(input.TaskID, input.Days); err != nil {
		return errorResult(fmt.Sprintf("setting duration: %s", err)), messageOutput{}, nil
	}

	label := "cleared"
	if input.Days != nil {
		label = fmt.Sprintf("set to %d work days", *input.Days)
	}
	return nil, messageOutput{
		Message: fmt.Sprintf("task %s duration %s", input.TaskID, label),
	}, nil
}

func (s *Server) handlePendingActions(_ context.Context, _ *gomcp.CallToolRequest, input pendingActionsInput) (*gomcp.CallToolResult, pendingActionsOutput, error) {
	if len(input.Roles) == 0 {
		return errorResult("roles is required"), pendingActionsOutput{}, nil
	}

	actions := s.engine.PendingActions(input.Roles)
	out := pendingActionsOutput{
		Actions: make([]pendingActionOutput, len(actions)),
		Count:   len(actions),
	}
	for i, a := range actions {
		out.Actions[i] = pendingActionOutput{
			Type:   string(a.Type),
			TaskID: a.Task.ID,
			Name:   a.Task.Name,
		}
	}
	return nil, out, nil
}

func (s *Server) handleGetMetrics(_ context.Context, _ *gomcp.CallToolRequest, input getMetricsInput) (*gomcp.CallToolResult, metricsOutput, error) {
	if s.metricsCalc == nil {
		return errorResult("metrics calculator not available (observability may be disabled)"), metricsOutput{ByStatus: make(map[string]int)}, nil
	}

	sinceStr := input.Since
	if sinceStr == "" {
		sinceStr = "7d"
	}
	sinceTime, err := parseSince(sinceStr)
	if err != nil {
		return errorResult(fmt.Sprintf("parsing since duration: %s", err)), metricsOutput{ByStatus: make(map[string]int)}, nil
	}

	metrics, err := s.metricsCalc.Calculate(sinceTime)
	if err != nil {
		return errorResult(fmt.Sprintf("calculating metrics: %s", err)), metricsOutput{ByStatus: make(map[string]int)}, nil
	}

	return nil, metricsOutput{
		StatusChanges:    metrics.StatusChanges,
		TasksCompleted:   metrics.TasksCompleted,
		TasksMadeReady:   metrics.TasksMadeReady,
		ProblemsReported: metrics.ProblemsReported,
		ProblemsResolved: metrics.ProblemsResolved,
		DurationEdits:    metrics.DurationEdits,
		ByStatus:         metrics.ByStatus,
		EventCount:       metrics.EventCount,
	}, nil
}

// --- Helpers ---

// errorResult builds an error tool result with a plain-text message.
func errorResult(msg string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: msg}},
		IsError: true,
	}
}

func taskToOutput(t *models.Task) taskOutput {
	out := taskOutput{
		ID:            t.ID,
		Sequence:      t.Sequence,
		Name:          t.Name,
		Phase:         t.Phase,
		Role:          t.RoleID,
		Status:        string(t.Status),
		Prerequisites: t.Prerequisites,
		DurationDays:  t.DurationDays,
		Approved:      t.LeaderApproved,
		Problem:       t.Problem,
	}
	if t.ComputedStart != nil {
		out.ComputedStart = t.ComputedStart.Format("2006-01-02")
	}
	if t.ComputedEnd != nil {
		out.ComputedEnd = t.ComputedEnd.Format("2006-01-02")
	}
	if t.ActualStart != nil {
		out.ActualStart = t.ActualStart.Format(time.RFC3339)
	}
	if t.ActualEnd != nil {
		out.ActualEnd = t.ActualEnd.Format(time.RFC3339)
	}
	return out
}

// parseSince converts a shorthand window like "7d" or "24h" into a time.
func parseSince(s string) (time.Time, error) {
	now := time.Now().UTC()
	if len(s) > 1 && s[len(s)-1] == 'd' {
		var days int
		if _, err := fmt.Sscanf(s, "%dd", &days); err != nil {
			return time.Time{}, fmt.Errorf("invalid window %q", s)
		}
		return now.AddDate(0, 0, -days), nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid window %q", s)
	}
	return now.Add(-d), nil
}
