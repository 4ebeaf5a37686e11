package observability

import (
	"fmt"
	"time"
)

// Metrics holds aggregates derived from the engine event log.
type Metrics struct {
	StatusChanges    int            `json:"status_changes"`
	TasksCompleted   int            `json:"tasks_completed"`
	TasksMadeReady   int            `json:"tasks_made_ready"`
	ProblemsReported int            `json:"problems_reported"`
	ProblemsResolved int            `json:"problems_resolved"`
	DurationEdits    int            `json:"duration_edits"`
	ByStatus         map[string]int `json:"by_status"`
	EventCount       int            `json:"event_count"`
	OldestEvent      *time.Time     `json:"oldest_event,omitempty"`
	NewestEvent      *time.Time     `json:"newest_event,omitempty"`
}

// MetricsCalculator derives metrics from the event log.
type MetricsCalculator interface {
	Calculate(since time.Time) (*Metrics, error)
}

type metricsCalculator struct {
	eventLog EventLog
}

// NewMetricsCalculator creates a MetricsCalculator reading from eventLog.
func NewMetricsCalculator(eventLog EventLog) MetricsCalculator {
	return &metricsCalculator{eventLog: eventLog}
}

// Calculate reads all events since the given time and aggregates them.
func (mc *metricsCalculator) Calculate(since time.Time) (*Metrics, error) {
	events, err := mc.eventLog.Read(EventFilter{Since: &since})
	if err != nil {
		return nil, fmt.Errorf("reading events for metrics: %w", err)
	}

	m := &Metrics{ByStatus: make(map[string]int)}
	m.EventCount = len(events)

	for i, event := range events {
		if i == 0 {
			t := event.Time
			m.OldestEvent = &t
		}
		t := event.Time
		m.NewestEvent = &t

		switch event.Type {
		case "task.status_changed":
			m.StatusChanges++
			if status, ok := event.Data["new_status"].(string); ok {
				m.ByStatus[status]++
				if status == "done" {
					m.TasksCompleted++
				}
			}
		case "task.ready":
			m.TasksMadeReady++
		case "task.problem_reported":
			m.ProblemsReported++
		case "task.problem_resolved":
			m.ProblemsResolved++
		case "task.duration_changed":
			m.DurationEdits++
		}
	}
	return m, nil
}
