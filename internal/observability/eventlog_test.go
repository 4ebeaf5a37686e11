package observability

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestLog(t *testing.T) (EventLog, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.jsonl")
	log, err := NewJSONLEventLog(path)
	if err != nil {
		t.Fatalf("NewJSONLEventLog failed: %v", err)
	}
	t.Cleanup(func() { _ = log.Close() })
	return log, path
}

func writeTestEvent(t *testing.T, log EventLog, at time.Time, eventType string) {
	t.Helper()
	err := log.Write(Event{
		Time: at,
		Type: eventType,
		Data: map[string]any{"task_id": "TASK-001"},
	})
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
}

func TestEventLogWriteAndRead(t *testing.T) {
	log, _ := newTestLog(t)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	writeTestEvent(t, log, now, "task.status_changed")
	writeTestEvent(t, log, now.Add(time.Minute), "task.ready")

	events, err := log.Read(EventFilter{})
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Type != "task.status_changed" || events[1].Type != "task.ready" {
		t.Errorf("events out of order: %s, %s", events[0].Type, events[1].Type)
	}
	if events[0].Data["task_id"] != "TASK-001" {
		t.Errorf("event data lost: %+v", events[0].Data)
	}
}

func TestEventLogFilters(t *testing.T) {
	log, _ := newTestLog(t)
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	writeTestEvent(t, log, base, "task.status_changed")
	writeTestEvent(t, log, base.AddDate(0, 0, 1), "task.problem_reported")
	writeTestEvent(t, log, base.AddDate(0, 0, 2), "task.status_changed")

	since := base.Add(12 * time.Hour)
	events, err := log.Read(EventFilter{Since: &since})
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(events) != 2 {
		t.Errorf("since filter: expected 2 events, got %d", len(events))
	}

	events, err = log.Read(EventFilter{Type: "task.status_changed"})
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(events) != 2 {
		t.Errorf("type filter: expected 2 events, got %d", len(events))
	}

	until := base.Add(12 * time.Hour)
	events, err = log.Read(EventFilter{Until: &until})
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(events) != 1 || events[0].Type != "task.status_changed" {
		t.Errorf("until filter: unexpected result %+v", events)
	}
}

func TestEventLogSkipsMalformedLines(t *testing.T) {
	log, path := newTestLog(t)
	writeTestEvent(t, log, time.Now().UTC(), "task.ready")

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("opening log for corruption: %v", err)
	}
	if _, err := f.WriteString("not json\n"); err != nil {
		t.Fatalf("writing garbage: %v", err)
	}
	_ = f.Close()

	events, err := log.Read(EventFilter{})
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(events) != 1 {
		t.Errorf("expected malformed line to be skipped, got %d events", len(events))
	}
}

func TestEventLogPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	log, err := NewJSONLEventLog(path)
	if err != nil {
		t.Fatalf("NewJSONLEventLog failed: %v", err)
	}
	writeTestEvent(t, log, time.Now().UTC(), "task.ready")
	if err := log.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := NewJSONLEventLog(path)
	if err != nil {
		t.Fatalf("reopening failed: %v", err)
	}
	defer reopened.Close()
	writeTestEvent(t, reopened, time.Now().UTC(), "task.status_changed")

	events, err := reopened.Read(EventFilter{})
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(events) != 2 {
		t.Errorf("expected events to accumulate across reopen, got %d", len(events))
	}
}
