package observability

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSlackNotifierPostsProblem(t *testing.T) {
	var received slackMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected JSON content type, got %s", ct)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &received); err != nil {
			t.Errorf("invalid payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := NewSlackNotifier(server.URL)
	if err := n.NotifyProblem("TASK-003", "Sign lease", "landlord unreachable"); err != nil {
		t.Fatalf("NotifyProblem failed: %v", err)
	}

	if len(received.Blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(received.Blocks))
	}
	section := received.Blocks[1]
	if section.Text == nil || !strings.Contains(section.Text.Text, "TASK-003") ||
		!strings.Contains(section.Text.Text, "landlord unreachable") {
		t.Errorf("problem details missing from message: %+v", section.Text)
	}
}

func TestSlackNotifierReportsHTTPFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	n := NewSlackNotifier(server.URL)
	err := n.NotifyProblem("TASK-001", "Task", "problem")
	if err == nil || !strings.Contains(err.Error(), "403") {
		t.Errorf("expected status error, got %v", err)
	}
}

func TestSlackNotifierUnreachableWebhook(t *testing.T) {
	n := NewSlackNotifier("http://127.0.0.1:1/webhook")
	if err := n.NotifyProblem("TASK-001", "Task", "problem"); err == nil {
		t.Error("expected connection error")
	}
}
