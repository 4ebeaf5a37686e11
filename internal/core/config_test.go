package core

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/valter-silva-au/planboard/pkg/models"
)

func TestLoadGlobalConfigDefaultsWhenMissing(t *testing.T) {
	dir := t.TempDir()
	cm := NewConfigurationManager(dir)

	cfg, err := cm.LoadGlobalConfig()
	if err != nil {
		t.Fatalf("LoadGlobalConfig failed: %v", err)
	}
	if cfg.ProjectFile != "project.yaml" {
		t.Errorf("expected default project file, got %q", cfg.ProjectFile)
	}
	if cfg.UsersFile != "users.yaml" {
		t.Errorf("expected default users file, got %q", cfg.UsersFile)
	}
	if cfg.LeaderRoleID != "ROLE-PL" {
		t.Errorf("expected default leader role, got %q", cfg.LeaderRoleID)
	}
	if cfg.Notifications.Enabled {
		t.Error("notifications must default to disabled")
	}
}

func TestLoadGlobalConfigReadsFile(t *testing.T) {
	dir := t.TempDir()
	content := `files:
  project: plan.json
  users: team.yaml
roles:
  leader: ROLE-BOSS
event_log: events.jsonl
notifications:
  enabled: true
  slack:
    webhook_url: https://hooks.slack.com/services/T000/B000/XXX
`
	if err := os.WriteFile(filepath.Join(dir, ".planboard.yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("writing config failed: %v", err)
	}

	cfg, err := NewConfigurationManager(dir).LoadGlobalConfig()
	if err != nil {
		t.Fatalf("LoadGlobalConfig failed: %v", err)
	}
	if cfg.ProjectFile != "plan.json" {
		t.Errorf("expected plan.json, got %q", cfg.ProjectFile)
	}
	if cfg.UsersFile != "team.yaml" {
		t.Errorf("expected team.yaml, got %q", cfg.UsersFile)
	}
	if cfg.LeaderRoleID != "ROLE-BOSS" {
		t.Errorf("expected ROLE-BOSS, got %q", cfg.LeaderRoleID)
	}
	if !cfg.Notifications.Enabled || cfg.Notifications.Slack.WebhookURL == "" {
		t.Errorf("notification settings not read: %+v", cfg.Notifications)
	}
}

func TestValidateConfigAccumulatesErrors(t *testing.T) {
	cm := NewConfigurationManager(t.TempDir())

	err := cm.ValidateConfig(&models.GlobalConfig{
		Notifications: models.NotificationConfig{Enabled: true},
	})
	if err == nil {
		t.Fatal("expected validation to fail")
	}
	for _, want := range []string{"files.project", "files.users", "roles.leader", "webhook_url"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected error to mention %s: %v", want, err)
		}
	}
}

func TestValidateConfigAcceptsDefaults(t *testing.T) {
	cm := NewConfigurationManager(t.TempDir())
	if err := cm.ValidateConfig(DefaultGlobalConfig()); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}
