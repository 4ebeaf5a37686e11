// Package internal provides the App struct that wires all components of
// planboard together and initializes the CLI layer.
package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/valter-silva-au/planboard/internal/cli"
	"github.com/valter-silva-au/planboard/internal/core"
	"github.com/valter-silva-au/planboard/internal/observability"
	"github.com/valter-silva-au/planboard/internal/storage"
)

// App holds all service dependencies for planboard.
type App struct {
	BasePath string

	// Configuration
	ConfigMgr core.ConfigurationManager

	// Core services
	Store     *core.TaskStore
	Engine    *core.Engine
	Directory *core.Directory

	// Observability
	EventLog    observability.EventLog
	Notices     *observability.NotificationCenter
	MetricsCalc observability.MetricsCalculator
	Notifier    observability.Notifier
}

// NewApp creates and wires all components of planboard. basePath is the
// directory holding the project and user files (typically the directory
// containing .planboard.yaml).
func NewApp(basePath string) (*App, error) {
	app := &App{BasePath: basePath}

	// --- Configuration ---
	app.ConfigMgr = core.NewConfigurationManager(basePath)
	globalCfg, err := app.ConfigMgr.LoadGlobalConfig()
	if err != nil {
		return nil, err
	}
	if err := app.ConfigMgr.ValidateConfig(globalCfg); err != nil {
		return nil, err
	}

	// --- Storage layer ---
	project, tasks, err := storage.LoadProject(filepath.Join(basePath, globalCfg.ProjectFile))
	if err != nil {
		return nil, fmt.Errorf("loading project: %w", err)
	}
	users, roles, err := storage.LoadUsers(filepath.Join(basePath, globalCfg.UsersFile))
	if err != nil {
		return nil, fmt.Errorf("loading users: %w", err)
	}

	app.Store, err = core.NewTaskStore(project, tasks)
	if err != nil {
		return nil, fmt.Errorf("building task store: %w", err)
	}

	// --- Observability ---
	app.Notices = observability.NewNotificationCenter()
	if globalCfg.EventLogPath != "" {
		eventLogPath := filepath.Join(basePath, globalCfg.EventLogPath)
		app.EventLog, err = observability.NewJSONLEventLog(eventLogPath)
		if err != nil {
			// Non-fatal: disable the event log if the file can't be created.
			app.EventLog = nil
		}
	}
	if app.EventLog != nil {
		app.MetricsCalc = observability.NewMetricsCalculator(app.EventLog)
	}
	if globalCfg.Notifications.Enabled && globalCfg.Notifications.Slack.WebhookURL != "" {
		app.Notifier = observability.NewSlackNotifier(globalCfg.Notifications.Slack.WebhookURL)
	}

	// --- Core services ---
	evtAdapter := &engineEventAdapter{log: app.EventLog, notices: app.Notices}
	app.Engine, err = core.NewEngine(app.Store, globalCfg.LeaderRoleID, evtAdapter)
	if err != nil {
		return nil, fmt.Errorf("building engine: %w", err)
	}
	app.Directory = core.NewDirectory(users, roles, globalCfg.LeaderRoleID)

	// --- Wire CLI package-level variables ---
	cli.BasePath = basePath
	cli.Engine = app.Engine
	cli.Directory = app.Directory
	cli.Notices = app.Notices
	cli.EventLog = app.EventLog
	cli.MetricsCalc = app.MetricsCalc
	cli.Notifier = app.Notifier

	return app, nil
}

// Close releases resources held by the App, such as the event log file handle.
// It is safe to call Close on an App whose EventLog is nil.
func (a *App) Close() error {
	if a.EventLog != nil {
		return a.EventLog.Close()
	}
	return nil
}

// ResolveBasePath determines the directory holding the planboard data files.
// It checks the PLANBOARD_HOME env var, then walks up from the current
// directory looking for .planboard.yaml, falling back to the cwd.
func ResolveBasePath() string {
	if home := os.Getenv("PLANBOARD_HOME"); home != "" {
		return home
	}
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, ".planboard.yaml")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	cwd, _ := os.Getwd()
	return cwd
}

// engineEventAdapter bridges engine events to the event log and the
// notification feed. Actor-attributed notifications are added at the CLI
// boundary; the adapter only feeds the one event no command announces, a
// task becoming ready as a cascade side effect. A nil event log is
// tolerated so the feed keeps working when observability is disabled.
type engineEventAdapter struct {
	log     observability.EventLog
	notices *observability.NotificationCenter
}

func (a *engineEventAdapter) LogEvent(eventType string, data map[string]any) error {
	if a.notices != nil && eventType == core.EventTaskReady {
		name, _ := data["name"].(string)
		taskID, _ := data["task_id"].(string)
		if name == "" {
			name = taskID
		}
		a.notices.Add(fmt.Sprintf("Task %q is ready to start", name), "", taskID)
	}
	if a.log == nil {
		return nil
	}
	return a.log.Write(observability.Event{
		Time: time.Now().UTC(),
		Type: eventType,
		Data: data,
	})
}
