package core

import (
	"fmt"
	"strings"

	"github.com/valter-silva-au/planboard/pkg/models"
	"github.com/spf13/viper"
)

// ConfigurationManager loads and validates the .planboard.yaml settings.
type ConfigurationManager interface {
	LoadGlobalConfig() (*models.GlobalConfig, error)
	ValidateConfig(cfg *models.GlobalConfig) error
}

// viperConfigManager implements ConfigurationManager using Viper.
type viperConfigManager struct {
	basePath string
}

// NewConfigurationManager creates a ConfigurationManager that reads
// .planboard.yaml from basePath.
func NewConfigurationManager(basePath string) ConfigurationManager {
	return &viperConfigManager{basePath: basePath}
}

// DefaultGlobalConfig returns a GlobalConfig populated with defaults.
func DefaultGlobalConfig() *models.GlobalConfig {
	return &models.GlobalConfig{
		ProjectFile:  "project.yaml",
		UsersFile:    "users.yaml",
		LeaderRoleID: "ROLE-PL",
		EventLogPath: ".planboard_events.jsonl",
	}
}

// LoadGlobalConfig reads .planboard.yaml from the base path. If the file
// does not exist, defaults are returned.
func (cm *viperConfigManager) LoadGlobalConfig() (*models.GlobalConfig, error) {
	cfg := DefaultGlobalConfig()

	v := viper.New()
	v.SetConfigName(".planboard")
	v.SetConfigType("yaml")
	v.AddConfigPath(cm.basePath)

	v.SetDefault("files.project", cfg.ProjectFile)
	v.SetDefault("files.users", cfg.UsersFile)
	v.SetDefault("roles.leader", cfg.LeaderRoleID)
	v.SetDefault("event_log", cfg.EventLogPath)
	v.SetDefault("notifications.enabled", false)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading .planboard.yaml: %w", err)
	}

	cfg.ProjectFile = v.GetString("files.project")
	cfg.UsersFile = v.GetString("files.users")
	cfg.LeaderRoleID = v.GetString("roles.leader")
	cfg.EventLogPath = v.GetString("event_log")
	cfg.Notifications.Enabled = v.GetBool("notifications.enabled")
	cfg.Notifications.Slack.WebhookURL = v.GetString("notifications.slack.webhook_url")

	return cfg, nil
}

// ValidateConfig checks the configuration for invalid values and returns an
// error listing every problem found.
func (cm *viperConfigManager) ValidateConfig(cfg *models.GlobalConfig) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	var errs []string
	if cfg.ProjectFile == "" {
		errs = append(errs, "files.project must not be empty")
	}
	if cfg.UsersFile == "" {
		errs = append(errs, "files.users must not be empty")
	}
	if cfg.LeaderRoleID == "" {
		errs = append(errs, "roles.leader must not be empty")
	}
	if cfg.Notifications.Enabled && cfg.Notifications.Slack.WebhookURL == "" {
		errs = append(errs, "notifications.slack.webhook_url must be set when notifications are enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
