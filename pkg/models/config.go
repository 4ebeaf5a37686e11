package models

// GlobalConfig holds the settings read from .planboard.yaml.
type GlobalConfig struct {
	ProjectFile   string
	UsersFile     string
	LeaderRoleID  string
	EventLogPath  string
	Notifications NotificationConfig
}

// NotificationConfig controls optional external notification delivery.
type NotificationConfig struct {
	Enabled bool
	Slack   SlackConfig
}

// SlackConfig holds Slack webhook settings for problem alerts.
type SlackConfig struct {
	WebhookURL string
}
