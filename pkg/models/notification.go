package models

import "time"

// Notification is a single entry in the in-process notification feed.
type Notification struct {
	ID     string    `json:"id"`
	Time   time.Time `json:"time"`
	Body   string    `json:"body"`
	UserID string    `json:"user_id,omitempty"`
	TaskID string    `json:"task_id,omitempty"`
}
