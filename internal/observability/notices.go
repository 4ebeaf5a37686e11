package observability

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/valter-silva-au/planboard/pkg/models"
)

// NotificationCenter keeps the in-process notification feed shown on the
// dashboard. Entries are held in memory only; the event log is the durable
// record.
type NotificationCenter struct {
	now     func() time.Time
	entries []models.Notification
}

// NewNotificationCenter creates an empty notification center.
func NewNotificationCenter() *NotificationCenter {
	return &NotificationCenter{now: time.Now}
}

// Add records a notification and returns its generated ID. userID and
// taskID may be empty for system notifications.
func (c *NotificationCenter) Add(body, userID, taskID string) string {
	n := models.Notification{
		ID:     uuid.NewString(),
		Time:   c.now().UTC(),
		Body:   body,
		UserID: userID,
		TaskID: taskID,
	}
	c.entries = append(c.entries, n)
	return n.ID
}

// Latest returns up to limit notifications, newest first. A non-positive
// limit returns all of them.
func (c *NotificationCenter) Latest(limit int) []models.Notification {
	out := make([]models.Notification, len(c.entries))
	copy(out, c.entries)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time.After(out[j].Time) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Len returns the number of recorded notifications.
func (c *NotificationCenter) Len() int { return len(c.entries) }
