package core

import (
	"math"
	"time"

	"github.com/valter-silva-au/planboard/pkg/models"
)

// Progress returns the share of done tasks as a rounded percentage.
func (e *Engine) Progress() int {
	tasks := e.store.All()
	if len(tasks) == 0 {
		return 0
	}
	done := 0
	for _, t := range tasks {
		if t.Status == models.StatusDone {
			done++
		}
	}
	return int(math.Round(float64(done) / float64(len(tasks)) * 100))
}

// ETA returns the latest computed end date across all tasks, or nil when no
// task has one yet.
func (e *Engine) ETA() *time.Time {
	var latest *time.Time
	for _, t := range e.store.All() {
		if t.ComputedEnd == nil {
			continue
		}
		if latest == nil || t.ComputedEnd.After(*latest) {
			latest = t.ComputedEnd
		}
	}
	return latest
}
