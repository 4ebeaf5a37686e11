package core

import (
	"fmt"
	"time"
)

// atMidnight normalizes a time to midnight UTC of the same calendar day.
func atMidnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// AddWorkDays advances start one calendar day at a time, counting a day only
// if it is not a Saturday or Sunday, until days work days have been added.
// The result is normalized to midnight UTC. A negative day count is an input
// error. The iteration guard exists to stop runaway loops on corrupted input
// and surfaces as ErrWorkdayGuard when tripped.
func AddWorkDays(start time.Time, days int) (time.Time, error) {
	if days < 0 {
		return time.Time{}, fmt.Errorf("adding %d work days: %w", days, ErrInvalidDuration)
	}

	d := atMidnight(start)
	added := 0
	limit := days*5 + 100
	for steps := 0; added < days; steps++ {
		if steps >= limit {
			return time.Time{}, fmt.Errorf("adding %d work days from %s: %w", days, start.Format("2006-01-02"), ErrWorkdayGuard)
		}
		d = d.AddDate(0, 0, 1)
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			added++
		}
	}
	return d, nil
}
