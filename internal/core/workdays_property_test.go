package core

import (
	"testing"
	"time"

	"pgregory.net/rapid"
)

// Property: adding a positive number of work days never lands on a weekend.
func TestProperty_AddWorkDaysNeverWeekend(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		offset := rapid.IntRange(0, 2000).Draw(rt, "offset")
		days := rapid.IntRange(1, 200).Draw(rt, "days")
		start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)

		got, err := AddWorkDays(start, days)
		if err != nil {
			rt.Fatalf("AddWorkDays(%s, %d) failed: %v", start.Format(time.DateOnly), days, err)
		}
		if wd := got.Weekday(); wd == time.Saturday || wd == time.Sunday {
			rt.Fatalf("AddWorkDays(%s, %d) = %s, a %s", start.Format(time.DateOnly), days, got.Format(time.DateOnly), wd)
		}
	})
}

// Property: the result is strictly monotonic in the day count.
func TestProperty_AddWorkDaysMonotonic(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		offset := rapid.IntRange(0, 2000).Draw(rt, "offset")
		days := rapid.IntRange(1, 200).Draw(rt, "days")
		start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)

		shorter, err := AddWorkDays(start, days-1)
		if err != nil {
			rt.Fatalf("AddWorkDays failed: %v", err)
		}
		longer, err := AddWorkDays(start, days)
		if err != nil {
			rt.Fatalf("AddWorkDays failed: %v", err)
		}
		if !longer.After(shorter) {
			rt.Fatalf("%d days gave %s, not after %d days giving %s",
				days, longer.Format(time.DateOnly), days-1, shorter.Format(time.DateOnly))
		}
	})
}

// Property: work-day addition composes, a+b days equals a days then b days.
func TestProperty_AddWorkDaysComposes(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		offset := rapid.IntRange(0, 2000).Draw(rt, "offset")
		a := rapid.IntRange(0, 100).Draw(rt, "a")
		b := rapid.IntRange(1, 100).Draw(rt, "b")
		start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)

		direct, err := AddWorkDays(start, a+b)
		if err != nil {
			rt.Fatalf("AddWorkDays failed: %v", err)
		}
		mid, err := AddWorkDays(start, a)
		if err != nil {
			rt.Fatalf("AddWorkDays failed: %v", err)
		}
		staged, err := AddWorkDays(mid, b)
		if err != nil {
			rt.Fatalf("AddWorkDays failed: %v", err)
		}
		if !direct.Equal(staged) {
			rt.Fatalf("AddWorkDays(%s, %d) = %s but staging via %d gave %s",
				start.Format(time.DateOnly), a+b, direct.Format(time.DateOnly), a, staged.Format(time.DateOnly))
		}
	})
}
