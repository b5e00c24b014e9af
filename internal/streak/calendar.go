// Package streak holds the calendar-day arithmetic behind the streak
// counter and the per-day savings buckets.
package streak

import (
	"ecotrack/internal/models"
	"time"
)

// HistoryDays is the length of the weekly projection.
const HistoryDays = 7

// DayKey returns the calendar date of t in loc.
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(models.DateLayout)
}

// NextDay returns the key of the calendar day after day.
func NextDay(day string) (string, bool) {
	d, err := time.Parse(models.DateLayout, day)
	if err != nil {
		return "", false
	}
	return d.AddDate(0, 0, 1).Format(models.DateLayout), true
}

// lastDays returns noon of each of the n calendar days ending today, oldest
// first. Noon keeps DST shifts from skipping or repeating a date.
func lastDays(now time.Time, loc *time.Location, n int) []time.Time {
	local := now.In(loc)
	y, m, d := local.Date()
	days := make([]time.Time, 0, n)
	for i := n - 1; i >= 0; i-- {
		days = append(days, time.Date(y, m, d-i, 12, 0, 0, 0, loc))
	}
	return days
}
