package streak

import (
	"ecotrack/internal/models"
	"math"
	"time"
)

type Outcome int

const (
	Unchanged Outcome = iota
	Continued
	Reset
)

func (o Outcome) String() string {
	switch o {
	case Continued:
		return "continued"
	case Reset:
		return "reset"
	default:
		return "unchanged"
	}
}

// Refresh advances the streak for today. A repeated day changes nothing,
// the day after LastActiveDate extends the streak, anything else (a gap,
// a clock that moved backwards, an unreadable LastActiveDate) restarts it
// at 1.
func Refresh(m *models.UserMetrics, today string) Outcome {
	if m.LastActiveDate == today {
		return Unchanged
	}

	outcome := Reset
	if next, ok := NextDay(m.LastActiveDate); ok && next == today && m.Streak >= 1 {
		m.Streak++
		outcome = Continued
	} else {
		m.Streak = 1
	}
	m.LastActiveDate = today
	return outcome
}

// CreditSaving adds amount to the lifetime total and to the bucket of day.
// Negative or non-finite amounts credit nothing.
func CreditSaving(m *models.UserMetrics, amount float64, day string) {
	if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return
	}
	if m.DailySavings == nil {
		m.DailySavings = make(map[string]float64)
	}
	m.TotalSavedCO2 += amount
	m.DailySavings[day] += amount
}

// Weekly projects DailySavings onto the last seven calendar days, oldest
// first; days without a bucket read as 0. It does not mutate m.
func Weekly(m models.UserMetrics, now time.Time, loc *time.Location) models.WeeklySummary {
	days := lastDays(now, loc, HistoryDays)
	summary := models.WeeklySummary{
		Dates:   make([]string, 0, len(days)),
		Days:    make([]string, 0, len(days)),
		Savings: make([]float64, 0, len(days)),
	}
	for _, d := range days {
		key := d.Format(models.DateLayout)
		summary.Dates = append(summary.Dates, d.Format("Mon"))
		summary.Days = append(summary.Days, key)
		summary.Savings = append(summary.Savings, m.DailySavings[key])
	}
	return summary
}
