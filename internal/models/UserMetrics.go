package models

// DateLayout is the calendar-day key format used by LastActiveDate and
// DailySavings.
const DateLayout = "2006-01-02"

// UserMetrics is the singleton persisted record. The json names are the
// persisted schema and must not change.
type UserMetrics struct {
	TotalTabsOpened int                `json:"totalTabsOpened"`
	TotalTabsClosed int                `json:"totalTabsClosed"`
	IdleTime        float64            `json:"idleTime"`
	ActiveTime      float64            `json:"activeTime"`
	LastActiveDate  string             `json:"lastActiveDate"`
	Streak          int                `json:"streak"`
	TotalSavedCO2   float64            `json:"totalSavedCO2"`
	DailySavings    map[string]float64 `json:"dailySavings"`
	CurrentOpenTabs int                `json:"currentOpenTabs"`
	// TabsObservedAt is the unix-millisecond time of the last host tab
	// count; zero until the host has reported one.
	TabsObservedAt int64 `json:"tabsObservedAt,omitempty"`
}

func DefaultUserMetrics(today string) UserMetrics {
	return UserMetrics{
		LastActiveDate: today,
		Streak:         1,
		DailySavings:   make(map[string]float64),
	}
}

// Clone returns a deep copy; DailySavings is never shared between copies.
func (m UserMetrics) Clone() UserMetrics {
	out := m
	out.DailySavings = make(map[string]float64, len(m.DailySavings))
	for k, v := range m.DailySavings {
		out.DailySavings[k] = v
	}
	return out
}
