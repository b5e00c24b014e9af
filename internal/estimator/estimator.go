// Package estimator maps a metrics snapshot and live browsing stats to an
// energy and CO2 estimate with a fixed weighted linear model. The weights
// are illustrative, not calibrated.
package estimator

import (
	"ecotrack/internal/models"
	"math"
)

const (
	EnergyPerTab          = 0.5  // kWh per open tab
	EnergyPerIdleMinute   = 0.02 // kWh per idle minute
	EnergyPerActiveMinute = 0.05 // kWh per active minute
	EnergyPerEmail        = 0.1  // kWh per stored email
	CO2PerKWh             = 0.5
)

type Weights struct {
	Tab          float64
	IdleMinute   float64
	ActiveMinute float64
	Email        float64
	CO2PerKWh    float64
}

func DefaultWeights() Weights {
	return Weights{
		Tab:          EnergyPerTab,
		IdleMinute:   EnergyPerIdleMinute,
		ActiveMinute: EnergyPerActiveMinute,
		Email:        EnergyPerEmail,
		CO2PerKWh:    CO2PerKWh,
	}
}

// Estimate is pure: streak and total saved pass through from the record.
func (w Weights) Estimate(m models.UserMetrics, s models.LiveStats) models.EnergyEstimate {
	energy := float64(s.OpenTabs)*w.Tab +
		s.IdleMinutes*w.IdleMinute +
		s.ActiveMinutes*w.ActiveMinute +
		float64(s.EmailsInInbox)*w.Email

	return models.EnergyEstimate{
		EnergyUsage:   energy,
		CO2Equivalent: energy * w.CO2PerKWh,
		Streak:        m.Streak,
		TotalSaved:    m.TotalSavedCO2,
	}
}

func Estimate(m models.UserMetrics, s models.LiveStats) models.EnergyEstimate {
	return DefaultWeights().Estimate(m, s)
}

// StatsFrom builds live stats from the record. openTabs < 0 means the host
// could not report a count and the last snapshot is used instead.
func StatsFrom(m models.UserMetrics, openTabs, emails int) models.LiveStats {
	if openTabs < 0 {
		openTabs = m.CurrentOpenTabs
	}
	return models.LiveStats{
		OpenTabs:      openTabs,
		IdleMinutes:   m.IdleTime,
		ActiveMinutes: m.ActiveTime,
		EmailsInInbox: max(emails, 0),
	}
}

// AfterAction is the view shown right after an eco-action: the live CO2
// figure drops by co2Saved, never below zero, and the total grows by it.
func AfterAction(e models.EnergyEstimate, co2Saved float64) models.EnergyEstimate {
	e.CO2Equivalent = math.Max(0, e.CO2Equivalent-co2Saved)
	e.TotalSaved += co2Saved
	return e
}
