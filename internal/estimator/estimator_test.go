package estimator

import (
	"ecotrack/internal/models"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleStats() models.LiveStats {
	return models.LiveStats{OpenTabs: 10, IdleMinutes: 30, ActiveMinutes: 60, EmailsInInbox: 20}
}

func TestEstimate_WeightedSum(t *testing.T) {
	m := models.DefaultUserMetrics("2024-01-01")
	m.Streak = 3
	m.TotalSavedCO2 = 7.5

	e := Estimate(m, sampleStats())

	// 10*0.5 + 30*0.02 + 60*0.05 + 20*0.1
	assert.InDelta(t, 10.6, e.EnergyUsage, 1e-9)
	assert.InDelta(t, 5.3, e.CO2Equivalent, 1e-9)
	assert.Equal(t, 3, e.Streak)
	assert.Equal(t, 7.5, e.TotalSaved)
}

func TestEstimate_Deterministic(t *testing.T) {
	m := models.DefaultUserMetrics("2024-01-01")
	first := Estimate(m, sampleStats())
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Estimate(m, sampleStats()))
	}
}

func TestEstimate_ZeroInputs(t *testing.T) {
	e := Estimate(models.DefaultUserMetrics("2024-01-01"), models.LiveStats{})
	assert.Equal(t, 0.0, e.EnergyUsage)
	assert.Equal(t, 0.0, e.CO2Equivalent)
	assert.Equal(t, 1, e.Streak)
}

func TestEstimate_ScalingOneWeightScalesItsContribution(t *testing.T) {
	m := models.DefaultUserMetrics("2024-01-01")
	s := sampleStats()
	base := DefaultWeights()
	const k = 3.0

	contribution := func(w Weights, zero func(*Weights)) float64 {
		without := w
		zero(&without)
		return w.Estimate(m, s).EnergyUsage - without.Estimate(m, s).EnergyUsage
	}

	cases := map[string]struct {
		scale func(*Weights)
		zero  func(*Weights)
	}{
		"tab":    {func(w *Weights) { w.Tab *= k }, func(w *Weights) { w.Tab = 0 }},
		"idle":   {func(w *Weights) { w.IdleMinute *= k }, func(w *Weights) { w.IdleMinute = 0 }},
		"active": {func(w *Weights) { w.ActiveMinute *= k }, func(w *Weights) { w.ActiveMinute = 0 }},
		"email":  {func(w *Weights) { w.Email *= k }, func(w *Weights) { w.Email = 0 }},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			scaled := base
			c.scale(&scaled)

			before := contribution(base, c.zero)
			after := contribution(scaled, c.zero)
			assert.InDelta(t, k*before, after, 1e-9)

			// the other contributions are unchanged
			assert.InDelta(t,
				base.Estimate(m, s).EnergyUsage-before,
				scaled.Estimate(m, s).EnergyUsage-after, 1e-9)
		})
	}
}

func TestDefaultWeights_Positive(t *testing.T) {
	w := DefaultWeights()
	for _, v := range []float64{w.Tab, w.IdleMinute, w.ActiveMinute, w.Email, w.CO2PerKWh} {
		assert.Greater(t, v, 0.0)
	}
}

func TestStatsFrom_FallsBackToSnapshot(t *testing.T) {
	m := models.DefaultUserMetrics("2024-01-01")
	m.CurrentOpenTabs = 12
	m.IdleTime = 4
	m.ActiveTime = 9

	s := StatsFrom(m, -1, 5)
	assert.Equal(t, models.LiveStats{OpenTabs: 12, IdleMinutes: 4, ActiveMinutes: 9, EmailsInInbox: 5}, s)

	s = StatsFrom(m, 3, -2)
	assert.Equal(t, 3, s.OpenTabs)
	assert.Equal(t, 0, s.EmailsInInbox)
}

func TestAfterAction_ClampsAtZero(t *testing.T) {
	e := models.EnergyEstimate{EnergyUsage: 2, CO2Equivalent: 1, Streak: 2, TotalSaved: 4}

	out := AfterAction(e, 3)
	assert.Equal(t, 0.0, out.CO2Equivalent)
	assert.Equal(t, 7.0, out.TotalSaved)
	assert.Equal(t, 2.0, out.EnergyUsage)
	assert.Equal(t, 2, out.Streak)

	out = AfterAction(e, 0.25)
	assert.Equal(t, 0.75, out.CO2Equivalent)
}
