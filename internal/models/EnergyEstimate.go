package models

// EnergyEstimate is derived on demand and never persisted.
type EnergyEstimate struct {
	EnergyUsage   float64 `json:"energyUsage"`
	CO2Equivalent float64 `json:"co2Equivalent"`
	Streak        int     `json:"streak"`
	TotalSaved    float64 `json:"totalSaved"`
}

type LiveStats struct {
	OpenTabs      int     `json:"openTabs"`
	IdleMinutes   float64 `json:"idleMinutes"`
	ActiveMinutes float64 `json:"activeMinutes"`
	EmailsInInbox int     `json:"emailsInInbox"`
}

type WeeklySummary struct {
	Dates   []string  `json:"dates"`
	Days    []string  `json:"days"`
	Savings []float64 `json:"savings"`
}

type Badge struct {
	Color string `json:"color"`
	Text  string `json:"text"`
}
