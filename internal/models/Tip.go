package models

// Predicate decides tip eligibility. It must be pure.
type Predicate func(m UserMetrics) bool

type TipDefinition struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Message       string    `json:"message"`
	LearnMoreLink string    `json:"learnMoreLink,omitempty"`
	Condition     Predicate `json:"-"`
}

// TipView is the display projection handed to the UI and persisted under
// the tipsToShow key.
type TipView struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Message       string `json:"message"`
	LearnMoreLink string `json:"learnMoreLink,omitempty"`
}

func (d TipDefinition) View() TipView {
	return TipView{
		ID:            d.ID,
		Title:         d.Title,
		Message:       d.Message,
		LearnMoreLink: d.LearnMoreLink,
	}
}
