// Package tips holds the advisory rule catalog and the evaluator that
// filters it against the current metrics and the dismissed set.
package tips

import "ecotrack/internal/models"

const (
	TabTipID           = "tab-tip"
	ScreenBrightnessID = "screen-brightness"
	OutlookEmailID     = "outlook-email"

	// TabThreshold is the open-tab count above which the tab tip applies.
	TabThreshold = 15
)

// Catalog is an ordered rule set. Order is the display order.
type Catalog []models.TipDefinition

// MoreOpenTabsThan is true when the open tab count exceeds n. Once the host
// has reported a count only that count is used; before then the lifetime
// opened-minus-closed balance stands in for it.
func MoreOpenTabsThan(n int) models.Predicate {
	return func(m models.UserMetrics) bool {
		if m.TabsObservedAt > 0 {
			return m.CurrentOpenTabs > n
		}
		return max(m.CurrentOpenTabs, m.TotalTabsOpened-m.TotalTabsClosed) > n
	}
}

// Always marks an evergreen tip.
func Always() models.Predicate {
	return func(models.UserMetrics) bool { return true }
}

func DefaultCatalog() Catalog {
	return Catalog{
		{
			ID:            TabTipID,
			Title:         "Consider closing some tabs",
			Message:       "You have more than 15 tabs open. Closing tabs reduces memory usage and server load.",
			LearnMoreLink: "https://greenspector.com/en/what-is-the-environmental-impact-of-opening-or-not-opening-links-in-another-tab/",
			Condition:     MoreOpenTabsThan(TabThreshold),
		},
		{
			ID:            ScreenBrightnessID,
			Title:         "Sustainability Tip",
			Message:       "Reducing screen brightness by 20% can save up to 20% of your monitor energy consumption.",
			LearnMoreLink: "https://sustainability.google/progress/energy/efficiency-tips/",
			Condition:     Always(),
		},
		{
			ID:            OutlookEmailID,
			Title:         "Clean up your Outlook inbox",
			Message:       "Large email archives consume server energy. Use Outlook's Cleanup tool to reduce redundant messages and free up storage.",
			LearnMoreLink: "https://support.microsoft.com/en-us/office/use-the-conversation-clean-up-tool-to-delete-redundant-messages-70373cdd-acc4-4600-bc10-35c21cdb0503",
			Condition:     Always(),
		},
	}
}

func (c Catalog) Lookup(id string) (models.TipDefinition, bool) {
	for _, d := range c {
		if d.ID == id {
			return d, true
		}
	}
	return models.TipDefinition{}, false
}

// Views is the full catalog projection, stored under allTips at install.
func (c Catalog) Views() []models.TipView {
	out := make([]models.TipView, 0, len(c))
	for _, d := range c {
		out = append(out, d.View())
	}
	return out
}
