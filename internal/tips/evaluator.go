package tips

import (
	"ecotrack/internal/models"
	"strconv"
)

// BadgeColor is the icon badge background.
const BadgeColor = "#4B985A"

// Evaluate keeps, in catalog order, every tip whose condition holds and
// whose id is not dismissed. It has no side effects. A nil condition never
// matches.
func Evaluate(c Catalog, m models.UserMetrics, dismissed map[string]struct{}) ([]models.TipView, int) {
	out := make([]models.TipView, 0, len(c))
	for _, d := range c {
		if _, ok := dismissed[d.ID]; ok {
			continue
		}
		if d.Condition == nil || !d.Condition(m) {
			continue
		}
		out = append(out, d.View())
	}
	return out, len(out)
}

// DismissedSet builds a set from persisted ids.
func DismissedSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Without drops id from a cached projection, keeping order.
func Without(views []models.TipView, id string) []models.TipView {
	out := make([]models.TipView, 0, len(views))
	for _, v := range views {
		if v.ID != id {
			out = append(out, v)
		}
	}
	return out
}

// Badge shows the eligible count; zero clears the text.
func Badge(count int) models.Badge {
	if count <= 0 {
		return models.Badge{Color: BadgeColor}
	}
	return models.Badge{Color: BadgeColor, Text: strconv.Itoa(count)}
}
