package tips

import (
	"ecotrack/internal/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eligible(c Catalog, m models.UserMetrics) []models.TipView {
	views, _ := Evaluate(c, m, nil)
	return views
}

func ids(views []models.TipView) []string {
	out := make([]string, 0, len(views))
	for _, v := range views {
		out = append(out, v.ID)
	}
	return out
}

func TestEvaluate_DefaultsShowEvergreenTips(t *testing.T) {
	m := models.DefaultUserMetrics("2024-01-01")

	views, n := Evaluate(DefaultCatalog(), m, nil)

	assert.Equal(t, []string{ScreenBrightnessID, OutlookEmailID}, ids(views))
	assert.Equal(t, 2, n)
}

func TestEvaluate_SixteenTabsOpenedThenDismissed(t *testing.T) {
	m := models.DefaultUserMetrics("2024-01-01")
	m.TotalTabsOpened += 16

	views, n := Evaluate(DefaultCatalog(), m, nil)
	require.Equal(t, 3, n)
	assert.Equal(t, TabTipID, views[0].ID)

	views, n = Evaluate(DefaultCatalog(), m, DismissedSet([]string{TabTipID}))
	assert.Equal(t, 2, n)
	assert.NotContains(t, ids(views), TabTipID)
}

func TestEvaluate_ThresholdIsStrict(t *testing.T) {
	cond := MoreOpenTabsThan(TabThreshold)
	m := models.DefaultUserMetrics("2024-01-01")

	m.CurrentOpenTabs = 15
	assert.False(t, cond(m))
	m.CurrentOpenTabs = 16
	assert.True(t, cond(m))

	m.CurrentOpenTabs = 0
	m.TotalTabsOpened = 30
	m.TotalTabsClosed = 15
	assert.False(t, cond(m))
	m.TotalTabsClosed = 14
	assert.True(t, cond(m))
}

func TestEvaluate_ObservedTabCountOverridesBalance(t *testing.T) {
	cond := MoreOpenTabsThan(TabThreshold)
	m := models.DefaultUserMetrics("2024-01-01")
	m.TotalTabsOpened = 120
	m.TotalTabsClosed = 100
	require.True(t, cond(m), "balance applies before any host count")

	m.CurrentOpenTabs = 3
	m.TabsObservedAt = 1710072000000
	assert.False(t, cond(m))
	assert.NotContains(t, ids(eligible(DefaultCatalog(), m)), TabTipID)

	m.CurrentOpenTabs = 16
	assert.True(t, cond(m))
}

func TestEvaluate_PreservesCatalogOrder(t *testing.T) {
	m := models.DefaultUserMetrics("2024-01-01")
	m.CurrentOpenTabs = 40
	catalog := DefaultCatalog()

	dismissedSets := [][]string{
		nil,
		{ScreenBrightnessID},
		{TabTipID, OutlookEmailID},
		{"not-a-tip"},
		{TabTipID, ScreenBrightnessID, OutlookEmailID},
	}
	for _, d := range dismissedSets {
		views, n := Evaluate(catalog, m, DismissedSet(d))
		assert.Equal(t, len(views), n)

		// output is a subsequence of the catalog without dismissed ids
		pos := -1
		for _, v := range views {
			assert.NotContains(t, d, v.ID)
			idx := indexOf(catalog, v.ID)
			assert.Greater(t, idx, pos)
			pos = idx
		}
		// every non-dismissed eligible tip is present
		assert.Equal(t, len(catalog)-countKnown(catalog, d), n)
	}
}

func TestEvaluate_Idempotent(t *testing.T) {
	m := models.DefaultUserMetrics("2024-01-01")
	m.CurrentOpenTabs = 20
	before := m.Clone()
	dismissed := DismissedSet([]string{OutlookEmailID})

	first, _ := Evaluate(DefaultCatalog(), m, dismissed)
	second, _ := Evaluate(DefaultCatalog(), m, dismissed)

	assert.Equal(t, first, second)
	assert.Equal(t, before, m)
	assert.Len(t, dismissed, 1)
}

func TestEvaluate_NilConditionNeverMatches(t *testing.T) {
	c := Catalog{{ID: "broken"}, {ID: "ok", Condition: Always()}}
	views, n := Evaluate(c, models.UserMetrics{}, nil)
	assert.Equal(t, 1, n)
	assert.Equal(t, "ok", views[0].ID)
}

func TestCatalog_LookupAndViews(t *testing.T) {
	c := DefaultCatalog()

	d, ok := c.Lookup(OutlookEmailID)
	require.True(t, ok)
	assert.Equal(t, "Clean up your Outlook inbox", d.Title)

	_, ok = c.Lookup("missing")
	assert.False(t, ok)

	assert.Equal(t, []string{TabTipID, ScreenBrightnessID, OutlookEmailID}, ids(c.Views()))
}

func TestWithout(t *testing.T) {
	views := DefaultCatalog().Views()
	out := Without(views, ScreenBrightnessID)
	assert.Equal(t, []string{TabTipID, OutlookEmailID}, ids(out))
	assert.Len(t, views, 3)

	assert.Equal(t, ids(views), ids(Without(views, "missing")))
}

func TestBadge(t *testing.T) {
	assert.Equal(t, models.Badge{Color: BadgeColor, Text: "3"}, Badge(3))
	assert.Equal(t, models.Badge{Color: BadgeColor}, Badge(0))
}

func indexOf(c Catalog, id string) int {
	for i, d := range c {
		if d.ID == id {
			return i
		}
	}
	return -1
}

func countKnown(c Catalog, ids []string) int {
	n := 0
	for _, id := range ids {
		if indexOf(c, id) >= 0 {
			n++
		}
	}
	return n
}
