package services

import (
	"ecotrack/internal/models"
	"fmt"
	"slices"

	"github.com/goccy/go-json"
)

// Persisted keys.
const (
	KeyMetrics       = "metrics"
	KeyDismissedTips = "dismissedTips"
	KeyIdleStart     = "idleStartTime"
	KeyActiveStart   = "activeStartTime"
	KeyTipsToShow    = "tipsToShow"
	KeyAllTips       = "allTips"
)

var loadKeys = []string{KeyMetrics, KeyDismissedTips, KeyIdleStart, KeyActiveStart, KeyTipsToShow}

type dirtyMask uint8

const (
	dirtyMetrics dirtyMask = 1 << iota
	dirtyDismissed
	dirtyIdleStart
	dirtyActiveStart
	dirtyTips
	dirtyAllTips
)

// record is everything the writer owns. Start timestamps are unix
// milliseconds, 0 when absent.
type record struct {
	metrics     models.UserMetrics
	dismissed   []string
	idleStart   int64
	activeStart int64
	tipsToShow  []models.TipView
	// eligible is the badge count from the last evaluation; not persisted.
	eligible int
}

func defaultRecord(today string) record {
	return record{
		metrics:    models.DefaultUserMetrics(today),
		dismissed:  []string{},
		tipsToShow: []models.TipView{},
	}
}

func (r *record) isDismissed(id string) bool {
	return slices.Contains(r.dismissed, id)
}

// decodeRecord restores a record from stored values. The second result is
// false when no metrics key exists yet, i.e. on first install.
func (t *TrackerService) decodeRecord(values map[string][]byte, today string) (record, bool) {
	r := defaultRecord(today)

	raw, ok := values[KeyMetrics]
	if !ok {
		return r, false
	}

	m, defaulted, err := models.DecodeUserMetrics(raw, today)
	if err != nil {
		t.logger.Warnf(logType, "Stored metrics unreadable, using defaults: %v", err)
	} else if len(defaulted) > 0 {
		t.logger.Warnf(logType, "Stored metrics fields defaulted: %v", defaulted)
	}
	r.metrics = m

	if raw, ok := values[KeyDismissedTips]; ok {
		ids, err := models.DecodeTipIDs(raw)
		if err != nil {
			t.logger.Warnf(logType, "Stored dismissed tips unreadable: %v", err)
		} else {
			r.dismissed = ids
		}
	}
	if raw, ok := values[KeyTipsToShow]; ok {
		var views []models.TipView
		if err := json.Unmarshal(raw, &views); err == nil && views != nil {
			r.tipsToShow = views
		}
	}
	r.idleStart = models.DecodeTimestamp(values[KeyIdleStart])
	r.activeStart = models.DecodeTimestamp(values[KeyActiveStart])
	return r, true
}

// encode serializes the keys marked in mask.
func (t *TrackerService) encode(mask dirtyMask) (map[string][]byte, error) {
	items := make(map[string][]byte, 6)
	put := func(bit dirtyMask, key string, v any) error {
		if mask&bit == 0 {
			return nil
		}
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}
		items[key] = b
		return nil
	}

	r := &t.rec
	if err := put(dirtyMetrics, KeyMetrics, r.metrics); err != nil {
		return nil, err
	}
	if err := put(dirtyDismissed, KeyDismissedTips, r.dismissed); err != nil {
		return nil, err
	}
	if err := put(dirtyIdleStart, KeyIdleStart, r.idleStart); err != nil {
		return nil, err
	}
	if err := put(dirtyActiveStart, KeyActiveStart, r.activeStart); err != nil {
		return nil, err
	}
	if err := put(dirtyTips, KeyTipsToShow, r.tipsToShow); err != nil {
		return nil, err
	}
	if err := put(dirtyAllTips, KeyAllTips, t.catalog.Views()); err != nil {
		return nil, err
	}
	return items, nil
}
