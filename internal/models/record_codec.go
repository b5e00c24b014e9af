package models

import (
	"errors"
	"fmt"
	"math"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/cast"
)

var ErrMalformedRecord = errors.New("malformed record")

type fieldDecoder struct {
	fields    map[string]any
	defaulted []string
}

func (d *fieldDecoder) miss(name string) {
	d.defaulted = append(d.defaulted, name)
}

func (d *fieldDecoder) amount(name string) float64 {
	raw, ok := d.fields[name]
	if !ok || raw == nil {
		d.miss(name)
		return 0
	}
	v, err := cast.ToFloat64E(raw)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		d.miss(name)
		return 0
	}
	if v < 0 {
		d.miss(name)
		return 0
	}
	return v
}

// maxCount is 2^63 as a float64; anything at or above it does not fit an int.
const maxCount = float64(math.MaxInt)

func (d *fieldDecoder) count(name string) int {
	v := d.amount(name)
	if v >= maxCount {
		d.miss(name)
		return 0
	}
	return int(v)
}

func (d *fieldDecoder) streak(name string) int {
	raw, ok := d.fields[name]
	if !ok || raw == nil {
		d.miss(name)
		return 1
	}
	v, err := cast.ToFloat64E(raw)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 1 || v >= maxCount {
		d.miss(name)
		return 1
	}
	return int(v)
}

// optionalTimestamp is zero when absent; only a present, invalid value is
// reported.
func (d *fieldDecoder) optionalTimestamp(name string) int64 {
	raw, ok := d.fields[name]
	if !ok || raw == nil {
		return 0
	}
	v, err := cast.ToFloat64E(raw)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v >= maxCount {
		d.miss(name)
		return 0
	}
	return int64(v)
}

func (d *fieldDecoder) date(name, fallback string) string {
	raw, ok := d.fields[name]
	if !ok || raw == nil {
		d.miss(name)
		return fallback
	}
	s, err := cast.ToStringE(raw)
	if err != nil || !IsDateKey(s) {
		d.miss(name)
		return fallback
	}
	return s
}

func (d *fieldDecoder) savings(name string) map[string]float64 {
	out := make(map[string]float64)
	raw, ok := d.fields[name]
	if !ok || raw == nil {
		d.miss(name)
		return out
	}
	buckets, err := cast.ToStringMapE(raw)
	if err != nil {
		d.miss(name)
		return out
	}
	for day, value := range buckets {
		v, err := cast.ToFloat64E(value)
		if err != nil || !IsDateKey(day) || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			d.miss(name + "." + day)
			continue
		}
		out[day] = v
	}
	return out
}

// IsDateKey reports whether s is a YYYY-MM-DD calendar date.
func IsDateKey(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// DecodeUserMetrics reads a persisted record field by field. Missing or
// malformed fields take their defaults and are listed in the second return
// value; only an unparseable document is an error, and even then the
// returned record holds the defaults.
func DecodeUserMetrics(raw []byte, today string) (UserMetrics, []string, error) {
	m := DefaultUserMetrics(today)

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return m, nil, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	if fields == nil {
		return m, nil, fmt.Errorf("%w: empty document", ErrMalformedRecord)
	}

	d := &fieldDecoder{fields: fields}
	m.TotalTabsOpened = d.count("totalTabsOpened")
	m.TotalTabsClosed = d.count("totalTabsClosed")
	m.IdleTime = d.amount("idleTime")
	m.ActiveTime = d.amount("activeTime")
	m.LastActiveDate = d.date("lastActiveDate", today)
	m.TotalSavedCO2 = d.amount("totalSavedCO2")
	m.DailySavings = d.savings("dailySavings")
	m.CurrentOpenTabs = d.count("currentOpenTabs")
	m.TabsObservedAt = d.optionalTimestamp("tabsObservedAt")

	m.Streak = d.streak("streak")

	return m, d.defaulted, nil
}

// DecodeTipIDs reads the dismissed set, dropping duplicates and non-string
// entries.
func DecodeTipIDs(raw []byte) ([]string, error) {
	var items []any
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	seen := make(map[string]struct{}, len(items))
	ids := make([]string, 0, len(items))
	for _, item := range items {
		id, ok := item.(string)
		if !ok || id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

// DecodeTimestamp reads a unix-millisecond timestamp; zero means absent.
func DecodeTimestamp(raw []byte) int64 {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil || v == nil {
		return 0
	}
	ts, err := cast.ToInt64E(v)
	if err != nil || ts < 0 {
		return 0
	}
	return ts
}
