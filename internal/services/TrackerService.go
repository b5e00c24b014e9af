package services

import (
	"context"
	"ecotrack/internal/estimator"
	"ecotrack/internal/host"
	"ecotrack/internal/models"
	"ecotrack/internal/providers"
	"ecotrack/internal/storage/interfaces"
	"ecotrack/internal/streak"
	"ecotrack/internal/structures"
	"ecotrack/internal/tips"
	"math"
	"slices"
	"sync"
	"time"

	"go.uber.org/atomic"
)

const (
	logType          = providers.TypeEvent
	defaultQueueSize = 64
)

type TrackerServiceInterface interface {
	OnTabCreated() error
	OnTabClosed() error
	OnIdleStateChanged(state string, at time.Time) error
	OnTabCountSnapshot(count int) error
	RefreshStreak() error
	RefreshTabCount() error
	Install() error
	Flush() error
	GetCurrentEstimate() models.EnergyEstimate
	GetWeeklySummary() models.WeeklySummary
	TakeAction(co2Saved float64) models.EnergyEstimate
	DismissTip(id string) error
	ListEligibleTips() []models.TipView
	Badge() models.Badge
	Snapshot() models.UserMetrics
	Version() uint64
	Today() string
	Close() error
}

// mutation runs on the writer goroutine and reports the keys it changed.
type mutation func(r *record, now time.Time) dirtyMask

type job struct {
	fn   mutation
	done chan struct{}
}

// TrackerService owns the persisted record. Every operation, read or
// write, is a job on one queue processed by a single goroutine, so
// read-modify-write cycles never interleave.
type TrackerService struct {
	conf    *structures.Config
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
	store   interfaces.KeyValueStore
	host    *host.Host
	catalog tips.Catalog
	weights estimator.Weights
	loc     *time.Location
	now     func() time.Time

	jobs    chan job
	stopped chan struct{}
	mu      sync.RWMutex
	closed  bool

	// writer state
	rec          record
	loaded       bool
	dirty        dirtyMask
	getFailures  int
	setFailures  int
	version      *atomic.Uint64
	tabCloseSave float64
}

func NewTrackerService(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface, store interfaces.KeyValueStore, h *host.Host) TrackerServiceInterface {
	return newTrackerService(conf, logger, metrics, store, h, time.Now)
}

func newTrackerService(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface, store interfaces.KeyValueStore, h *host.Host, now func() time.Time) *TrackerService {
	loc := time.Local
	if conf.Tracker.Timezone != "" {
		if l, err := time.LoadLocation(conf.Tracker.Timezone); err == nil {
			loc = l
		} else {
			logger.Warnf(providers.TypeApp, "Unknown timezone %s, using local time", conf.Tracker.Timezone)
		}
	}

	queueSize := conf.Tracker.QueueSize
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}

	t := &TrackerService{
		conf:         conf,
		logger:       logger,
		metrics:      metrics,
		store:        store,
		host:         h,
		catalog:      tips.DefaultCatalog(),
		weights:      estimator.DefaultWeights(),
		loc:          loc,
		now:          now,
		jobs:         make(chan job, queueSize),
		stopped:      make(chan struct{}),
		version:      atomic.NewUint64(0),
		tabCloseSave: sanitizeAmount(conf.Tracker.TabCloseSaving),
	}
	go t.run()
	return t
}

func (t *TrackerService) run() {
	defer close(t.stopped)
	for j := range t.jobs {
		t.process(j)
	}
	if t.loaded && t.dirty != 0 {
		t.persist()
	}
}

// submit enqueues fn and waits until it has been applied and, when it
// changed anything, persisted.
func (t *TrackerService) submit(fn mutation) error {
	j := job{fn: fn, done: make(chan struct{})}

	t.mu.RLock()
	if t.closed {
		t.mu.RUnlock()
		return ErrClosed
	}
	t.jobs <- j
	t.mu.RUnlock()

	<-j.done
	return nil
}

func (t *TrackerService) process(j job) {
	defer close(j.done)

	now := t.now()
	today := streak.DayKey(now, t.loc)
	t.ensureLoaded(today)

	if !t.loaded {
		// Store unavailable: reads see defaults, writes go nowhere.
		scratch := defaultRecord(today)
		j.fn(&scratch, now)
		return
	}

	changed := j.fn(&t.rec, now)
	changed |= t.evaluate(&t.rec)
	t.dirty |= changed

	if changed != 0 {
		t.version.Inc()
	}
	if t.dirty != 0 {
		t.persist()
	}
	t.publish()
}

func (t *TrackerService) ensureLoaded(today string) {
	if t.loaded {
		return
	}

	values, err := t.store.Get(context.Background(), loadKeys...)
	if err != nil {
		t.getFailures++
		t.metrics.IncStoreErrors("get")
		if t.getFailures > 1 {
			t.logger.Errorf(providers.TypeApp, "Store read failed %d times in a row: %v", t.getFailures, err)
		} else {
			t.logger.Warnf(providers.TypeApp, "Store read failed, serving defaults: %v", err)
		}
		return
	}
	t.getFailures = 0

	rec, found := t.decodeRecord(values, today)
	t.rec = rec
	t.loaded = true
	t.version.Inc()

	if !found {
		t.logger.Infof(providers.TypeApp, "No stored metrics, installing defaults")
		t.dirty |= dirtyMetrics | dirtyDismissed | dirtyTips | dirtyAllTips
	}
}

// evaluate refreshes the tipsToShow projection and badge count of r.
func (t *TrackerService) evaluate(r *record) dirtyMask {
	views, count := tips.Evaluate(t.catalog, r.metrics, tips.DismissedSet(r.dismissed))
	r.eligible = count
	if slices.Equal(views, r.tipsToShow) {
		return 0
	}
	r.tipsToShow = views
	return dirtyTips
}

func (t *TrackerService) persist() {
	items, err := t.encode(t.dirty)
	if err != nil {
		t.logger.Errorf(providers.TypeApp, "Unable to encode record: %v", err)
		return
	}

	start := time.Now()
	err = t.store.Set(context.Background(), items)
	t.metrics.ObservePersistenceDuration(time.Since(start))
	if err != nil {
		t.setFailures++
		t.metrics.IncStoreErrors("set")
		if t.setFailures > 1 {
			t.logger.Errorf(providers.TypeApp, "Store write failed %d times in a row, keeping update for retry: %v", t.setFailures, err)
		} else {
			t.logger.Warnf(providers.TypeApp, "Store write failed, retrying on next event: %v", err)
		}
		return
	}
	t.setFailures = 0
	t.dirty = 0
}

func (t *TrackerService) publish() {
	count := t.rec.eligible
	t.host.Badge.SetBadge(count)
	t.metrics.SetEligibleTips(count)
	t.metrics.SetStreak(t.rec.metrics.Streak)
}

// observeTabs records a host tab count. An unchanged count is only written
// the first time it is observed.
func observeTabs(m *models.UserMetrics, n int, now time.Time) dirtyMask {
	if n == m.CurrentOpenTabs && m.TabsObservedAt > 0 {
		return 0
	}
	m.CurrentOpenTabs = n
	m.TabsObservedAt = max(now.UnixMilli(), 1)
	return dirtyMetrics
}

// refreshTabs overwrites the snapshot with the host count when it has one.
func (t *TrackerService) refreshTabs(r *record, now time.Time) dirtyMask {
	n, ok := t.host.Tabs.OpenTabs()
	if !ok || n < 0 {
		return 0
	}
	return observeTabs(&r.metrics, n, now)
}

func (t *TrackerService) OnTabCreated() error {
	t.metrics.IncEventsTotal("tab_created")
	return t.submit(func(r *record, now time.Time) dirtyMask {
		r.metrics.TotalTabsOpened++
		return dirtyMetrics | t.refreshTabs(r, now)
	})
}

func (t *TrackerService) OnTabClosed() error {
	t.metrics.IncEventsTotal("tab_closed")
	return t.submit(func(r *record, now time.Time) dirtyMask {
		r.metrics.TotalTabsClosed++
		streak.CreditSaving(&r.metrics, t.tabCloseSave, streak.DayKey(now, t.loc))
		return dirtyMetrics | t.refreshTabs(r, now)
	})
}

// OnIdleStateChanged folds an idle transition into idleTime and activeTime.
// A zero at means now. Minutes are only credited against a recorded start,
// which is cleared once used.
func (t *TrackerService) OnIdleStateChanged(state string, at time.Time) error {
	st, err := models.ParseIdleState(state)
	if err != nil {
		t.logger.Warnf(logType, "Ignoring idle event: %v", err)
		return ErrUnknownIdleState
	}
	t.metrics.IncEventsTotal("idle_" + string(st))

	return t.submit(func(r *record, now time.Time) dirtyMask {
		when := at
		if when.IsZero() {
			when = now
		}
		ts := when.UnixMilli()

		var changed dirtyMask
		if st.Away() {
			if r.activeStart != 0 {
				r.metrics.ActiveTime += t.elapsedMinutes(r.activeStart, ts)
				r.activeStart = 0
				changed |= dirtyMetrics | dirtyActiveStart
			}
			if r.idleStart == 0 {
				r.idleStart = ts
				changed |= dirtyIdleStart
			}
			return changed
		}

		if r.idleStart != 0 {
			r.metrics.IdleTime += t.elapsedMinutes(r.idleStart, ts)
			r.idleStart = 0
			changed |= dirtyMetrics | dirtyIdleStart
		}
		if r.activeStart == 0 {
			r.activeStart = ts
			changed |= dirtyActiveStart
		}
		return changed
	})
}

func (t *TrackerService) elapsedMinutes(from, to int64) float64 {
	if to < from {
		t.logger.Warnf(logType, "%v: idle transition at %d precedes start %d", ErrInvalidEventInput, to, from)
		return 0
	}
	return float64(to-from) / float64(time.Minute/time.Millisecond)
}

func (t *TrackerService) OnTabCountSnapshot(count int) error {
	t.metrics.IncEventsTotal("tab_count")
	if count < 0 {
		t.logger.Warnf(logType, "%v: tab count %d clamped to 0", ErrInvalidEventInput, count)
		count = 0
	}
	return t.submit(func(r *record, now time.Time) dirtyMask {
		return observeTabs(&r.metrics, count, now)
	})
}

func (t *TrackerService) RefreshTabCount() error {
	return t.submit(func(r *record, now time.Time) dirtyMask {
		return t.refreshTabs(r, now)
	})
}

func (t *TrackerService) RefreshStreak() error {
	return t.submit(func(r *record, now time.Time) dirtyMask {
		outcome := streak.Refresh(&r.metrics, streak.DayKey(now, t.loc))
		if outcome == streak.Unchanged {
			return 0
		}
		t.logger.Infof(providers.TypeApp, "Streak %s: %d", outcome, r.metrics.Streak)
		return dirtyMetrics
	})
}

// Install loads the record, writing defaults when none exists yet.
func (t *TrackerService) Install() error {
	return t.submit(func(*record, time.Time) dirtyMask { return 0 })
}

// Flush retries a write that failed earlier.
func (t *TrackerService) Flush() error {
	return t.submit(func(*record, time.Time) dirtyMask { return 0 })
}

func (t *TrackerService) liveStats(m models.UserMetrics) models.LiveStats {
	tabs := -1
	if n, ok := t.host.Tabs.OpenTabs(); ok {
		tabs = n
	}
	return estimator.StatsFrom(m, tabs, t.host.Inbox.EmailsInInbox())
}

func (t *TrackerService) GetCurrentEstimate() models.EnergyEstimate {
	var out models.EnergyEstimate
	err := t.submit(func(r *record, _ time.Time) dirtyMask {
		out = t.weights.Estimate(r.metrics, t.liveStats(r.metrics))
		return 0
	})
	if err != nil {
		return t.fallbackEstimate()
	}
	return out
}

func (t *TrackerService) fallbackEstimate() models.EnergyEstimate {
	m := models.DefaultUserMetrics(streak.DayKey(t.now(), t.loc))
	return t.weights.Estimate(m, models.LiveStats{})
}

func (t *TrackerService) GetWeeklySummary() models.WeeklySummary {
	var out models.WeeklySummary
	err := t.submit(func(r *record, now time.Time) dirtyMask {
		out = streak.Weekly(r.metrics, now, t.loc)
		return 0
	})
	if err != nil {
		return streak.Weekly(models.UserMetrics{}, t.now(), t.loc)
	}
	return out
}

// TakeAction credits co2Saved to today's bucket and returns the live view
// with the saving subtracted.
func (t *TrackerService) TakeAction(co2Saved float64) models.EnergyEstimate {
	t.metrics.IncEventsTotal("action")
	amount := co2Saved
	if clean := sanitizeAmount(amount); clean != amount {
		t.logger.Warnf(logType, "%v: action saving %v clamped to 0", ErrInvalidEventInput, amount)
		amount = clean
	}

	var out models.EnergyEstimate
	err := t.submit(func(r *record, now time.Time) dirtyMask {
		before := t.weights.Estimate(r.metrics, t.liveStats(r.metrics))
		streak.CreditSaving(&r.metrics, amount, streak.DayKey(now, t.loc))
		out = estimator.AfterAction(before, amount)
		return dirtyMetrics
	})
	if err != nil {
		return estimator.AfterAction(t.fallbackEstimate(), amount)
	}
	return out
}

// DismissTip hides id permanently. Dismissing a dismissed tip is a no-op.
func (t *TrackerService) DismissTip(id string) error {
	if _, ok := t.catalog.Lookup(id); !ok {
		return ErrUnknownTip
	}
	t.metrics.IncEventsTotal("dismiss")
	return t.submit(func(r *record, _ time.Time) dirtyMask {
		if r.isDismissed(id) {
			return 0
		}
		r.dismissed = append(r.dismissed, id)
		r.tipsToShow = tips.Without(r.tipsToShow, id)
		return dirtyDismissed | dirtyTips
	})
}

func (t *TrackerService) ListEligibleTips() []models.TipView {
	var out []models.TipView
	err := t.submit(func(r *record, _ time.Time) dirtyMask {
		changed := t.evaluate(r)
		out = slices.Clone(r.tipsToShow)
		return changed
	})
	if err != nil {
		return []models.TipView{}
	}
	return out
}

func (t *TrackerService) Badge() models.Badge {
	return t.host.Badge.Current()
}

func (t *TrackerService) Snapshot() models.UserMetrics {
	var out models.UserMetrics
	err := t.submit(func(r *record, _ time.Time) dirtyMask {
		out = r.metrics.Clone()
		return 0
	})
	if err != nil {
		return models.DefaultUserMetrics(streak.DayKey(t.now(), t.loc))
	}
	return out
}

// Version changes whenever the committed record changes.
func (t *TrackerService) Version() uint64 {
	return t.version.Load()
}

// Today is the current day key in the tracker timezone.
func (t *TrackerService) Today() string {
	return streak.DayKey(t.now(), t.loc)
}

// Close drains queued jobs, retries a pending write once and stops the
// writer. It does not close the store.
func (t *TrackerService) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	close(t.jobs)
	t.mu.Unlock()

	<-t.stopped
	return nil
}

func sanitizeAmount(v float64) float64 {
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
