package providers

import (
	"ecotrack/internal/structures"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits(kind string)
	IncCacheMisses(kind string)
	IncEventsTotal(kind string)
	IncStoreErrors(op string)
	ObservePersistenceDuration(duration time.Duration)
	SetEligibleTips(count int)
	SetStreak(streak int)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           *prometheus.CounterVec
	cacheMisses         *prometheus.CounterVec
	eventsTotal         *prometheus.CounterVec
	storeErrors         *prometheus.CounterVec
	persistenceDuration prometheus.Histogram
	eligibleTips        prometheus.Gauge
	streak              prometheus.Gauge
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits(kind string) {
	m.cacheHits.WithLabelValues(kind).Inc()
}

func (m *MetricsProvider) IncCacheMisses(kind string) {
	m.cacheMisses.WithLabelValues(kind).Inc()
}

func (m *MetricsProvider) IncEventsTotal(kind string) {
	m.eventsTotal.WithLabelValues(kind).Inc()
}

func (m *MetricsProvider) IncStoreErrors(op string) {
	m.storeErrors.WithLabelValues(op).Inc()
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) SetEligibleTips(count int) {
	m.eligibleTips.Set(float64(count))
}

func (m *MetricsProvider) SetStreak(streak int) {
	m.streak.Set(float64(streak))
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ecotrack_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ecotrack_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ecotrack_cache_hits_total",
			Help: "Total number of response cache hits by view",
		}, []string{"view"}),

		cacheMisses: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ecotrack_cache_misses_total",
			Help: "Total number of response cache misses by view",
		}, []string{"view"}),

		eventsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ecotrack_events_total",
			Help: "Total number of ingested browsing events by kind",
		}, []string{"kind"}),

		storeErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ecotrack_store_errors_total",
			Help: "Total number of failed store reads and writes",
		}, []string{"op"}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "ecotrack_persistence_duration_seconds",
			Help:    "Duration of record writes in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		eligibleTips: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "ecotrack_eligible_tips",
			Help: "Number of tips currently eligible and not dismissed",
		}),

		streak: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "ecotrack_streak_days",
			Help: "Current consecutive-day streak",
		}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits(_ string)                            {}
func (n *noopMetrics) IncCacheMisses(_ string)                          {}
func (n *noopMetrics) IncEventsTotal(_ string)                          {}
func (n *noopMetrics) IncStoreErrors(_ string)                          {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)       {}
func (n *noopMetrics) SetEligibleTips(_ int)                            {}
func (n *noopMetrics) SetStreak(_ int)                                  {}
