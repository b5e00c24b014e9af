package providers

import (
	"ecotrack/internal/structures"
	"strings"
)

// cachedViews are the key prefixes the API caches under; anything else is
// counted as "other" so the view label stays bounded.
var cachedViews = map[string]struct{}{
	"tips":   {},
	"weekly": {},
}

// MetricsCacheProvider counts hits and misses per cached view.
type MetricsCacheProvider struct {
	inner   CacheProviderInterface
	metrics MetricsProviderInterface
}

func (c *MetricsCacheProvider) Get(key string) ([]byte, bool) {
	val, ok := c.inner.Get(key)
	view := cacheView(key)
	if ok {
		c.metrics.IncCacheHits(view)
	} else {
		c.metrics.IncCacheMisses(view)
	}
	return val, ok
}

func (c *MetricsCacheProvider) Set(key string, value []byte) {
	c.inner.Set(key, value)
}

// cacheView maps "tips:42" to "tips".
func cacheView(key string) string {
	prefix, _, _ := strings.Cut(key, ":")
	if _, ok := cachedViews[prefix]; ok {
		return prefix
	}
	return "other"
}

// NewInstrumentedCacheProvider returns the plain noop cache when caching is
// disabled, so no phantom misses are counted.
func NewInstrumentedCacheProvider(conf *structures.Config, logger Logger, metrics MetricsProviderInterface) CacheProviderInterface {
	inner := NewCacheProvider(conf, logger)
	if !conf.Cache.Enabled {
		return inner
	}
	return &MetricsCacheProvider{
		inner:   inner,
		metrics: metrics,
	}
}
