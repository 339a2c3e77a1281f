// Package metrics exposes Prometheus collectors for the query engine's
// operational surface: build duration, query duration and result
// size, and cache effectiveness. The index package itself stays free
// of this dependency; only the CLI's build, query, serve and watch
// commands and the server package touch it (spec.md's engine/ambient
// boundary).
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the collectors registered for one fpindex process.
type Metrics struct {
	BuildDuration prometheus.Histogram
	QueryDuration prometheus.Histogram
	QueryResults  prometheus.Histogram
	CacheHits     prometheus.Counter
	CacheMisses   prometheus.Counter
	CacheEvicts   prometheus.Counter

	collectors []prometheus.Collector
	registerer prometheus.Registerer
}

// New creates and registers fpindex's metrics against reg.
func New(reg prometheus.Registerer) *Metrics {
	buildDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "fpindex_build_duration_seconds",
		Help:    "Time to build one index block from song codes.",
		Buckets: prometheus.DefBuckets,
	})
	queryDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "fpindex_query_duration_seconds",
		Help:    "Time to score and rank one query against the loaded index.",
		Buckets: prometheus.DefBuckets,
	})
	queryResults := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "fpindex_query_results",
		Help:    "Number of results returned per query.",
		Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
	})
	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fpindex_cache_hits_total",
		Help: "Index cache lookups served from memory.",
	})
	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fpindex_cache_misses_total",
		Help: "Index cache lookups that required loading from disk.",
	})
	cacheEvicts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fpindex_cache_evictions_total",
		Help: "Indexes evicted and closed from the cache.",
	})

	collectors := []prometheus.Collector{
		buildDuration, queryDuration, queryResults,
		cacheHits, cacheMisses, cacheEvicts,
	}
	reg.MustRegister(collectors...)

	return &Metrics{
		BuildDuration: buildDuration,
		QueryDuration: queryDuration,
		QueryResults:  queryResults,
		CacheHits:     cacheHits,
		CacheMisses:   cacheMisses,
		CacheEvicts:   cacheEvicts,
		collectors:    collectors,
		registerer:    reg,
	}
}

// Unregister removes every collector from the registry. Tests that
// call New repeatedly against prometheus.DefaultRegisterer must call
// this between runs to avoid duplicate-registration panics.
func (m *Metrics) Unregister() {
	if m.registerer == nil {
		return
	}
	for _, c := range m.collectors {
		m.registerer.Unregister(c)
	}
}

// AddCacheHits, AddCacheMisses, and AddCacheEvictions satisfy
// cache.MetricsRecorder: a cache.Manager built with a *Metrics calls
// these directly from Get and its eviction callback, so the counters
// move in step with the cache instead of needing a caller to poll
// cache.Stats() and diff it against a previous snapshot.
func (m *Metrics) AddCacheHits(n int)      { m.CacheHits.Add(float64(n)) }
func (m *Metrics) AddCacheMisses(n int)    { m.CacheMisses.Add(float64(n)) }
func (m *Metrics) AddCacheEvictions(n int) { m.CacheEvicts.Add(float64(n)) }
