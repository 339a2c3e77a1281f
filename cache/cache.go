// Package cache bounds the number of simultaneously loaded
// *index.Index handles. Opening and decoding every block file for a
// large manifest is not free, so the CLI's serve command shares one
// Manager across requests instead of calling index.Load on every
// request. A Manager built with a MetricsRecorder reports its hits,
// misses, and evictions as they happen, rather than exposing a
// snapshot a caller has to poll and diff.
package cache

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/soundhash/fpindex/index"
)

// MetricsRecorder receives cache hit/miss/eviction counts as they
// happen. *metrics.Metrics satisfies this without cache needing to
// import the metrics package.
type MetricsRecorder interface {
	AddCacheHits(n int)
	AddCacheMisses(n int)
	AddCacheEvictions(n int)
}

// Manager is an LRU cache of loaded *index.Index handles, keyed by
// their ordered block-path manifest. Entries evicted from the
// underlying LRU are closed immediately — an Index holds open block
// data for as long as it is reachable, and no longer.
type Manager struct {
	lru     *lru.Cache[string, *index.Index]
	mu      sync.Mutex // serializes Get's load-on-miss against concurrent evictions
	metrics MetricsRecorder

	hits, misses, evictions uint64
}

// NewManager creates a Manager that keeps at most size loaded indexes
// resident at once. size must be positive. m may be nil if the caller
// does not want cache events reported to Prometheus; every hit, miss,
// and eviction is still tracked internally and visible via Stats.
func NewManager(size int, m MetricsRecorder) (*Manager, error) {
	if size <= 0 {
		return nil, fmt.Errorf("cache: size must be positive, got %d", size)
	}

	mgr := &Manager{metrics: m}
	c, err := lru.NewWithEvict[string, *index.Index](size, func(_ string, ix *index.Index) {
		atomic.AddUint64(&mgr.evictions, 1)
		if mgr.metrics != nil {
			mgr.metrics.AddCacheEvictions(1)
		}
		ix.Close()
	})
	if err != nil {
		return nil, err
	}
	mgr.lru = c
	return mgr, nil
}

// key joins an ordered path manifest into a single cache key. Order is
// significant for an Index's global ids (spec.md §6), so two
// manifests with the same paths in different orders are different
// cache entries.
func key(paths []string) string {
	return strings.Join(paths, "\x00")
}

// Get returns the Index loaded from paths, loading and caching it on
// a miss. The returned Index must not be closed by the caller — the
// Manager owns it until it is evicted or Purge is called.
func (m *Manager) Get(paths []string) (*index.Index, error) {
	k := key(paths)

	m.mu.Lock()
	defer m.mu.Unlock()

	if ix, ok := m.lru.Get(k); ok {
		atomic.AddUint64(&m.hits, 1)
		if m.metrics != nil {
			m.metrics.AddCacheHits(1)
		}
		return ix, nil
	}
	atomic.AddUint64(&m.misses, 1)
	if m.metrics != nil {
		m.metrics.AddCacheMisses(1)
	}

	ix, err := index.Load(paths)
	if err != nil {
		return nil, err
	}
	m.lru.Add(k, ix)
	return ix, nil
}

// Invalidate drops the cached Index for paths, if any, closing it.
func (m *Manager) Invalidate(paths []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lru.Remove(key(paths))
}

// Stats reports cumulative cache counters.
type Stats struct {
	Len       int
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// Stats returns the Manager's current counters.
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Stats{
		Len:       m.lru.Len(),
		Hits:      atomic.LoadUint64(&m.hits),
		Misses:    atomic.LoadUint64(&m.misses),
		Evictions: atomic.LoadUint64(&m.evictions),
	}
}

// Purge closes and evicts every cached Index.
func (m *Manager) Purge() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lru.Purge()
}
