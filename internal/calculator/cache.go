package calculator

import (
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/yourusername/foodclub/internal/metrics"
)

// Cache memoizes calculation stages. Keys are slash-separated paths so a
// whole subtree can be dropped with Invalidate.
type Cache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
	Invalidate(prefix string) int
}

// MemoCache provides in-memory memoization backed by go-cache.
// It is safe for concurrent use.
type MemoCache struct {
	cache     *gocache.Cache
	ttl       time.Duration
	maxSize   int
	mu        sync.Mutex
	hitCount  uint64
	missCount uint64
}

// NewMemoCache creates a memo cache. A ttl of zero keeps entries until they
// are invalidated; a maxSize of zero means unbounded.
func NewMemoCache(ttl time.Duration, maxSize int) *MemoCache {
	expiration := ttl
	cleanup := ttl * 2
	if ttl <= 0 {
		expiration = gocache.NoExpiration
		cleanup = 0
	}
	return &MemoCache{
		cache:   gocache.New(expiration, cleanup),
		ttl:     expiration,
		maxSize: maxSize,
	}
}

// Get retrieves a memoized value
func (mc *MemoCache) Get(key string) (any, bool) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	value, found := mc.cache.Get(key)
	if found {
		mc.hitCount++
		metrics.RecordCacheHit()
	} else {
		mc.missCount++
		metrics.RecordCacheMiss()
	}
	mc.updateMetrics()
	return value, found
}

// Set stores a value, evicting when the cache is full
func (mc *MemoCache) Set(key string, value any) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if mc.maxSize > 0 && mc.cache.ItemCount() >= mc.maxSize {
		// Remove expired items first
		mc.cache.DeleteExpired()
		if mc.cache.ItemCount() >= mc.maxSize {
			mc.cache.Flush()
		}
	}

	mc.cache.Set(key, value, mc.ttl)
	mc.updateMetrics()
}

// Invalidate removes every entry whose key starts with prefix
func (mc *MemoCache) Invalidate(prefix string) int {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	removed := 0
	for k := range mc.cache.Items() {
		if strings.HasPrefix(k, prefix) {
			mc.cache.Delete(k)
			removed++
		}
	}

	metrics.RecordCacheInvalidation(removed)
	mc.updateMetrics()
	return removed
}

// Clear flushes the entire cache
func (mc *MemoCache) Clear() {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.cache.Flush()
	mc.hitCount = 0
	mc.missCount = 0
	mc.updateMetrics()
}

// Stats returns cache statistics
func (mc *MemoCache) Stats() (hits, misses uint64, ratio float64) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	return mc.stats()
}

func (mc *MemoCache) stats() (hits, misses uint64, ratio float64) {
	hits = mc.hitCount
	misses = mc.missCount
	total := hits + misses
	if total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

// ItemCount returns the number of items in cache
func (mc *MemoCache) ItemCount() int {
	return mc.cache.ItemCount()
}

// updateMetrics updates Prometheus metrics; callers hold mu.
func (mc *MemoCache) updateMetrics() {
	_, _, ratio := mc.stats()
	metrics.UpdateCacheStats(ratio, mc.cache.ItemCount())
}

// NoopCache never stores anything
type NoopCache struct{}

// Get always misses
func (NoopCache) Get(string) (any, bool) { return nil, false }

// Set discards the value
func (NoopCache) Set(string, any) {}

// Invalidate removes nothing
func (NoopCache) Invalidate(string) int { return 0 }
