package trust

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"
)

// DefaultCacheTTL bounds how long an assessment may be reused for identical
// content before a fresh analysis is required.
const DefaultCacheTTL = 24 * time.Hour

// Cache stores assessments keyed by content fingerprint. Implementations are
// best-effort: a miss or a failed write never blocks analysis.
type Cache interface {
	Get(ctx context.Context, key string) (Assessment, bool)
	Put(ctx context.Context, key string, assessment Assessment)
}

// Fingerprint derives the cache key from campaign content. Identical content
// always maps to the same key regardless of letter case or surrounding
// whitespace in any field.
func Fingerprint(title, description string, target float64) string {
	normalized := strings.TrimSpace(title) + "_" + strings.TrimSpace(description) + "_" + strconv.FormatFloat(target, 'f', -1, 64)
	return strings.ToLower(normalized)
}

type cacheEntry struct {
	assessment Assessment
	storedAt   time.Time
}

// MemoryCache is the in-process cache backend. Expired entries are evicted
// lazily on read; no background sweep runs.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryCache creates an in-memory cache with the given TTL.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached assessment for key if present and not expired.
func (c *MemoryCache) Get(ctx context.Context, key string) (Assessment, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return Assessment{}, false
	}

	if c.now().Sub(entry.storedAt) >= c.ttl {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return Assessment{}, false
	}

	return entry.assessment, true
}

// Put stores an assessment for key, overwriting any previous entry.
func (c *MemoryCache) Put(ctx context.Context, key string, assessment Assessment) {
	c.mu.Lock()
	c.entries[key] = cacheEntry{assessment: assessment, storedAt: c.now()}
	c.mu.Unlock()
}
