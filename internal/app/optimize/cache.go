package optimize

import (
	"sync"
	"time"

	"github.com/fanpulse/fanpulse/internal/domain"
)

// DefaultTTL is how long a cached recommendation set stays valid.
const DefaultTTL = 5 * time.Minute

// Cache is an explicit per-user recommendation cache with a fixed TTL and an
// injected clock. Constructed once per process and passed by reference; safe
// for concurrent readers and the clear operations. The cache never refreshes
// itself on a timer; entries leave only via TTL expiry or explicit clears.
type Cache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]domain.RecommendationSet
}

// NewCache creates a cache. A non-positive ttl falls back to DefaultTTL;
// a nil clock falls back to time.Now.
func NewCache(ttl time.Duration, now func() time.Time) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if now == nil {
		now = time.Now
	}
	return &Cache{
		ttl:     ttl,
		now:     now,
		entries: make(map[string]domain.RecommendationSet),
	}
}

// TTL returns the configured time-to-live.
func (c *Cache) TTL() time.Duration { return c.ttl }

// Get returns the cached set for a user if it is still within the TTL.
func (c *Cache) Get(userID string) (domain.RecommendationSet, bool) {
	c.mu.RLock()
	set, ok := c.entries[userID]
	c.mu.RUnlock()
	if !ok {
		return domain.RecommendationSet{}, false
	}

	if c.now().Sub(set.GeneratedAt) >= c.ttl {
		c.mu.Lock()
		// Drop only if nothing replaced the expired entry meanwhile.
		if cur, still := c.entries[userID]; still && cur.GeneratedAt.Equal(set.GeneratedAt) {
			delete(c.entries, userID)
		}
		c.mu.Unlock()
		return domain.RecommendationSet{}, false
	}
	return set, true
}

// Put stores a freshly computed set under the user's key.
func (c *Cache) Put(userID string, set domain.RecommendationSet) {
	c.mu.Lock()
	c.entries[userID] = set
	c.mu.Unlock()
}

// ClearUser removes one user's cached entry.
func (c *Cache) ClearUser(userID string) {
	c.mu.Lock()
	delete(c.entries, userID)
	c.mu.Unlock()
}

// ClearAll removes every cached entry.
func (c *Cache) ClearAll() {
	c.mu.Lock()
	c.entries = make(map[string]domain.RecommendationSet)
	c.mu.Unlock()
}

// Len returns the number of cached entries, expired or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
