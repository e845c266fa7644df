package validation

import (
	"sync"
	"time"
)

// resultCache memoizes aggregate validation results per invocation key.
// Entries expire after a TTL and the cache holds at most maxEntries,
// evicting oldest-first on insert, so it never grows for process lifetime.
type resultCache struct {
	mu         sync.Mutex
	entries    map[string]cacheEntry
	order      []string // insertion order for eviction
	ttl        time.Duration
	maxEntries int
}

type cacheEntry struct {
	result    CommandValidationResult
	expiresAt time.Time
}

func newResultCache(ttl time.Duration, maxEntries int) *resultCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if maxEntries <= 0 {
		maxEntries = 1000
	}
	return &resultCache{
		entries:    make(map[string]cacheEntry),
		ttl:        ttl,
		maxEntries: maxEntries,
	}
}

func (c *resultCache) get(key string, now time.Time) (CommandValidationResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return CommandValidationResult{}, false
	}
	if now.After(entry.expiresAt) {
		delete(c.entries, key)
		c.dropFromOrder(key)
		return CommandValidationResult{}, false
	}
	return entry.result, true
}

func (c *resultCache) put(key string, result CommandValidationResult, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists {
		for len(c.entries) >= c.maxEntries && len(c.order) > 0 {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}
		c.order = append(c.order, key)
	}
	c.entries[key] = cacheEntry{result: result, expiresAt: now.Add(c.ttl)}
}

func (c *resultCache) remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
	c.dropFromOrder(key)
}

// dropFromOrder must be called with c.mu held. Keeping order and entries
// in step is what keeps the cache bounded: a key left behind in order
// would be re-appended on its next put and evict live entries early.
func (c *resultCache) dropFromOrder(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

func (c *resultCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]cacheEntry)
	c.order = nil
}

func (c *resultCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
