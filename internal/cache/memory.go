package cache

import (
	"sync"
	"time"
)

// entry is intentionally simple: expiry is checked lazily on Get.
type entry struct {
	value    interface{}
	expireAt time.Time // zero means no TTL
}

// MemoryCache is a map-backed Cache safe for concurrent use. It is the
// default backend and the one used throughout the tests.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// NewMemoryCache creates an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns the value stored under key, dropping it when expired.
func (c *MemoryCache) Get(key Key) (interface{}, bool) {
	k := key.String()

	c.mu.RLock()
	e, ok := c.entries[k]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if !e.expireAt.IsZero() && c.now().After(e.expireAt) {
		c.mu.Lock()
		// re-check: another writer may have refreshed the entry
		if cur, ok := c.entries[k]; ok && cur.expireAt.Equal(e.expireAt) {
			delete(c.entries, k)
		}
		c.mu.Unlock()
		return nil, false
	}

	return e.value, true
}

// Set stores value under key. ttl <= 0 means no expiry.
func (c *MemoryCache) Set(key Key, value interface{}, ttl time.Duration) {
	e := entry{value: value}
	if ttl > 0 {
		e.expireAt = c.now().Add(ttl)
	}

	c.mu.Lock()
	c.entries[key.String()] = e
	c.mu.Unlock()
}

// Delete removes the entry stored under key.
func (c *MemoryCache) Delete(key Key) {
	c.mu.Lock()
	delete(c.entries, key.String())
	c.mu.Unlock()
}

// Len returns the number of live entries, counting expired ones that have
// not been collected yet.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// SetClock overrides the time source. For tests.
func (c *MemoryCache) SetClock(now func() time.Time) {
	c.mu.Lock()
	c.now = now
	c.mu.Unlock()
}
