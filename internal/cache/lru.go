package cache

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultLRUSize bounds the LRU cache when no size is given. Mapping
// universes rarely exceed a few thousand classes; four entries per class
// leaves headroom.
const DefaultLRUSize = 16384

// LRUCache is a size-bounded Cache. Eviction under pressure is exactly the
// behavior the mapping index is built to tolerate: a record written here may
// be gone by the next read, which simply triggers a rebuild. Per-entry TTLs
// are handled here because the underlying LRU only supports a global one.
type LRUCache struct {
	inner *lru.Cache[string, entry]
	now   func() time.Time
}

// NewLRUCache creates an LRUCache holding at most size entries. size <= 0
// falls back to DefaultLRUSize.
func NewLRUCache(size int) (*LRUCache, error) {
	if size <= 0 {
		size = DefaultLRUSize
	}
	inner, err := lru.New[string, entry](size)
	if err != nil {
		return nil, err
	}
	return &LRUCache{inner: inner, now: time.Now}, nil
}

// Get returns the value stored under key, dropping it when expired.
func (c *LRUCache) Get(key Key) (interface{}, bool) {
	k := key.String()
	e, ok := c.inner.Get(k)
	if !ok {
		return nil, false
	}
	if !e.expireAt.IsZero() && c.now().After(e.expireAt) {
		c.inner.Remove(k)
		return nil, false
	}
	return e.value, true
}

// Set stores value under key. ttl <= 0 means no expiry.
func (c *LRUCache) Set(key Key, value interface{}, ttl time.Duration) {
	e := entry{value: value}
	if ttl > 0 {
		e.expireAt = c.now().Add(ttl)
	}
	c.inner.Add(key.String(), e)
}

// Delete removes the entry stored under key.
func (c *LRUCache) Delete(key Key) {
	c.inner.Remove(key.String())
}

// Len returns the number of entries currently held.
func (c *LRUCache) Len() int {
	return c.inner.Len()
}
