// Package cache provides the validity cache backing the mapping index: a
// key/value store with per-entry expiry, structured keys and binding records
// that embed source-file modification times. Readers must treat every entry
// as potentially stale; a write may be evicted before the next read.
package cache

import (
	"strings"
	"time"
)

// Family tags the mapping family a key belongs to.
type Family string

const (
	// FamilyType holds per-domain-class output type bindings.
	FamilyType Family = "type"
	// FamilyTypeName holds type bindings indexed by GraphQL type name.
	FamilyTypeName Family = "typename"
	// FamilyFactory holds per-domain-class input factory bindings.
	FamilyFactory Family = "factory"
	// FamilyInputName holds factory bindings indexed by input type name.
	FamilyInputName Family = "inputname"
	// FamilyExtend holds per-domain-class extender sets.
	FamilyExtend Family = "extend"
	// FamilyExtendName holds extender sets indexed by the target's type name.
	FamilyExtendName Family = "extendname"
	// FamilySnapshot holds full-map snapshots with a short TTL.
	FamilySnapshot Family = "snapshot"
)

const keyPrefix = "typegraph"

// Key identifies a cache entry by family and entry identifier. Using a
// structured key instead of caller-concatenated strings keeps sanitization
// in one place.
type Key struct {
	Family Family
	ID     string
}

// String renders the key as "typegraph.<family>.<id>" with runes outside
// [A-Za-z0-9_.-] mapped to '_'.
func (k Key) String() string {
	return keyPrefix + "." + string(k.Family) + "." + sanitize(k.ID)
}

func sanitize(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '_', r == '.', r == '-':
			return r
		default:
			return '_'
		}
	}, id)
}

// Cache is the validity cache contract. Implementations must be safe for
// concurrent use from multiple workers. No transactional semantics: a Set
// may be skipped or evicted under memory pressure, and callers rebuild on
// any miss.
type Cache interface {
	// Get returns the value stored under key, or false when absent or
	// expired.
	Get(key Key) (interface{}, bool)
	// Set stores value under key. ttl <= 0 means no expiry.
	Set(key Key, value interface{}, ttl time.Duration)
	// Delete removes the entry stored under key, if any.
	Delete(key Key)
}
