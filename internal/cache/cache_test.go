package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyString(t *testing.T) {
	tests := []struct {
		name     string
		key      Key
		expected string
	}{
		{
			name:     "plain identifier",
			key:      Key{Family: FamilyType, ID: "shop.User"},
			expected: "typegraph.type.shop.User",
		},
		{
			name:     "slashes and colons sanitized",
			key:      Key{Family: FamilyTypeName, ID: "shop/internal:User"},
			expected: "typegraph.typename.shop_internal_User",
		},
		{
			name:     "spaces and braces sanitized",
			key:      Key{Family: FamilySnapshot, ID: "a b{c}"},
			expected: "typegraph.snapshot.a_b_c_",
		},
		{
			name:     "dashes and underscores kept",
			key:      Key{Family: FamilyFactory, ID: "pkg-x_y.Factory"},
			expected: "typegraph.factory.pkg-x_y.Factory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.key.String())
		})
	}
}

func TestMemoryCache(t *testing.T) {
	t.Run("set then get", func(t *testing.T) {
		c := NewMemoryCache()
		c.Set(Key{Family: FamilyType, ID: "a"}, "value", 0)

		got, ok := c.Get(Key{Family: FamilyType, ID: "a"})
		require.True(t, ok)
		assert.Equal(t, "value", got)
	})

	t.Run("families do not collide", func(t *testing.T) {
		c := NewMemoryCache()
		c.Set(Key{Family: FamilyType, ID: "a"}, "type", 0)
		c.Set(Key{Family: FamilyFactory, ID: "a"}, "factory", 0)

		got, ok := c.Get(Key{Family: FamilyFactory, ID: "a"})
		require.True(t, ok)
		assert.Equal(t, "factory", got)
	})

	t.Run("entry expires after ttl", func(t *testing.T) {
		c := NewMemoryCache()
		current := time.Now()
		c.SetClock(func() time.Time { return current })

		c.Set(Key{Family: FamilySnapshot, ID: "types"}, "snap", 2*time.Second)

		_, ok := c.Get(Key{Family: FamilySnapshot, ID: "types"})
		assert.True(t, ok)

		current = current.Add(3 * time.Second)
		_, ok = c.Get(Key{Family: FamilySnapshot, ID: "types"})
		assert.False(t, ok)
	})

	t.Run("zero ttl never expires", func(t *testing.T) {
		c := NewMemoryCache()
		current := time.Now()
		c.SetClock(func() time.Time { return current })

		c.Set(Key{Family: FamilyType, ID: "a"}, "value", 0)
		current = current.Add(240 * time.Hour)

		_, ok := c.Get(Key{Family: FamilyType, ID: "a"})
		assert.True(t, ok)
	})

	t.Run("delete removes entry", func(t *testing.T) {
		c := NewMemoryCache()
		c.Set(Key{Family: FamilyType, ID: "a"}, "value", 0)
		c.Delete(Key{Family: FamilyType, ID: "a"})

		_, ok := c.Get(Key{Family: FamilyType, ID: "a"})
		assert.False(t, ok)
	})

	t.Run("get on absent key", func(t *testing.T) {
		c := NewMemoryCache()
		_, ok := c.Get(Key{Family: FamilyType, ID: "missing"})
		assert.False(t, ok)
	})
}

func TestLRUCache(t *testing.T) {
	t.Run("set then get", func(t *testing.T) {
		c, err := NewLRUCache(8)
		require.NoError(t, err)

		c.Set(Key{Family: FamilyType, ID: "a"}, "value", 0)
		got, ok := c.Get(Key{Family: FamilyType, ID: "a"})
		require.True(t, ok)
		assert.Equal(t, "value", got)
	})

	t.Run("oldest entry evicted at capacity", func(t *testing.T) {
		c, err := NewLRUCache(2)
		require.NoError(t, err)

		c.Set(Key{Family: FamilyType, ID: "a"}, 1, 0)
		c.Set(Key{Family: FamilyType, ID: "b"}, 2, 0)
		c.Set(Key{Family: FamilyType, ID: "c"}, 3, 0)

		_, ok := c.Get(Key{Family: FamilyType, ID: "a"})
		assert.False(t, ok, "oldest entry should be evicted")

		_, ok = c.Get(Key{Family: FamilyType, ID: "c"})
		assert.True(t, ok)
	})

	t.Run("entry expires after ttl", func(t *testing.T) {
		c, err := NewLRUCache(8)
		require.NoError(t, err)
		current := time.Now()
		c.now = func() time.Time { return current }

		c.Set(Key{Family: FamilySnapshot, ID: "types"}, "snap", time.Second)
		current = current.Add(2 * time.Second)

		_, ok := c.Get(Key{Family: FamilySnapshot, ID: "types"})
		assert.False(t, ok)
		assert.Equal(t, 0, c.Len())
	})
}

func TestRecordValid(t *testing.T) {
	t.Run("valid while mtime unchanged", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "user_type.go")
		require.NoError(t, os.WriteFile(path, []byte("package shop"), 0o600))

		rec := Record{
			Sources: []Source{NewSource(path, nil)},
			Domain:  "shop.User",
			Class:   "shop.UserType",
		}
		assert.True(t, rec.Valid(nil))
	})

	t.Run("stale after mtime change", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "user_type.go")
		require.NoError(t, os.WriteFile(path, []byte("package shop"), 0o600))

		rec := Record{Sources: []Source{NewSource(path, nil)}}
		require.True(t, rec.Valid(nil))

		later := time.Now().Add(5 * time.Second)
		require.NoError(t, os.Chtimes(path, later, later))
		assert.False(t, rec.Valid(nil))
	})

	t.Run("stale when file missing", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "user_type.go")
		require.NoError(t, os.WriteFile(path, []byte("package shop"), 0o600))

		rec := Record{Sources: []Source{NewSource(path, nil)}}
		require.NoError(t, os.Remove(path))
		assert.False(t, rec.Valid(nil))
	})

	t.Run("stale when any of several sources changes", func(t *testing.T) {
		dir := t.TempDir()
		a := filepath.Join(dir, "a.go")
		b := filepath.Join(dir, "b.go")
		require.NoError(t, os.WriteFile(a, []byte("package shop"), 0o600))
		require.NoError(t, os.WriteFile(b, []byte("package shop"), 0o600))

		rec := Record{Sources: []Source{NewSource(a, nil), NewSource(b, nil)}}
		require.True(t, rec.Valid(nil))

		later := time.Now().Add(5 * time.Second)
		require.NoError(t, os.Chtimes(b, later, later))
		assert.False(t, rec.Valid(nil))
	})

	t.Run("injected stat func", func(t *testing.T) {
		mtime := time.Unix(100, 0)
		stat := func(string) (time.Time, error) { return mtime, nil }

		rec := Record{Sources: []Source{{Path: "x.go", Mtime: mtime.UnixNano()}}}
		assert.True(t, rec.Valid(stat))

		mtime = time.Unix(200, 0)
		assert.False(t, rec.Valid(stat))
	})
}
