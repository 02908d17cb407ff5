package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, ttl time.Duration) *Cache {
	t.Helper()

	c, err := New(t.TempDir(), ttl, true)
	require.NoError(t, err)
	return c
}

func TestCacheRoundTrip(t *testing.T) {
	c := newTestCache(t, time.Hour)

	key := Key("/repo/path", 500)
	require.NoError(t, c.Set(key, "abc123", []byte(`{"ok":true}`)))

	data, ok := c.Get(key, "abc123")
	require.True(t, ok)
	assert.Equal(t, []byte(`{"ok":true}`), data)
}

func TestCacheMissOnUnknownKey(t *testing.T) {
	c := newTestCache(t, time.Hour)

	_, ok := c.Get(Key("/never/seen", 500), "abc123")
	assert.False(t, ok)
}

func TestCacheMissOnHeadChange(t *testing.T) {
	c := newTestCache(t, time.Hour)

	key := Key("/repo/path", 500)
	require.NoError(t, c.Set(key, "abc123", []byte("old")))

	_, ok := c.Get(key, "def456")
	assert.False(t, ok)
}

func TestCacheExpiry(t *testing.T) {
	c := newTestCache(t, time.Nanosecond)

	key := Key("/repo/path", 500)
	require.NoError(t, c.Set(key, "abc123", []byte("data")))

	time.Sleep(10 * time.Millisecond)
	_, ok := c.Get(key, "abc123")
	assert.False(t, ok)
}

func TestCacheKeyVariesWithBounds(t *testing.T) {
	assert.NotEqual(t, Key("/repo", 100), Key("/repo", 500))
	assert.NotEqual(t, Key("/repo", 100), Key("/other", 100))
}

func TestCacheInvalidate(t *testing.T) {
	c := newTestCache(t, time.Hour)

	key := Key("/repo/path", 500)
	require.NoError(t, c.Set(key, "abc123", []byte("data")))
	require.NoError(t, c.Invalidate(key))

	_, ok := c.Get(key, "abc123")
	assert.False(t, ok)

	// Invalidating a missing entry is not an error.
	assert.NoError(t, c.Invalidate(key))
}

func TestCacheClear(t *testing.T) {
	c := newTestCache(t, time.Hour)

	require.NoError(t, c.Set(Key("/a", 1), "h1", []byte("1")))
	require.NoError(t, c.Set(Key("/b", 1), "h2", []byte("2")))
	require.NoError(t, c.Clear())

	_, ok := c.Get(Key("/a", 1), "h1")
	assert.False(t, ok)
}

func TestCacheDisabled(t *testing.T) {
	c, err := New("", time.Hour, false)
	require.NoError(t, err)

	key := Key("/repo", 500)
	assert.NoError(t, c.Set(key, "abc", []byte("data")))

	_, ok := c.Get(key, "abc")
	assert.False(t, ok)

	stats, err := c.GetStats()
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Entries)
}

func TestCacheStats(t *testing.T) {
	c := newTestCache(t, time.Hour)

	require.NoError(t, c.Set(Key("/a", 1), "h1", []byte("one")))
	require.NoError(t, c.Set(Key("/b", 1), "h2", []byte("two")))

	stats, err := c.GetStats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Entries)
	assert.Greater(t, stats.TotalSize, int64(0))
}
