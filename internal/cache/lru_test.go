package cache

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"spendwise/internal/log"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time { return f.t }

func newTestCache(size int, ttl time.Duration) (*LRUCache[string], *fakeClock) {
	clk := &fakeClock{t: time.Date(2025, 7, 20, 12, 0, 0, 0, time.UTC)}
	c := NewLRUCache[string](size, ttl)
	c.now = clk.now
	return c, clk
}

func TestLRUCache_GetSet(t *testing.T) {
	c, _ := newTestCache(2, time.Minute)

	c.Set("a", "1")
	got, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "1", got)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestLRUCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c, _ := newTestCache(2, time.Minute)

	c.Set("a", "1")
	c.Set("b", "2")
	c.Get("a")
	c.Set("c", "3")

	_, ok := c.Get("b")
	assert.False(t, ok, "b should have been evicted")
	_, ok = c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 2, c.Size())
}

func TestLRUCache_Expiry(t *testing.T) {
	c, clk := newTestCache(4, time.Minute)

	c.Set("a", "1")
	c.Set("b", "2")
	clk.t = clk.t.Add(time.Minute)

	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 1, c.CleanExpired())
	assert.Equal(t, 0, c.Size())
}

func TestLRUCache_ZeroTTLDisables(t *testing.T) {
	c, _ := newTestCache(4, 0)
	c.Set("a", "1")
	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestLRUCache_DeleteAndPurge(t *testing.T) {
	c, _ := newTestCache(4, time.Minute)
	c.Set("a", "1")
	c.Set("b", "2")

	c.Delete("a")
	assert.Equal(t, 1, c.Size())

	c.Purge()
	assert.Equal(t, 0, c.Size())
	c.Set("c", "3")
	assert.Equal(t, 1, c.Size())
}

func TestManager_Sweep(t *testing.T) {
	logger := log.New(log.Config{Output: &bytes.Buffer{}})
	c, clk := newTestCache(4, time.Second)
	c.Set("a", "1")

	m := NewManager(logger)
	m.Register(c)
	clk.t = clk.t.Add(2 * time.Second)

	assert.Equal(t, 1, m.Sweep())

	m.StartCleanup(time.Hour)
	m.Stop()
	m.Stop()
}

func TestLRUCache_InvalidateTag(t *testing.T) {
	c, _ := newTestCache(8, time.Minute)
	c.SetTagged("june", "j", "month:2025-06")
	c.SetTagged("july", "k", "month:2025-07")
	c.SetTagged("monthly", "m", "all")
	c.SetTagged("july-csv", "c", "month:2025-07", "all")

	assert.Equal(t, 2, c.InvalidateTag("month:2025-07"))
	_, ok := c.Get("july")
	assert.False(t, ok)
	_, ok = c.Get("june")
	assert.True(t, ok, "other months stay cached")

	assert.Equal(t, 1, c.InvalidateTag("all"), "july-csv already went with its month")
	assert.Equal(t, 0, c.InvalidateTag("unknown"))
	assert.Equal(t, 1, c.Size())
}

func TestLRUCache_RetagOnOverwrite(t *testing.T) {
	c, _ := newTestCache(4, time.Minute)
	c.SetTagged("a", "1", "x")
	c.SetTagged("a", "2", "y")

	assert.Equal(t, 0, c.InvalidateTag("x"))
	got, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "2", got)
	assert.Equal(t, 1, c.InvalidateTag("y"))
}

func TestLRUCache_EvictionClearsTags(t *testing.T) {
	c, _ := newTestCache(1, time.Minute)
	c.SetTagged("a", "1", "x")
	c.SetTagged("b", "2", "x")

	assert.Equal(t, 1, c.InvalidateTag("x"))
	assert.Equal(t, 0, c.Size())
}

func TestLRUCache_SetTaggedAtGeneration(t *testing.T) {
	c, _ := newTestCache(4, time.Minute)

	gen := c.Generation()
	assert.True(t, c.SetTaggedAt(gen, "a", "1", "month:2025-07"))

	stale := c.Generation()
	c.InvalidateTag("month:2025-06")
	assert.False(t, c.SetTaggedAt(stale, "b", "2", "all"), "any invalidation since the read discards the value")
	_, ok := c.Get("b")
	assert.False(t, ok)

	c.Purge()
	assert.False(t, c.SetTaggedAt(stale, "b", "2"))
	assert.True(t, c.SetTaggedAt(c.Generation(), "b", "2"))
}
