package cache

import (
	"container/list"
	"sync"
	"time"
)

// LRUCache holds report renderings keyed by request, bounded by size and TTL.
// Entries may carry tags so that a write can drop only the renderings it
// affects. A non-positive TTL disables storage entirely.
//
// Every invalidation advances a generation counter. A caller that renders
// outside the lock reads Generation first and stores with SetTaggedAt, which
// discards the value if an invalidation happened in between.
type LRUCache[T any] struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	now     func() time.Time
	entries map[string]*list.Element
	order   *list.List
	tagged  map[string]map[string]struct{}
	gen     uint64
}

type entry[T any] struct {
	key     string
	value   T
	tags    []string
	expires time.Time
}

func NewLRUCache[T any](maxSize int, ttl time.Duration) *LRUCache[T] {
	if maxSize < 1 {
		maxSize = 1
	}
	return &LRUCache[T]{
		maxSize: maxSize,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]*list.Element),
		order:   list.New(),
		tagged:  make(map[string]map[string]struct{}),
	}
}

// Get returns a live entry and marks it most recently used.
func (c *LRUCache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	el, ok := c.entries[key]
	if !ok {
		return zero, false
	}
	e := el.Value.(*entry[T])
	if !c.now().Before(e.expires) {
		c.drop(el)
		return zero, false
	}
	c.order.MoveToFront(el)
	return e.value, true
}

func (c *LRUCache[T]) Set(key string, value T) {
	c.SetTagged(key, value)
}

// SetTagged stores value under key and indexes it by each tag.
func (c *LRUCache[T]) SetTagged(key string, value T, tags ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store(key, value, tags)
}

// Generation returns the current invalidation count.
func (c *LRUCache[T]) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// SetTaggedAt stores value only if no invalidation happened since gen was
// read. It reports whether the value was stored.
func (c *LRUCache[T]) SetTaggedAt(gen uint64, key string, value T, tags ...string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return false
	}
	return c.store(key, value, tags)
}

// store inserts value. Caller holds mu.
func (c *LRUCache[T]) store(key string, value T, tags []string) bool {
	if c.ttl <= 0 {
		return false
	}
	if el, ok := c.entries[key]; ok {
		c.drop(el)
	}

	el := c.order.PushFront(&entry[T]{
		key:     key,
		value:   value,
		tags:    tags,
		expires: c.now().Add(c.ttl),
	})
	c.entries[key] = el
	for _, tag := range tags {
		keys, ok := c.tagged[tag]
		if !ok {
			keys = make(map[string]struct{})
			c.tagged[tag] = keys
		}
		keys[key] = struct{}{}
	}

	for c.order.Len() > c.maxSize {
		c.drop(c.order.Back())
	}
	return true
}

func (c *LRUCache[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.entries[key]; ok {
		c.drop(el)
	}
}

// InvalidateTag drops every entry carrying tag and returns how many went.
func (c *LRUCache[T]) InvalidateTag(tag string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	n := 0
	for key := range c.tagged[tag] {
		if el, ok := c.entries[key]; ok {
			c.drop(el)
			n++
		}
	}
	delete(c.tagged, tag)
	return n
}

// Purge drops every entry.
func (c *LRUCache[T]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.entries = make(map[string]*list.Element)
	c.tagged = make(map[string]map[string]struct{})
	c.order.Init()
}

// drop unlinks el from the list, the key map and the tag index. Caller holds mu.
func (c *LRUCache[T]) drop(el *list.Element) {
	e := el.Value.(*entry[T])
	delete(c.entries, e.key)
	c.order.Remove(el)
	for _, tag := range e.tags {
		if keys, ok := c.tagged[tag]; ok {
			delete(keys, e.key)
			if len(keys) == 0 {
				delete(c.tagged, tag)
			}
		}
	}
}

// CleanExpired removes expired entries and reports how many were removed.
func (c *LRUCache[T]) CleanExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for el := c.order.Back(); el != nil; {
		prev := el.Prev()
		if !now.Before(el.Value.(*entry[T]).expires) {
			c.drop(el)
			removed++
		}
		el = prev
	}
	return removed
}

func (c *LRUCache[T]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
