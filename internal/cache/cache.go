// Package cache memoizes boundary extraction results keyed by document
// content, so repeated navigation over an unchanged document never
// re-parses. Keys are content-derived, so edits miss naturally and no
// invalidation is needed beyond capacity eviction.
package cache

import (
	"container/list"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"sync/atomic"
)

// Kind identifies one extraction variety.
type Kind string

const (
	KindTags       Kind = "tags"
	KindAttributes Kind = "attributes"
)

// DefaultCapacity comfortably covers the distinct snapshots a user cycles
// through during undo/redo without thrashing.
const DefaultCapacity = 64

// Fingerprint returns the content fingerprint used in cache keys.
// Byte-identical text always fingerprints identically.
func Fingerprint(text []byte) string {
	sum := sha256.Sum256(text)
	return "sha256:" + hex.EncodeToString(sum[:])
}

type entry struct {
	key     string
	offsets []int
}

// Cache is a bounded LRU store mapping (fingerprint, kind) to a boundary
// offset list. Stored payloads are immutable; Get and Put exchange copies.
// Safe for concurrent use.
type Cache struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]*list.Element
	order    *list.List // front is most recently used

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// New creates a cache holding at most capacity entries. Non-positive
// capacities fall back to DefaultCapacity.
func New(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache{
		capacity: capacity,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
	}
}

// Get returns the cached offsets for the text and kind, refreshing the
// entry's recency. The returned slice is a copy.
func (c *Cache) Get(text []byte, kind Kind) ([]int, bool) {
	key := cacheKey(text, kind)

	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	c.order.MoveToFront(el)
	c.hits.Add(1)

	cached := el.Value.(*entry).offsets
	out := make([]int, len(cached))
	copy(out, cached)
	return out, true
}

// Put stores offsets for the text and kind, evicting least-recently-used
// entries past capacity. The slice is copied on admission.
func (c *Cache) Put(text []byte, kind Kind, offsets []int) {
	key := cacheKey(text, kind)
	stored := make([]int, len(offsets))
	copy(stored, offsets)

	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		el.Value.(*entry).offsets = stored
		c.order.MoveToFront(el)
		return
	}

	c.entries[key] = c.order.PushFront(&entry{key: key, offsets: stored})
	for c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*entry).key)
		c.evictions.Add(1)
	}
}

// Len returns the current number of entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Stats holds cache counters.
type Stats struct {
	Size      int
	Capacity  int
	Hits      uint64
	Misses    uint64
	Evictions uint64
	HitRate   float64
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() Stats {
	hits := c.hits.Load()
	misses := c.misses.Load()

	var hitRate float64
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	c.mu.Lock()
	size := c.order.Len()
	c.mu.Unlock()

	return Stats{
		Size:      size,
		Capacity:  c.capacity,
		Hits:      hits,
		Misses:    misses,
		Evictions: c.evictions.Load(),
		HitRate:   hitRate,
	}
}

func cacheKey(text []byte, kind Kind) string {
	return Fingerprint(text) + ":" + string(kind)
}
