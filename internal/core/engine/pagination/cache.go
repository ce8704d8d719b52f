package pagination

import (
	"container/list"
	"sync"
	"time"
)

// cacheEntry is the measurement cache entry of spec §3: height plus the
// content hash it was computed from, and bookkeeping for LRU eviction.
type cacheEntry struct {
	pos            uint64
	height         float64
	contentHash    uint64
	measuredAt     time.Time
	lastAccessedAt time.Time
}

// CacheStats mirrors the hits/misses/size/hitRate the example pack's object
// caches (e.g. pagerange.PageObjectCache) report.
type CacheStats struct {
	Hits    int64
	Misses  int64
	Size    int
	HitRate float64
}

// measurementCache is a bounded, position-keyed LRU cache. It is built on
// container/list the same way the pack's pagerange.PageObjectCache is: a
// map for O(1) lookup plus an intrusive doubly linked list for recency
// ordering, so eviction never has to scan the whole cache.
type measurementCache struct {
	mu         sync.Mutex
	entries    map[uint64]*list.Element // pos -> list element wrapping *cacheEntry
	order      *list.List               // front = most recently used
	maxEntries int
	hits       int64
	misses     int64
}

func newMeasurementCache(maxEntries int) *measurementCache {
	if maxEntries <= 0 {
		maxEntries = 500
	}
	return &measurementCache{
		entries:    make(map[uint64]*list.Element),
		order:      list.New(),
		maxEntries: maxEntries,
	}
}

// lookup returns the cached height for pos if it exists and its stored hash
// matches wantHash. A mismatched hash evicts the stale entry (spec §3:
// "otherwise the entry is evicted and replaced").
func (c *measurementCache) lookup(pos uint64, wantHash uint64, now time.Time) (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[pos]
	if !ok {
		c.misses++
		return 0, false
	}
	entry := el.Value.(*cacheEntry)
	if entry.contentHash != wantHash {
		c.order.Remove(el)
		delete(c.entries, pos)
		c.misses++
		return 0, false
	}

	entry.lastAccessedAt = now
	c.order.MoveToFront(el)
	c.hits++
	return entry.height, true
}

// store inserts or replaces the entry for pos, evicting the oldest 10% by
// lastAccessedAt when the cache is at capacity (spec §4.1 "Cache policy").
func (c *measurementCache) store(pos uint64, height float64, hash uint64, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[pos]; ok {
		entry := el.Value.(*cacheEntry)
		entry.height = height
		entry.contentHash = hash
		entry.measuredAt = now
		entry.lastAccessedAt = now
		c.order.MoveToFront(el)
		return
	}

	if len(c.entries) >= c.maxEntries {
		c.evictOldest(c.maxEntries / 10)
	}

	entry := &cacheEntry{
		pos:            pos,
		height:         height,
		contentHash:    hash,
		measuredAt:     now,
		lastAccessedAt: now,
	}
	el := c.order.PushFront(entry)
	c.entries[pos] = el
}

// evictOldest removes up to n entries with the oldest lastAccessedAt,
// always evicting at least one so an insert never gets stuck at capacity.
func (c *measurementCache) evictOldest(n int) {
	if n < 1 {
		n = 1
	}
	type aged struct {
		el  *list.Element
		pos uint64
		at  time.Time
	}
	candidates := make([]aged, 0, c.order.Len())
	for el := c.order.Back(); el != nil; el = el.Prev() {
		entry := el.Value.(*cacheEntry)
		candidates = append(candidates, aged{el: el, pos: entry.pos, at: entry.lastAccessedAt})
	}
	for i := 0; i < n && i < len(candidates); i++ {
		oldest := candidates[i]
		c.order.Remove(oldest.el)
		delete(c.entries, oldest.pos)
	}
}

// invalidateRange evicts every entry whose pos falls within [from, to].
func (c *measurementCache) invalidateRange(from, to uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var toRemove []*list.Element
	for el := c.order.Front(); el != nil; el = el.Next() {
		entry := el.Value.(*cacheEntry)
		if entry.pos >= from && entry.pos <= to {
			toRemove = append(toRemove, el)
		}
	}
	for _, el := range toRemove {
		entry := el.Value.(*cacheEntry)
		delete(c.entries, entry.pos)
		c.order.Remove(el)
	}
}

func (c *measurementCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[uint64]*list.Element)
	c.order.Init()
	c.hits = 0
	c.misses = 0
}

func (c *measurementCache) stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := c.hits + c.misses
	hitRate := 0.0
	if total > 0 {
		hitRate = float64(c.hits) / float64(total)
	}
	return CacheStats{
		Hits:    c.hits,
		Misses:  c.misses,
		Size:    len(c.entries),
		HitRate: hitRate,
	}
}
