// Package rowcache provides a bounded associative cache keyed by paragraph
// index. It is used for materialized rows and for per-paragraph side
// decoration labels, so a row scrolled back into view is not rebuilt.
//
// The cache has no synchronization. It is owned by the window controller
// and mutated only from its reflow.
package rowcache

import (
	"sort"
)

// DefaultCapacity is the default number of cached entries.
const DefaultCapacity = 512

// Config configures the cache behavior.
type Config struct {
	// Capacity is the maximum number of entries kept.
	Capacity int

	// EvictionBatchSize is the number of extra entries evicted once the
	// capacity is exceeded, so eviction does not run on every insert.
	EvictionBatchSize int
}

// DefaultConfig returns the default cache configuration.
func DefaultConfig() Config {
	return Config{
		Capacity:          DefaultCapacity,
		EvictionBatchSize: 32,
	}
}

type entry[T any] struct {
	value  T
	access uint64
}

// Cache maps paragraph indices to values of type T.
// Eviction removes the least recently accessed entries first.
type Cache[T any] struct {
	config  Config
	entries map[int]*entry[T]

	// clock orders accesses; it increments on every Get hit and Put.
	clock uint64

	hits      uint64
	misses    uint64
	evictions uint64
}

// New creates a cache with the given configuration.
func New[T any](config Config) *Cache[T] {
	if config.Capacity <= 0 {
		config.Capacity = DefaultCapacity
	}
	if config.EvictionBatchSize < 0 {
		config.EvictionBatchSize = 0
	}
	if config.EvictionBatchSize >= config.Capacity {
		config.EvictionBatchSize = config.Capacity / 2
	}
	return &Cache[T]{
		config:  config,
		entries: make(map[int]*entry[T], config.Capacity),
	}
}

// Get returns the value cached for index. A miss is reported by ok == false
// and is not an error.
func (c *Cache[T]) Get(index int) (value T, ok bool) {
	e, ok := c.entries[index]
	if !ok {
		c.misses++
		return value, false
	}
	c.clock++
	e.access = c.clock
	c.hits++
	return e.value, true
}

// Put inserts or replaces the value for index. The cache never holds more
// than its capacity once Put returns.
func (c *Cache[T]) Put(index int, value T) {
	c.clock++
	if e, ok := c.entries[index]; ok {
		e.value = value
		e.access = c.clock
		return
	}
	c.entries[index] = &entry[T]{value: value, access: c.clock}
	c.evictIfNeeded()
}

// Remove drops the entry for index, if any.
func (c *Cache[T]) Remove(index int) {
	delete(c.entries, index)
}

// Clear removes all entries. Statistics are kept.
func (c *Cache[T]) Clear() {
	c.entries = make(map[int]*entry[T], c.config.Capacity)
}

// Len returns the number of cached entries.
func (c *Cache[T]) Len() int {
	return len(c.entries)
}

// Capacity returns the maximum number of entries.
func (c *Cache[T]) Capacity() int {
	return c.config.Capacity
}

// evictIfNeeded evicts the oldest entries if the cache is too large.
func (c *Cache[T]) evictIfNeeded() {
	if len(c.entries) <= c.config.Capacity {
		return
	}

	type entryInfo struct {
		index  int
		access uint64
	}

	infos := make([]entryInfo, 0, len(c.entries))
	for index, e := range c.entries {
		infos = append(infos, entryInfo{index, e.access})
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].access < infos[j].access
	})

	toEvict := len(c.entries) - c.config.Capacity + c.config.EvictionBatchSize
	if toEvict > len(infos) {
		toEvict = len(infos)
	}
	for i := 0; i < toEvict; i++ {
		delete(c.entries, infos[i].index)
	}
	c.evictions += uint64(toEvict)
}

// Stats returns cache statistics.
func (c *Cache[T]) Stats() Stats {
	total := c.hits + c.misses
	var hitRate float64
	if total > 0 {
		hitRate = float64(c.hits) / float64(total)
	}
	return Stats{
		Size:      len(c.entries),
		Capacity:  c.config.Capacity,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		HitRate:   hitRate,
	}
}

// Stats holds cache statistics.
type Stats struct {
	Size      int
	Capacity  int
	Hits      uint64
	Misses    uint64
	Evictions uint64
	HitRate   float64
}
