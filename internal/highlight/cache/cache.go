// Package cache memoizes renderable decoration templates so repeated scans
// with identical class and attribute combinations reuse one object.
//
// The cache is bounded: when it grows past capacity the oldest entries are
// evicted down to the retain count. Eviction is a performance contract, not
// a correctness one; evicted entries are recomputed on next use.
package cache

import (
	"sort"
	"strings"

	"github.com/dshills/hilite/internal/highlight/region"
)

const (
	// DefaultCapacity is the entry count that triggers eviction.
	DefaultCapacity = 100

	// DefaultRetain is the number of most-recent entries kept on eviction.
	DefaultRetain = 50
)

type key struct {
	variant region.Variant
	class   string
	attrs   string
}

type entry struct {
	deco *region.Decoration

	// seq is the recency stamp; higher is more recent.
	seq uint64
}

// Cache is a bounded decoration memo. It is not safe for concurrent use;
// the engine is single-threaded by contract.
type Cache struct {
	entries  map[key]*entry
	capacity int
	retain   int
	seq      uint64

	hits      uint64
	misses    uint64
	evictions uint64
}

// New creates a cache with the default bounds.
func New() *Cache {
	return NewWithBounds(DefaultCapacity, DefaultRetain)
}

// NewWithBounds creates a cache with explicit bounds. Retain is clamped
// below capacity.
func NewWithBounds(capacity, retain int) *Cache {
	if capacity < 1 {
		capacity = 1
	}
	if retain < 0 {
		retain = 0
	}
	if retain > capacity {
		retain = capacity
	}
	return &Cache{
		entries:  make(map[key]*entry),
		capacity: capacity,
		retain:   retain,
	}
}

// Get returns the decoration template for the given descriptor, creating
// it on first use. Repeated calls with an equal descriptor return the same
// pointer until eviction.
func (c *Cache) Get(variant region.Variant, class string, attrs map[string]string) *region.Decoration {
	k := key{variant: variant, class: class, attrs: serializeAttrs(attrs)}

	c.seq++
	if e, ok := c.entries[k]; ok {
		e.seq = c.seq
		c.hits++
		return e.deco
	}

	c.misses++
	deco := &region.Decoration{
		Variant: variant,
		Class:   class,
		Attrs:   attrs,
	}
	c.entries[k] = &entry{deco: deco, seq: c.seq}
	return deco
}

// Evict trims the cache down to the retain count if it has grown past
// capacity, dropping least-recently-used entries. Run at the end of every
// scan pass.
func (c *Cache) Evict() {
	if len(c.entries) <= c.capacity {
		return
	}

	type stamped struct {
		k   key
		seq uint64
	}
	all := make([]stamped, 0, len(c.entries))
	for k, e := range c.entries {
		all = append(all, stamped{k: k, seq: e.seq})
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].seq > all[j].seq
	})

	for _, s := range all[c.retain:] {
		delete(c.entries, s.k)
		c.evictions++
	}
}

// Len returns the current entry count.
func (c *Cache) Len() int {
	return len(c.entries)
}

// Stats holds cache counters.
type Stats struct {
	Size      int
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// Stats returns current counters.
func (c *Cache) Stats() Stats {
	return Stats{
		Size:      len(c.entries),
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
}

// serializeAttrs produces a canonical attribute string so equal attribute
// maps key identically.
func serializeAttrs(attrs map[string]string) string {
	if len(attrs) == 0 {
		return ""
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('\x00')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(attrs[k])
	}
	return b.String()
}
