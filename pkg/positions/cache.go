package positions

import "maps"

// Position is a 2D coordinate in layout space.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Cache maps node IDs to their last committed force-layout position.
//
// The zero value is not usable; use NewCache.
type Cache struct {
	entries map[string]Position
}

// NewCache creates an empty position cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]Position)}
}

// Get returns the cached position of a node.
func (c *Cache) Get(id string) (Position, bool) {
	p, ok := c.entries[id]
	return p, ok
}

// Set records the position of a node, replacing any previous entry.
func (c *Cache) Set(id string, p Position) {
	c.entries[id] = p
}

// SetAll records every position in the map.
func (c *Cache) SetAll(ps map[string]Position) {
	maps.Copy(c.entries, ps)
}

// Len returns the number of cached nodes.
func (c *Cache) Len() int { return len(c.entries) }

// Clear removes every entry.
func (c *Cache) Clear() { clear(c.entries) }

// CachedCount returns how many of ids have a cached position.
func (c *Cache) CachedCount(ids []string) int {
	n := 0
	for _, id := range ids {
		if _, ok := c.entries[id]; ok {
			n++
		}
	}
	return n
}

// HitRatio returns the fraction of ids with a cached position.
// An empty id list has a ratio of 0.
func (c *Cache) HitRatio(ids []string) float64 {
	if len(ids) == 0 {
		return 0
	}
	return float64(c.CachedCount(ids)) / float64(len(ids))
}

// Snapshot returns a copy of all entries.
func (c *Cache) Snapshot() map[string]Position {
	return maps.Clone(c.entries)
}

// Restore merges a snapshot into the cache. Existing entries for the same IDs
// are overwritten.
func (c *Cache) Restore(snap map[string]Position) {
	c.SetAll(snap)
}
