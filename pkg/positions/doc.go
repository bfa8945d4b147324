// Package positions remembers where nodes were drawn.
//
// # Cache
//
// [Cache] maps node IDs to the last coordinate committed by a force-directed
// layout pass. Each mounted engine owns exactly one Cache; it is never shared
// between engine instances, so two graphs shown side by side cannot leak
// coordinates into each other. The cache survives data updates: when a filter
// removes or re-adds a handful of nodes, the layout engine reuses the cached
// coordinates instead of re-solving, which keeps the picture from jumping.
//
// Only force-directed passes write to the cache. Circular and radial layouts
// are a pure function of topology and need no memory.
//
// # Stores
//
// A [Store] persists cache snapshots across process lifetimes so a freshly
// started host can warm a new engine's cache:
//
//   - [NullStore]: no persistence (default)
//   - [FileStore]: JSON files under a directory (CLI usage)
//   - [RedisStore]: Redis keys with TTL (server usage)
//
// Snapshots are keyed by [Key], a SHA-256 of the dataset name.
//
// # Concurrency
//
// Cache is not safe for concurrent use; the engine serializes access. Store
// implementations are safe for concurrent use.
package positions
