package engine

import (
	"context"
	"time"

	"github.com/matzehuels/graphscope/pkg/observability"
	"github.com/matzehuels/graphscope/pkg/positions"
)

// snapshotIOTimeout bounds store round trips made on behalf of the engine.
const snapshotIOTimeout = 5 * time.Second

// Cache returns the engine's position cache. It must not be mutated while the
// engine is mounted.
func (e *Engine) Cache() *positions.Cache { return e.cache }

func (e *Engine) snapshotEnabled() bool {
	return e.opts.Store != nil && e.opts.Dataset != ""
}

// warmCache restores the persisted snapshot for the dataset into the cache.
func (e *Engine) warmCache(ctx context.Context) {
	if !e.snapshotEnabled() {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, snapshotIOTimeout)
	defer cancel()

	name := storeName(e.opts.Store)
	snap, ok, err := e.opts.Store.Load(ctx, positions.Key(e.opts.Dataset))
	if err != nil {
		e.logger.Warn("loading position snapshot failed", "store", name, "err", err)
		return
	}
	if !ok {
		observability.Cache().OnCacheMiss(ctx, name)
		return
	}
	observability.Cache().OnCacheHit(ctx, name)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return
	}
	e.cache.Restore(snap)
	e.logger.Debug("restored position snapshot", "store", name, "positions", len(snap))
}

func (e *Engine) snapshotLocked() map[string]positions.Position {
	if !e.snapshotEnabled() || e.cache.Len() == 0 {
		return nil
	}
	return e.cache.Snapshot()
}

// saveSnapshot persists snap. A nil snapshot is skipped.
func (e *Engine) saveSnapshot(ctx context.Context, snap map[string]positions.Position) {
	if snap == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, snapshotIOTimeout)
	defer cancel()

	name := storeName(e.opts.Store)
	if err := e.opts.Store.Save(ctx, positions.Key(e.opts.Dataset), snap, e.opts.SnapshotTTL); err != nil {
		e.logger.Warn("saving position snapshot failed", "store", name, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, name, len(snap))
}

func storeName(s positions.Store) string {
	switch s.(type) {
	case *positions.FileStore:
		return "file"
	case *positions.RedisStore:
		return "redis"
	case positions.NullStore, *positions.NullStore:
		return "none"
	default:
		return "custom"
	}
}
