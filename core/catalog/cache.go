package catalog

import (
	"context"
	"sync"
	"sync/atomic"

	"turnos/model"
)

// Cache holds one snapshot of entries per category. Set replaces the whole
// snapshot so readers never observe a partial list.
type Cache interface {
	Get(ctx context.Context, category model.Category) ([]model.CatalogEntry, bool, error)
	Set(ctx context.Context, category model.Category, entries []model.CatalogEntry) error
	Invalidate(ctx context.Context, category model.Category) error
}

// MemoryCache keeps lock-free snapshots behind atomic pointers.
type MemoryCache struct {
	mu        sync.Mutex
	snapshots map[model.Category]*atomic.Pointer[[]model.CatalogEntry]
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{snapshots: make(map[model.Category]*atomic.Pointer[[]model.CatalogEntry])}
}

func (c *MemoryCache) slot(category model.Category) *atomic.Pointer[[]model.CatalogEntry] {
	c.mu.Lock()
	defer c.mu.Unlock()

	ptr, ok := c.snapshots[category]
	if !ok {
		ptr = &atomic.Pointer[[]model.CatalogEntry]{}
		c.snapshots[category] = ptr
	}
	return ptr
}

func (c *MemoryCache) Get(_ context.Context, category model.Category) ([]model.CatalogEntry, bool, error) {
	entries := c.slot(category).Load()
	if entries == nil {
		return nil, false, nil
	}
	return cloneEntries(*entries), true, nil
}

func (c *MemoryCache) Set(_ context.Context, category model.Category, entries []model.CatalogEntry) error {
	snapshot := cloneEntries(entries)
	c.slot(category).Store(&snapshot)
	return nil
}

func (c *MemoryCache) Invalidate(_ context.Context, category model.Category) error {
	c.slot(category).Store(nil)
	return nil
}

func cloneEntries(entries []model.CatalogEntry) []model.CatalogEntry {
	out := make([]model.CatalogEntry, len(entries))
	copy(out, entries)
	return out
}
