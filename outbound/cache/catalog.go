// Package cache keeps engine state in redis: catalog snapshots, submission
// locks and located-ticket sessions.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"turnos/common/constant"
	"turnos/model"

	"github.com/redis/go-redis/v9"
)

// CatalogCache stores each category's entries as one JSON value, so a reader
// gets either the previous or the new snapshot.
type CatalogCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCatalogCache(rdb *redis.Client, ttl time.Duration) *CatalogCache {
	if ttl <= 0 {
		ttl = constant.CatalogDefaultTTL
	}
	return &CatalogCache{rdb: rdb, ttl: ttl}
}

func catalogKey(category model.Category) string {
	return fmt.Sprintf(constant.CatalogEntriesKey, category)
}

func (c *CatalogCache) Get(ctx context.Context, category model.Category) ([]model.CatalogEntry, bool, error) {
	data, err := c.rdb.Get(ctx, catalogKey(category)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var entries []model.CatalogEntry
	if err := json.Unmarshal([]byte(data), &entries); err != nil {
		return nil, false, err
	}
	return entries, true, nil
}

func (c *CatalogCache) Set(ctx context.Context, category model.Category, entries []model.CatalogEntry) error {
	if entries == nil {
		entries = []model.CatalogEntry{}
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, catalogKey(category), string(data), c.ttl).Err()
}

func (c *CatalogCache) Invalidate(ctx context.Context, category model.Category) error {
	return c.rdb.Del(ctx, catalogKey(category)).Err()
}
