// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"dashboard_backend/internal/feature/datasets/domain/entity"
	"dashboard_backend/internal/feature/datasets/usecase"
)

// CachingObservationRepository decorates an ObservationRepository with Redis
// caching of series reads. It implements the decorator pattern, transparently
// adding caching without modifying the underlying repository.
type CachingObservationRepository struct {
	inner     usecase.ObservationRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

// CachingObservationRepositoryがObservationRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.ObservationRepository = (*CachingObservationRepository)(nil)

// NewCachingObservationRepository decorates an ObservationRepository with
// Redis caching. If ttl is 0, it defaults to 15 minutes. If namespace is
// empty, it uses "series".
func NewCachingObservationRepository(rdb *redis.Client, ttl time.Duration, inner usecase.ObservationRepository, namespace string) *CachingObservationRepository {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	if namespace == "" {
		namespace = "series"
	}
	return &CachingObservationRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// UpsertDataset delegates to the underlying repository.
func (c *CachingObservationRepository) UpsertDataset(ctx context.Context, d entity.Dataset) error {
	return c.inner.UpsertDataset(ctx, d)
}

// ListDatasets delegates to the underlying repository.
func (c *CachingObservationRepository) ListDatasets(ctx context.Context) ([]entity.Dataset, error) {
	return c.inner.ListDatasets(ctx)
}

// GetDataset delegates to the underlying repository.
func (c *CachingObservationRepository) GetDataset(ctx context.Context, slug string) (entity.Dataset, error) {
	return c.inner.GetDataset(ctx, slug)
}

// ListSeries delegates to the underlying repository.
func (c *CachingObservationRepository) ListSeries(ctx context.Context, dataset string) ([]string, error) {
	return c.inner.ListSeries(ctx, dataset)
}

// UpsertBatch inserts or updates observations and invalidates related cache entries.
func (c *CachingObservationRepository) UpsertBatch(ctx context.Context, obs []entity.Observation) error {
	// First upsert to the underlying repository
	if err := c.inner.UpsertBatch(ctx, obs); err != nil {
		return err
	}
	// Exit early if Redis is not configured or there is nothing to invalidate
	if c.rdb == nil || len(obs) == 0 {
		return nil
	}

	// Invalidate affected cache entries (keys per dataset)
	seen := map[string]struct{}{}
	for _, o := range obs {
		prefix := c.cacheKeyPrefix(o.Dataset)
		if _, ok := seen[prefix]; ok {
			continue
		}
		seen[prefix] = struct{}{}
		_ = c.deleteByPattern(ctx, prefix+"*") // Best effort: don't fail if cache deletion fails
	}
	return nil
}

// FindSeries retrieves a series, checking cache first then falling back to the database.
func (c *CachingObservationRepository) FindSeries(ctx context.Context, dataset, series string) ([]entity.Observation, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.FindSeries(ctx, dataset, series)
	}

	key := c.cacheKey(dataset, series)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.Observation
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to database
	out, err := c.inner.FindSeries(ctx, dataset, series)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

// cacheKey generates a cache key for a specific series.
func (c *CachingObservationRepository) cacheKey(dataset, series string) string {
	return fmt.Sprintf("%s:%s:%s", c.namespace, safe(dataset), safe(series))
}

// cacheKeyPrefix generates a prefix for invalidating a dataset's entries.
func (c *CachingObservationRepository) cacheKeyPrefix(dataset string) string {
	return fmt.Sprintf("%s:%s:", c.namespace, safe(dataset))
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingObservationRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
