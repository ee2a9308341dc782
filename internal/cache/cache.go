package cache

import (
	"context"
	"encoding/json"

	"resource_hub/internal/metrics"
)

// Cache tags used by the read and write paths.
const (
	TagResources  = "resources"
	TagCategories = "categories"
	TagSitemap    = "sitemap"
)

// Cache is a TTL key-value store with a tag-to-key index. Writing a key
// registers it under each tag; invalidating a tag evicts every key
// registered under it.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, tags []string) error
	InvalidateTags(ctx context.Context, tags ...string) error
}

// GetOrFetch returns the cached value under key, or runs fetch, stores the
// result under key with the given tags and returns it. A cache write
// failure does not fail the fetch.
func GetOrFetch[T any](ctx context.Context, c Cache, key string, tags []string, fetch func(ctx context.Context) (T, error)) (T, error) {
	if raw, ok := c.Get(ctx, key); ok {
		var cached T
		if err := json.Unmarshal(raw, &cached); err == nil {
			metrics.CacheHits.Inc()
			return cached, nil
		}
	}
	metrics.CacheMisses.Inc()

	result, err := fetch(ctx)
	if err != nil {
		return result, err
	}

	if raw, err := json.Marshal(result); err == nil {
		_ = c.Set(ctx, key, raw, tags)
	}

	return result, nil
}
