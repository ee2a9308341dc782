package cache

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache is the in-process backend: a go-cache TTL store plus a
// mutex-guarded tag-to-key-set index. Keys evicted by TTL stay in the
// index until the tag is next invalidated; a stale index entry only
// causes a redundant delete.
type MemoryCache struct {
	store *gocache.Cache

	mu   sync.Mutex
	tags map[string]map[string]struct{}
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		store: gocache.New(ttl, ttl/2),
		tags:  make(map[string]map[string]struct{}),
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	value, ok := c.store.Get(key)
	if !ok {
		return nil, false
	}
	return value.([]byte), true
}

func (c *MemoryCache) Set(_ context.Context, key string, value []byte, tags []string) error {
	c.store.Set(key, value, gocache.DefaultExpiration)

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, tag := range tags {
		keys, ok := c.tags[tag]
		if !ok {
			keys = make(map[string]struct{})
			c.tags[tag] = keys
		}
		keys[key] = struct{}{}
	}

	return nil
}

func (c *MemoryCache) InvalidateTags(_ context.Context, tags ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, tag := range tags {
		for key := range c.tags[tag] {
			c.store.Delete(key)
		}
		delete(c.tags, tag)
	}

	return nil
}
