package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache backs the tag cache with redis: plain SET with TTL for
// values, one set per tag holding the keys written under it.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func tagKey(tag string) string {
	return "tag:" + tag
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	value, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return value, true
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, tags []string) error {
	const op = "cache.RedisCache.Set"

	if err := c.client.Set(ctx, key, value, c.ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	for _, tag := range tags {
		if err := c.client.SAdd(ctx, tagKey(tag), key).Err(); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if err := c.client.Expire(ctx, tagKey(tag), c.ttl).Err(); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	return nil
}

func (c *RedisCache) InvalidateTags(ctx context.Context, tags ...string) error {
	const op = "cache.RedisCache.InvalidateTags"

	for _, tag := range tags {
		keys, err := c.client.SMembers(ctx, tagKey(tag)).Result()
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}
		}
		if err := c.client.Del(ctx, tagKey(tag)).Err(); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	return nil
}
