package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_SetGet(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Minute)

	require.NoError(t, c.Set(ctx, "resources:page:1:6", []byte(`{"a":1}`), []string{TagResources}))

	value, ok := c.Get(ctx, "resources:page:1:6")
	require.True(t, ok)
	assert.Equal(t, []byte(`{"a":1}`), value)

	_, ok = c.Get(ctx, "missing")
	assert.False(t, ok)
}

func TestMemoryCache_InvalidateTags(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Minute)

	require.NoError(t, c.Set(ctx, "resources:page:1:6", []byte("a"), []string{TagResources}))
	require.NoError(t, c.Set(ctx, "categories:counts", []byte("b"), []string{TagCategories, TagResources}))
	require.NoError(t, c.Set(ctx, "sitemap:entries", []byte("c"), []string{TagSitemap}))

	require.NoError(t, c.InvalidateTags(ctx, TagResources))

	_, ok := c.Get(ctx, "resources:page:1:6")
	assert.False(t, ok)
	_, ok = c.Get(ctx, "categories:counts")
	assert.False(t, ok, "key registered under two tags goes with either")

	value, ok := c.Get(ctx, "sitemap:entries")
	require.True(t, ok, "untagged survivors stay")
	assert.Equal(t, []byte("c"), value)
}

func TestMemoryCache_InvalidateUnknownTag(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Minute)

	assert.NoError(t, c.InvalidateTags(ctx, "never-written"))
}

func TestGetOrFetch(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Minute)

	calls := 0
	fetch := func(ctx context.Context) (map[string]int, error) {
		calls++
		return map[string]int{"total": 7}, nil
	}

	first, err := GetOrFetch(ctx, c, "k", []string{TagResources}, fetch)
	require.NoError(t, err)
	assert.Equal(t, 7, first["total"])

	second, err := GetOrFetch(ctx, c, "k", []string{TagResources}, fetch)
	require.NoError(t, err)
	assert.Equal(t, 7, second["total"])
	assert.Equal(t, 1, calls, "second read must come from cache")

	require.NoError(t, c.InvalidateTags(ctx, TagResources))

	_, err = GetOrFetch(ctx, c, "k", []string{TagResources}, fetch)
	require.NoError(t, err)
	assert.Equal(t, 2, calls, "invalidation forces a refetch")
}
