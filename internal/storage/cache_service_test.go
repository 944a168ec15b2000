package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestCache(t *testing.T, ttl time.Duration) (*CacheService, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewCacheService(NewRedisCacheFromClient(client), ttl), mr
}

func TestCacheService_GenerateCacheKey(t *testing.T) {
	cache, _ := setupTestCache(t, time.Minute)

	key := cache.GenerateCacheKey(CacheKeyAssetMetrics, "CompanyX", "plan")
	assert.Equal(t, "asset-metrics:companyx:plan", key)

	trimmed := cache.GenerateCacheKey(CacheKeyAssetDetails, "  CompanyX ")
	assert.Equal(t, "asset-details:companyx", trimmed)
}

func TestCacheService_SetGet(t *testing.T) {
	cache, _ := setupTestCache(t, time.Minute)
	ctx := context.Background()

	type payload struct {
		AssetName string `json:"assetName"`
		Rows      int    `json:"rows"`
	}

	key := cache.GenerateCacheKey(CacheKeyDealList, "CompanyX")
	require.NoError(t, cache.Set(ctx, key, payload{AssetName: "CompanyX", Rows: 3}))

	var got payload
	found, err := cache.Get(ctx, key, &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, payload{AssetName: "CompanyX", Rows: 3}, got)
}

func TestCacheService_Miss(t *testing.T) {
	cache, _ := setupTestCache(t, time.Minute)

	var got map[string]interface{}
	found, err := cache.Get(context.Background(), "asset-details:unknown", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCacheService_TTLExpiry(t *testing.T) {
	cache, mr := setupTestCache(t, time.Minute)
	ctx := context.Background()

	key := cache.GenerateCacheKey(CacheKeyDashboardCounts)
	require.NoError(t, cache.Set(ctx, key, map[string]int{"assetCount": 5}))

	mr.FastForward(2 * time.Minute)

	var got map[string]int
	found, err := cache.Get(ctx, key, &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCacheService_Invalidate(t *testing.T) {
	cache, _ := setupTestCache(t, time.Minute)
	ctx := context.Background()

	key := cache.GenerateCacheKey(CacheKeyAssetList, "0")
	require.NoError(t, cache.Set(ctx, key, []string{"CompanyX"}))
	require.NoError(t, cache.Invalidate(ctx, key))

	var got []string
	found, err := cache.Get(ctx, key, &got)
	require.NoError(t, err)
	assert.False(t, found)
}
