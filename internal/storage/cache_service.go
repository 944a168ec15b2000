package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// CacheService provides high-level caching of upstream warehouse reads.
// Values are JSON-serialized; a miss is not an error.
type CacheService struct {
	redis *RedisCache
	ttl   time.Duration
}

// NewCacheService creates a new cache service
func NewCacheService(redis *RedisCache, ttl time.Duration) *CacheService {
	return &CacheService{
		redis: redis,
		ttl:   ttl,
	}
}

// CacheKeyType represents different types of cache keys
type CacheKeyType string

const (
	// CacheKeyAssetDetails is for asset detail rows
	CacheKeyAssetDetails CacheKeyType = "asset-details"
	// CacheKeyAssetMetrics is for nested asset metric maps
	CacheKeyAssetMetrics CacheKeyType = "asset-metrics"
	// CacheKeyAssetList is for per-sector asset name listings
	CacheKeyAssetList CacheKeyType = "asset-list"
	// CacheKeyDealList is for deal list rows
	CacheKeyDealList CacheKeyType = "deal-list"
	// CacheKeyDealCashflow is for deal IRR cashflow rows
	CacheKeyDealCashflow CacheKeyType = "deal-cashflow"
	// CacheKeyInternational is for international metric rows
	CacheKeyInternational CacheKeyType = "international-metrics"
	// CacheKeyDashboardCounts is for the dashboard count aggregate
	CacheKeyDashboardCounts CacheKeyType = "dashboard-counts"
)

// GenerateCacheKey generates a cache key for a given type and parameters.
// Format: <type>:<param1>:<param2>:...
func (c *CacheService) GenerateCacheKey(keyType CacheKeyType, params ...string) string {
	// Parameters are asset names and flags coming straight from query
	// strings; normalize for consistent hits.
	normalizedParams := make([]string, len(params))
	for i, param := range params {
		normalizedParams[i] = strings.ToLower(strings.TrimSpace(param))
	}

	parts := append([]string{string(keyType)}, normalizedParams...)
	return strings.Join(parts, ":")
}

// Set stores a value in cache with the configured TTL
func (c *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	return c.SetWithTTL(ctx, key, value, c.ttl)
}

// SetWithTTL stores a value in cache with a custom TTL
func (c *CacheService) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	return c.redis.Set(ctx, key, data, ttl)
}

// Get retrieves a value from cache and deserializes it into dest. The
// bool reports whether the key was found.
func (c *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := c.redis.Get(ctx, key)
	if err != nil {
		// Key not found is not an error, just a cache miss
		if err.Error() == "redis: nil" {
			return false, nil
		}
		return false, fmt.Errorf("failed to get from cache: %w", err)
	}

	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cached value: %w", err)
	}

	return true, nil
}

// Invalidate removes one or more keys from cache
func (c *CacheService) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.redis.Del(ctx, keys...)
}
