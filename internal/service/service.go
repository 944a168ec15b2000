// Package service implements the business logic between the HTTP API and
// the data warehouse, exchange-rate service, and Postgres persistence.
package service

import (
	"context"

	"github.com/portfolio-insights/internal/graphql"
	"github.com/portfolio-insights/internal/logging"
	"github.com/portfolio-insights/internal/storage"
)

// warehouse is the slice of the GraphQL client the services depend on
type warehouse interface {
	Query(ctx context.Context, query string, variables map[string]interface{}) (*graphql.Response, error)
}

// cacheGet reads a cached value, degrading to a miss when the cache is
// unavailable. A broken cache must never break reads from the warehouse.
func cacheGet(ctx context.Context, cache *storage.CacheService, key string, dest interface{}) bool {
	if cache == nil {
		return false
	}
	found, err := cache.Get(ctx, key, dest)
	if err != nil {
		logging.FromContext(ctx).WithField("key", key).WithError(err).Warn("Cache read failed, falling back to warehouse")
		return false
	}
	return found
}

// cacheSet writes a value to cache, logging failures instead of
// propagating them.
func cacheSet(ctx context.Context, cache *storage.CacheService, key string, value interface{}) {
	if cache == nil {
		return
	}
	if err := cache.Set(ctx, key, value); err != nil {
		logging.FromContext(ctx).WithField("key", key).WithError(err).Warn("Cache write failed")
	}
}
