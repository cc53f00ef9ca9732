package mongodb

import (
	"context"
	"time"
)

// CacheService is the subset of the redis cache the repositories use
// for cache-aside reads on hot documents.
type CacheService interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}
