package cache

import (
	"context"
	"time"
)

// Cache fronts the job inspection API and guards against duplicate event
// deliveries.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (hit bool, err error)
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
	// Acquire claims key for ttl; false means another invocation holds it.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, keys ...string) error
}
