package ports

import (
	"context"
	"time"
)

// CacheStore is the shared key/value store with per-key TTL (Redis in
// production, in-memory for tests). Nothing about the concrete technology
// leaks into the core contracts.
type CacheStore interface {
	// Get returns the value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error
}
