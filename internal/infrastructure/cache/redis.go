package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/diego64/help-me-sub001/internal/application/ports"
)

// RedisStore implements ports.CacheStore on go-redis. This is the shared
// cache the revocation blacklist and the login throttle live in.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *RedisStore) SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

var _ ports.CacheStore = (*RedisStore)(nil)
