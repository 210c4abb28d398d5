package cache

import (
	"context"
	"sync"
	"time"

	"github.com/diego64/help-me-sub001/internal/application/ports"
)

type entry struct {
	value     string
	expiresAt time.Time // zero means no expiry
}

// MemoryStore is an in-memory ports.CacheStore with per-key TTL, suitable
// for tests and single-instance deployments. For multi-instance, use the
// Redis adapter.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string]entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]entry)}
}

func (s *MemoryStore) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.data[key]
	if !ok {
		return "", false, nil
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		delete(s.data, key)
		return "", false, nil
	}
	return e.value, true, nil
}

func (s *MemoryStore) SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error {
	e := entry{value: value}
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}
	s.mu.Lock()
	s.data[key] = e
	s.mu.Unlock()
	return nil
}

var _ ports.CacheStore = (*MemoryStore)(nil)
