package lockout

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/diego64/help-me-sub001/internal/application/ports"
)

const (
	keyPrefix = "login:attempts:"

	DefaultMaxAttempts = 5
	DefaultWindow      = 15 * time.Minute

	// Reset writes a zero with a short TTL instead of deleting the key;
	// observable behavior is the same and the cache port stays two calls.
	resetTTL = time.Second
)

// Store implements ports.LoginThrottle over the shared cache. Every failed
// attempt re-arms the full lockout window (sliding window). The
// read-increment-write sequence is not atomic; concurrent failures may
// briefly exceed the nominal limit, which is acceptable for an advisory
// bound.
type Store struct {
	cache  ports.CacheStore
	max    int
	window time.Duration
	log    zerolog.Logger
}

func NewStore(cache ports.CacheStore, maxAttempts int, window time.Duration, log zerolog.Logger) *Store {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Store{cache: cache, max: maxAttempts, window: window, log: log}
}

func key(email string) string {
	return keyPrefix + strings.ToLower(strings.TrimSpace(email))
}

func (s *Store) Check(ctx context.Context, email string) (bool, int, error) {
	attempts, err := s.attempts(ctx, email)
	if err != nil {
		return false, 0, err
	}
	return attempts >= s.max, attempts, nil
}

func (s *Store) RecordFailure(ctx context.Context, email string) error {
	attempts, err := s.attempts(ctx, email)
	if err != nil {
		return err
	}
	return s.cache.SetWithTTL(ctx, key(email), strconv.Itoa(attempts+1), s.window)
}

func (s *Store) Reset(ctx context.Context, email string) error {
	return s.cache.SetWithTTL(ctx, key(email), "0", resetTTL)
}

func (s *Store) attempts(ctx context.Context, email string) (int, error) {
	v, found, err := s.cache.Get(ctx, key(email))
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		s.log.Warn().Str("value", v).Msg("non-numeric attempt counter, treating as zero")
		return 0, nil
	}
	return n, nil
}

var _ ports.LoginThrottle = (*Store)(nil)
