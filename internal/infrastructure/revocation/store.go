package revocation

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/diego64/help-me-sub001/internal/application/ports"
)

const keyPrefix = "jwt:blacklist:"

// Store implements ports.RevocationList over the shared cache. Entries
// carry exactly the remaining token lifetime as TTL, so the blacklist
// never outlives the tokens it blocks and needs no cleanup path.
type Store struct {
	cache ports.CacheStore
	log   zerolog.Logger
}

func NewStore(cache ports.CacheStore, log zerolog.Logger) *Store {
	return &Store{cache: cache, log: log}
}

func (s *Store) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	// An already-expired token needs no blacklist entry.
	if jti == "" || ttl <= 0 {
		return nil
	}
	return s.cache.SetWithTTL(ctx, keyPrefix+jti, "revoked", ttl)
}

// IsRevoked is fail-open by policy: a cache outage logs a warning and lets
// otherwise-valid tokens through rather than rejecting all traffic.
func (s *Store) IsRevoked(ctx context.Context, jti string) bool {
	if jti == "" {
		return false
	}
	_, found, err := s.cache.Get(ctx, keyPrefix+jti)
	if err != nil {
		s.log.Warn().Err(err).Msg("revocation check failed, allowing token")
		return false
	}
	return found
}

var _ ports.RevocationList = (*Store)(nil)
