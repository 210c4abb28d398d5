package ports

import (
	"context"
	"time"
)

// LoginThrottle tracks failed login attempts per normalized identity and
// locks the identity out after repeated failures.
type LoginThrottle interface {
	// Check returns the current attempt count and whether it crossed the
	// lockout limit.
	Check(ctx context.Context, email string) (locked bool, attempts int, err error)
	// RecordFailure increments the counter and re-arms the full lockout
	// window (sliding, not fixed).
	RecordFailure(ctx context.Context, email string) error
	// Reset clears the counter (call on successful login).
	Reset(ctx context.Context, email string) error
}

// RevocationList is the blacklist of revoked token identifiers.
type RevocationList interface {
	// Revoke blacklists a jti for ttl. Non-positive ttl is a no-op: the
	// token already expired on its own.
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	// IsRevoked reports whether the jti is blacklisted. Cache outage is
	// fail-open with a logged warning.
	IsRevoked(ctx context.Context, jti string) bool
}
