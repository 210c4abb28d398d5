package ports

import (
	"time"

	"github.com/diego64/help-me-sub001/internal/domain"
)

// TokenType discriminates the two token variants. A verifier only ever
// accepts the variant it asked for.
type TokenType string

const (
	TokenAccess  TokenType = "access"
	TokenRefresh TokenType = "refresh"
)

// TokenPair is the result of a successful login or refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	// ExpiresIn echoes the configured access-token TTL in seconds.
	ExpiresIn int64
}

// Principal is the verified identity attached to a request.
type Principal struct {
	UserID    string
	Role      domain.Role
	TokenID   string // jti; empty on tokens issued without one
	TokenType TokenType
	ExpiresAt time.Time
}

// TokenIssuer signs and verifies access/refresh JWTs (HS256, two secrets).
type TokenIssuer interface {
	Issue(user *domain.User, tokenType TokenType, jti string) (string, error)
	IssuePair(user *domain.User) (*TokenPair, error)
	// Verify checks signature, issuer, audience, expiry and the type claim.
	// Expiry surfaces as domain/errors.ErrTokenExpired; every other
	// verification failure as ErrTokenInvalid.
	Verify(token string, expected TokenType) (*Principal, error)
	// Decode parses without verifying; nil on any failure.
	Decode(token string) *Principal
	IsExpired(token string) bool
}
