package ports

import (
	"context"

	"github.com/diego64/help-me-sub001/internal/domain"
)

// UserRepository defines persistence for the user record consumed by the
// security core. Lookups return nil (no error) when the user is absent.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id domain.UserID) (*domain.User, error)
	// UpdatePasswordHash replaces the stored digest (rehash-on-login).
	UpdatePasswordHash(ctx context.Context, id domain.UserID, hash string) error
	// UpdateRefreshToken overwrites the single active refresh token.
	// An empty token clears it (logout).
	UpdateRefreshToken(ctx context.Context, id domain.UserID, token string) error
}
