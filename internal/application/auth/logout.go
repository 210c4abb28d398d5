package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/diego64/help-me-sub001/internal/application/ports"
	"github.com/diego64/help-me-sub001/internal/domain"
)

type LogoutInput struct {
	AccessToken string
}

// Logout blacklists the presented access token for its remaining lifetime
// and clears the user's stored refresh token. The token is decoded without
// verification: the gate already verified it, and even a stale token is
// worth blacklisting.
type Logout struct {
	users      ports.UserRepository
	issuer     ports.TokenIssuer
	revocation ports.RevocationList
	log        zerolog.Logger
}

func NewLogout(users ports.UserRepository, issuer ports.TokenIssuer, revocation ports.RevocationList, log zerolog.Logger) *Logout {
	return &Logout{users: users, issuer: issuer, revocation: revocation, log: log}
}

func (uc *Logout) Execute(ctx context.Context, input LogoutInput) error {
	principal := uc.issuer.Decode(input.AccessToken)
	if principal == nil {
		return nil
	}
	if principal.TokenID != "" {
		ttl := time.Until(principal.ExpiresAt)
		if err := uc.revocation.Revoke(ctx, principal.TokenID, ttl); err != nil {
			return err
		}
	}
	id, err := uuid.Parse(principal.UserID)
	if err != nil {
		return nil
	}
	if err := uc.users.UpdateRefreshToken(ctx, domain.NewUserID(id), ""); err != nil {
		return err
	}
	uc.log.Info().Str("user_id", principal.UserID).Msg("user logged out")
	return nil
}
