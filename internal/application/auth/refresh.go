package auth

import (
	"context"
	"crypto/subtle"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/diego64/help-me-sub001/internal/application/ports"
	"github.com/diego64/help-me-sub001/internal/domain"
	domerrors "github.com/diego64/help-me-sub001/internal/domain/errors"
)

type RefreshInput struct {
	RefreshToken string
}

type RefreshResult struct {
	Pair *ports.TokenPair
}

// Refresh rotates a token pair. A refresh token must both verify
// cryptographically and match the single stored token for its user; a
// rotated-out token, even if unexpired, fails the stored-value comparison.
type Refresh struct {
	users  ports.UserRepository
	issuer ports.TokenIssuer
	log    zerolog.Logger
}

func NewRefresh(users ports.UserRepository, issuer ports.TokenIssuer, log zerolog.Logger) *Refresh {
	return &Refresh{users: users, issuer: issuer, log: log}
}

func (uc *Refresh) Execute(ctx context.Context, input RefreshInput) (*RefreshResult, error) {
	if input.RefreshToken == "" {
		return nil, domerrors.ErrTokenInvalid
	}
	principal, err := uc.issuer.Verify(input.RefreshToken, ports.TokenRefresh)
	if err != nil {
		return nil, err
	}
	id, err := uuid.Parse(principal.UserID)
	if err != nil {
		return nil, domerrors.ErrTokenInvalid
	}
	user, err := uc.users.GetByID(ctx, domain.NewUserID(id))
	if err != nil {
		return nil, err
	}
	if user == nil || !user.Active {
		return nil, domerrors.ErrTokenInvalid
	}
	if subtle.ConstantTimeCompare([]byte(user.RefreshToken), []byte(input.RefreshToken)) != 1 {
		return nil, domerrors.ErrTokenInvalid
	}

	pair, err := uc.issuer.IssuePair(user)
	if err != nil {
		return nil, err
	}
	if err := uc.users.UpdateRefreshToken(ctx, user.ID, pair.RefreshToken); err != nil {
		return nil, err
	}
	return &RefreshResult{Pair: pair}, nil
}
