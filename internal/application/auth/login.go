package auth

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/diego64/help-me-sub001/internal/application/ports"
	"github.com/diego64/help-me-sub001/internal/domain"
	domerrors "github.com/diego64/help-me-sub001/internal/domain/errors"
)

type LoginInput struct {
	Email    string
	Password string
}

type LoginResult struct {
	Pair *ports.TokenPair
	User *domain.User
}

// Login authenticates a user: throttle check, digest verification,
// transparent rehash of outdated digests, token pair issuance, refresh
// token persistence, throttle reset.
type Login struct {
	users    ports.UserRepository
	hasher   ports.PasswordHasher
	issuer   ports.TokenIssuer
	throttle ports.LoginThrottle
	log      zerolog.Logger
}

func NewLogin(users ports.UserRepository, hasher ports.PasswordHasher, issuer ports.TokenIssuer, throttle ports.LoginThrottle, log zerolog.Logger) *Login {
	return &Login{users: users, hasher: hasher, issuer: issuer, throttle: throttle, log: log}
}

func (uc *Login) Execute(ctx context.Context, input LoginInput) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	locked, _, err := uc.throttle.Check(ctx, email)
	if err != nil {
		// Throttle storage outage must not take logins down.
		uc.log.Warn().Err(err).Msg("login throttle unavailable")
	}
	if locked {
		return nil, domerrors.ErrAccountLocked
	}

	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	// Unknown, inactive and wrong-password all fail identically.
	if user == nil || !user.Active || !uc.hasher.Verify(input.Password, user.PasswordHash) {
		if rerr := uc.throttle.RecordFailure(ctx, email); rerr != nil {
			uc.log.Warn().Err(rerr).Msg("failed to record login failure")
		}
		return nil, domerrors.ErrInvalidCredentials
	}

	if uc.hasher.NeedsRehash(user.PasswordHash) {
		uc.rehash(ctx, user, input.Password)
	}

	pair, err := uc.issuer.IssuePair(user)
	if err != nil {
		return nil, err
	}
	// Single active refresh token per user: the previous one stops
	// working the moment this overwrite lands.
	if err := uc.users.UpdateRefreshToken(ctx, user.ID, pair.RefreshToken); err != nil {
		return nil, err
	}
	if err := uc.throttle.Reset(ctx, email); err != nil {
		uc.log.Warn().Err(err).Msg("failed to reset login throttle")
	}
	return &LoginResult{Pair: pair, User: user}, nil
}

// rehash migrates a legacy or under-iterated digest under the password
// just verified. A failure here never blocks the login.
func (uc *Login) rehash(ctx context.Context, user *domain.User, password string) {
	digest, err := uc.hasher.Hash(password)
	if err != nil {
		uc.log.Warn().Err(err).Str("user_id", user.ID.String()).Msg("password rehash failed")
		return
	}
	if err := uc.users.UpdatePasswordHash(ctx, user.ID, digest); err != nil {
		uc.log.Warn().Err(err).Str("user_id", user.ID.String()).Msg("failed to persist rehashed digest")
		return
	}
	user.PasswordHash = digest
	uc.log.Info().Str("user_id", user.ID.String()).Msg("password digest migrated")
}
