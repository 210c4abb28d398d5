package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diego64/help-me-sub001/internal/application/ports"
	"github.com/diego64/help-me-sub001/internal/domain"
	domerrors "github.com/diego64/help-me-sub001/internal/domain/errors"
)

const (
	testAccessSecret  = "access-secret-0123456789-0123456789-ok"
	testRefreshSecret = "refresh-secret-0123456789-0123456789-ok"
)

func testService(t *testing.T) *TokenService {
	t.Helper()
	svc, err := NewTokenService(Config{
		AccessSecret:  testAccessSecret,
		RefreshSecret: testRefreshSecret,
		AccessTTL:     8 * time.Hour,
		RefreshTTL:    7 * 24 * time.Hour,
		Issuer:        "help-me-api",
		Audience:      "help-me-client",
	})
	require.NoError(t, err)
	return svc
}

func testUser() *domain.User {
	return &domain.User{
		ID:     domain.NewUserID(uuid.New()),
		Name:   "Tester",
		Email:  "tester@example.com",
		Role:   domain.RoleAdmin,
		Active: true,
	}
}

// signRaw crafts a token outside the service so tests can produce shapes
// Issue never would (wrong secret for the type, expired, no jti).
func signRaw(t *testing.T, claims Claims, secret string) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return tok
}

func rawClaims(tokenType ports.TokenType, ttl time.Duration) Claims {
	now := time.Now()
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "help-me-api",
			Audience:  jwt.ClaimStrings{"help-me-client"},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
		UserID:    "u1",
		Role:      domain.RoleAdmin,
		TokenType: tokenType,
	}
}

func TestIssuePairRoundTrip(t *testing.T) {
	t.Parallel()
	svc := testService(t)
	user := testUser()

	pair, err := svc.IssuePair(user)
	require.NoError(t, err)
	assert.Equal(t, int64((8 * time.Hour).Seconds()), pair.ExpiresIn)

	access, err := svc.Verify(pair.AccessToken, ports.TokenAccess)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), access.UserID)
	assert.Equal(t, domain.RoleAdmin, access.Role)
	assert.Equal(t, ports.TokenAccess, access.TokenType)
	assert.NotEmpty(t, access.TokenID)

	refresh, err := svc.Verify(pair.RefreshToken, ports.TokenRefresh)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), refresh.UserID)
	assert.Equal(t, ports.TokenRefresh, refresh.TokenType)
	assert.NotEqual(t, access.TokenID, refresh.TokenID)
}

func TestVerifyRejectsCrossType(t *testing.T) {
	t.Parallel()
	svc := testService(t)

	pair, err := svc.IssuePair(testUser())
	require.NoError(t, err)

	_, err = svc.Verify(pair.AccessToken, ports.TokenRefresh)
	assert.ErrorIs(t, err, domerrors.ErrTokenInvalid)
	_, err = svc.Verify(pair.RefreshToken, ports.TokenAccess)
	assert.ErrorIs(t, err, domerrors.ErrTokenInvalid)
}

func TestVerifyTypeMismatchUnderSameSecret(t *testing.T) {
	t.Parallel()
	svc := testService(t)

	// Signature checks out for the access secret; only the type claim is
	// wrong. Must be indistinguishable from any other invalid token.
	tok := signRaw(t, rawClaims(ports.TokenRefresh, time.Hour), testAccessSecret)
	_, err := svc.Verify(tok, ports.TokenAccess)
	assert.ErrorIs(t, err, domerrors.ErrTokenInvalid)
}

func TestVerifyExpired(t *testing.T) {
	t.Parallel()
	svc := testService(t)

	tok := signRaw(t, rawClaims(ports.TokenAccess, -time.Minute), testAccessSecret)
	_, err := svc.Verify(tok, ports.TokenAccess)
	assert.ErrorIs(t, err, domerrors.ErrTokenExpired)
	assert.NotErrorIs(t, err, domerrors.ErrTokenInvalid)

	// Expiry is visible without signature verification.
	assert.True(t, svc.IsExpired(tok))
}

func TestVerifyGenericFailures(t *testing.T) {
	t.Parallel()
	svc := testService(t)

	tests := []struct {
		name  string
		token string
	}{
		{"malformed", "not.a.jwt"},
		{"empty", ""},
		{"wrong secret", signRaw(t, rawClaims(ports.TokenAccess, time.Hour), "some-other-secret-0123456789-0123456789")},
		{"wrong audience", signRaw(t, func() Claims {
			c := rawClaims(ports.TokenAccess, time.Hour)
			c.Audience = jwt.ClaimStrings{"someone-else"}
			return c
		}(), testAccessSecret)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Verify(tt.token, ports.TokenAccess)
			assert.ErrorIs(t, err, domerrors.ErrTokenInvalid)
		})
	}
}

func TestDecode(t *testing.T) {
	t.Parallel()
	svc := testService(t)

	// Decode skips signature and expiry checks entirely.
	expired := signRaw(t, rawClaims(ports.TokenAccess, -time.Hour), "whatever-secret-it-is-not-checked-00")
	p := svc.Decode(expired)
	require.NotNil(t, p)
	assert.Equal(t, "u1", p.UserID)
	assert.NotEmpty(t, p.TokenID)
	assert.True(t, p.ExpiresAt.Before(time.Now()))

	assert.Nil(t, svc.Decode("garbage"))
	assert.Nil(t, svc.Decode(""))
	assert.Nil(t, svc.Decode("a.b"))
}

func TestIsExpired(t *testing.T) {
	t.Parallel()
	svc := testService(t)

	assert.True(t, svc.IsExpired("garbage"))

	noExpiry := rawClaims(ports.TokenAccess, time.Hour)
	noExpiry.ExpiresAt = nil
	assert.True(t, svc.IsExpired(signRaw(t, noExpiry, testAccessSecret)))

	pair, err := svc.IssuePair(testUser())
	require.NoError(t, err)
	assert.False(t, svc.IsExpired(pair.AccessToken))
}

func TestExtractBearer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		header string
		want   string
	}{
		{"Bearer abc123", "abc123"},
		{"bearer abc123", "abc123"},
		{"BeArEr abc123", "abc123"},
		{"Bearer   abc123", "abc123"},
		{"Bearer", ""},
		{"Bearer   ", ""},
		{"Bearer a b", ""},
		{"Token abc", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExtractBearer(tt.header), "header %q", tt.header)
	}
}

func TestValidateSecrets(t *testing.T) {
	t.Parallel()

	long := "0123456789012345678901234567890123456789"
	assert.ErrorIs(t, ValidateSecrets("short", long), ErrAccessSecretWeak)
	assert.ErrorIs(t, ValidateSecrets("", long), ErrAccessSecretWeak)
	assert.ErrorIs(t, ValidateSecrets(long, "short"), ErrRefreshSecretWeak)
	assert.ErrorIs(t, ValidateSecrets(long, long), ErrSecretsEqual)
	assert.NoError(t, ValidateSecrets(testAccessSecret, testRefreshSecret))

	_, err := NewTokenService(Config{AccessSecret: long, RefreshSecret: long})
	assert.ErrorIs(t, err, ErrSecretsEqual)
}
