package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/diego64/help-me-sub001/internal/application/ports"
	"github.com/diego64/help-me-sub001/internal/domain"
	domerrors "github.com/diego64/help-me-sub001/internal/domain/errors"
)

// MinSecretLength is the floor for both signing secrets.
const MinSecretLength = 32

// Secret configuration is fatal at startup, never a per-request error.
var (
	ErrAccessSecretWeak  = fmt.Errorf("access token secret must be at least %d characters", MinSecretLength)
	ErrRefreshSecretWeak = fmt.Errorf("refresh token secret must be at least %d characters", MinSecretLength)
	ErrSecretsEqual      = errors.New("access and refresh token secrets must be distinct")
)

// Config for the token service. Zero TTLs fall back to 8h access / 7d
// refresh; empty issuer/audience fall back to the fixed pair every issued
// token carries.
type Config struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
	Audience      string
}

// Claims carried by both token variants. "type" is what keeps an access
// token from ever being accepted as a refresh token, on top of the two
// tokens being signed with different secrets.
type Claims struct {
	jwt.RegisteredClaims
	UserID    string          `json:"id"`
	Role      domain.Role     `json:"regra"`
	TokenType ports.TokenType `json:"type"`
}

// TokenService implements ports.TokenIssuer with HS256 and two independent
// secrets, one per token variant.
type TokenService struct {
	cfg Config
}

// ValidateSecrets enforces the startup contract: both secrets present,
// both at least MinSecretLength, and not equal to each other.
func ValidateSecrets(access, refresh string) error {
	if len(access) < MinSecretLength {
		return ErrAccessSecretWeak
	}
	if len(refresh) < MinSecretLength {
		return ErrRefreshSecretWeak
	}
	if access == refresh {
		return ErrSecretsEqual
	}
	return nil
}

func NewTokenService(cfg Config) (*TokenService, error) {
	if err := ValidateSecrets(cfg.AccessSecret, cfg.RefreshSecret); err != nil {
		return nil, err
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 8 * time.Hour
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 7 * 24 * time.Hour
	}
	if cfg.Issuer == "" {
		cfg.Issuer = "help-me-api"
	}
	if cfg.Audience == "" {
		cfg.Audience = "help-me-client"
	}
	return &TokenService{cfg: cfg}, nil
}

func (s *TokenService) secretFor(tokenType ports.TokenType) []byte {
	if tokenType == ports.TokenRefresh {
		return []byte(s.cfg.RefreshSecret)
	}
	return []byte(s.cfg.AccessSecret)
}

func (s *TokenService) ttlFor(tokenType ports.TokenType) time.Duration {
	if tokenType == ports.TokenRefresh {
		return s.cfg.RefreshTTL
	}
	return s.cfg.AccessTTL
}

func (s *TokenService) Issue(user *domain.User, tokenType ports.TokenType, jti string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.Issuer,
			Audience:  jwt.ClaimStrings{s.cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttlFor(tokenType))),
			ID:        jti,
		},
		UserID:    user.ID.String(),
		Role:      user.Role,
		TokenType: tokenType,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secretFor(tokenType))
}

func (s *TokenService) IssuePair(user *domain.User) (*ports.TokenPair, error) {
	access, err := s.Issue(user, ports.TokenAccess, uuid.NewString())
	if err != nil {
		return nil, err
	}
	refresh, err := s.Issue(user, ports.TokenRefresh, uuid.NewString())
	if err != nil {
		return nil, err
	}
	return &ports.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.cfg.AccessTTL.Seconds()),
	}, nil
}

// Verify checks signature, issuer, audience and expiry with the secret of
// the expected variant, then the type claim itself. Expiry gets its own
// sentinel so callers can tell the user; everything else collapses into
// the generic invalid-token error so the response is no oracle for which
// check failed. Errors that are not jwt verification errors propagate
// unchanged.
func (s *TokenService) Verify(token string, expected ports.TokenType) (*ports.Principal, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secretFor(expected), nil
	}, jwt.WithIssuer(s.cfg.Issuer), jwt.WithAudience(s.cfg.Audience))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, domerrors.ErrTokenExpired
		case isVerificationError(err):
			return nil, domerrors.ErrTokenInvalid
		default:
			return nil, err
		}
	}
	if !parsed.Valid || claims.TokenType != expected {
		return nil, domerrors.ErrTokenInvalid
	}
	return principalFrom(claims), nil
}

// Decode parses without verifying signature or expiry. Nil on any failure.
func (s *TokenService) Decode(token string) *ports.Principal {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil
	}
	return principalFrom(claims)
}

// IsExpired reports expiry from the unverified claims: true when the token
// cannot be decoded, carries no expiry, or expired in the past.
func (s *TokenService) IsExpired(token string) bool {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return true
	}
	if claims.ExpiresAt == nil {
		return true
	}
	return claims.ExpiresAt.Before(time.Now())
}

func principalFrom(claims *Claims) *ports.Principal {
	p := &ports.Principal{
		UserID:    claims.UserID,
		Role:      claims.Role,
		TokenID:   claims.ID,
		TokenType: claims.TokenType,
	}
	if claims.ExpiresAt != nil {
		p.ExpiresAt = claims.ExpiresAt.Time
	}
	return p
}

// ExtractBearer pulls the token out of an Authorization header value.
// The scheme is case-insensitive and the header must be exactly
// "<scheme> <token>" with no embedded whitespace in the token. Empty
// string when there is nothing usable.
func ExtractBearer(header string) string {
	fields := strings.Fields(header)
	if len(fields) != 2 || !strings.EqualFold(fields[0], "bearer") {
		return ""
	}
	return fields[1]
}

func isVerificationError(err error) bool {
	for _, sentinel := range []error{
		jwt.ErrTokenMalformed,
		jwt.ErrTokenUnverifiable,
		jwt.ErrTokenSignatureInvalid,
		jwt.ErrSignatureInvalid,
		jwt.ErrTokenInvalidClaims,
		jwt.ErrTokenInvalidAudience,
		jwt.ErrTokenInvalidIssuer,
		jwt.ErrTokenInvalidId,
		jwt.ErrTokenNotValidYet,
		jwt.ErrTokenUsedBeforeIssued,
		jwt.ErrTokenRequiredClaimMissing,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

var _ ports.TokenIssuer = (*TokenService)(nil)
