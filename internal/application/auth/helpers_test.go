package auth

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/diego64/help-me-sub001/internal/application/ports"
	"github.com/diego64/help-me-sub001/internal/domain"
	infraauth "github.com/diego64/help-me-sub001/internal/infrastructure/auth"
	"github.com/diego64/help-me-sub001/internal/infrastructure/cache"
	"github.com/diego64/help-me-sub001/internal/infrastructure/lockout"
	"github.com/diego64/help-me-sub001/internal/infrastructure/revocation"
	"github.com/diego64/help-me-sub001/internal/infrastructure/security"
)

const (
	fixtureAccessSecret  = "fixture-access-secret-0123456789-012345"
	fixtureRefreshSecret = "fixture-refresh-secret-0123456789-01234"
	fixturePassword      = "Corr3ct-Horse-Battery!"
)

type stubUsers struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newStubUsers(users ...*domain.User) *stubUsers {
	s := &stubUsers{users: make(map[string]*domain.User)}
	for _, u := range users {
		s.users[u.ID.String()] = u
	}
	return s
}

func (s *stubUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, nil
}

func (s *stubUsers) GetByID(_ context.Context, id domain.UserID) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[id.String()], nil
}

func (s *stubUsers) UpdatePasswordHash(_ context.Context, id domain.UserID, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id.String()]; ok {
		u.PasswordHash = hash
	}
	return nil
}

func (s *stubUsers) UpdateRefreshToken(_ context.Context, id domain.UserID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id.String()]; ok {
		u.RefreshToken = token
	}
	return nil
}

var _ ports.UserRepository = (*stubUsers)(nil)

type fixture struct {
	users      *stubUsers
	user       *domain.User
	hasher     *security.PBKDF2Hasher
	issuer     *infraauth.TokenService
	throttle   *lockout.Store
	revocation *revocation.Store
	login      *Login
	refresh    *Refresh
	logout     *Logout
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := zerolog.Nop()

	hasher := security.NewPBKDF2Hasher(1000, log)
	digest, err := hasher.Hash(fixturePassword)
	require.NoError(t, err)

	user := &domain.User{
		ID:           domain.NewUserID(uuid.New()),
		Name:         "Ana Souza",
		Email:        "ana@example.com",
		Role:         domain.RoleAdmin,
		PasswordHash: digest,
		Active:       true,
	}
	users := newStubUsers(user)

	issuer, err := infraauth.NewTokenService(infraauth.Config{
		AccessSecret:  fixtureAccessSecret,
		RefreshSecret: fixtureRefreshSecret,
		AccessTTL:     8 * time.Hour,
		RefreshTTL:    7 * 24 * time.Hour,
	})
	require.NoError(t, err)

	store := cache.NewMemoryStore()
	throttle := lockout.NewStore(store, 5, 15*time.Minute, log)
	rev := revocation.NewStore(store, log)

	return &fixture{
		users:      users,
		user:       user,
		hasher:     hasher,
		issuer:     issuer,
		throttle:   throttle,
		revocation: rev,
		login:      NewLogin(users, hasher, issuer, throttle, log),
		refresh:    NewRefresh(users, issuer, log),
		logout:     NewLogout(users, issuer, rev, log),
	}
}
