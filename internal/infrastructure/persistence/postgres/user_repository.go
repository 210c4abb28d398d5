package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/diego64/help-me-sub001/internal/application/ports"
	"github.com/diego64/help-me-sub001/internal/domain"
)

const (
	selectUserColumns = `id, name, email, role, password_hash, COALESCE(refresh_token, ''), active, created_at, updated_at`

	getUserByEmailSQL = `SELECT ` + selectUserColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	getUserByIDSQL    = `SELECT ` + selectUserColumns + ` FROM users WHERE id = $1`

	updatePasswordHashSQL = `UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`
	// NULLIF keeps the column NULL rather than empty on logout.
	updateRefreshTokenSQL = `UPDATE users SET refresh_token = NULLIF($1, ''), updated_at = NOW() WHERE id = $2`
)

// UserRepository implements ports.UserRepository on pgx.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.scanUser(r.pool.QueryRow(ctx, getUserByEmailSQL, email))
}

func (r *UserRepository) GetByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	return r.scanUser(r.pool.QueryRow(ctx, getUserByIDSQL, id.UUID))
}

func (r *UserRepository) UpdatePasswordHash(ctx context.Context, id domain.UserID, hash string) error {
	_, err := r.pool.Exec(ctx, updatePasswordHashSQL, hash, id.UUID)
	return err
}

func (r *UserRepository) UpdateRefreshToken(ctx context.Context, id domain.UserID, token string) error {
	_, err := r.pool.Exec(ctx, updateRefreshTokenSQL, token, id.UUID)
	return err
}

func (r *UserRepository) scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID.UUID,
		&u.Name,
		&u.Email,
		&u.Role,
		&u.PasswordHash,
		&u.RefreshToken,
		&u.Active,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

var _ ports.UserRepository = (*UserRepository)(nil)
