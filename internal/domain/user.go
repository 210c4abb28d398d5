package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role of a user inside the helpdesk. The value is carried verbatim in the
// "regra" claim of issued tokens.
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleTechnician Role = "TECNICO"
	RoleUser       Role = "USUARIO"
)

// UserID is a value object for user identity.
type UserID struct{ uuid.UUID }

// NewUserID creates a new UserID from uuid.
func NewUserID(id uuid.UUID) UserID { return UserID{UUID: id} }

// String returns the canonical string form.
func (u UserID) String() string { return u.UUID.String() }

// User is the relational user record the security core consumes. Only the
// fields the credential and session flows touch are modeled here; ticket and
// service ownership live with the routing layer.
type User struct {
	ID           UserID
	Name         string
	Email        string
	Role         Role
	PasswordHash string
	// RefreshToken is the single active refresh token for this user.
	// Overwritten on every issued pair, cleared on logout.
	RefreshToken string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
