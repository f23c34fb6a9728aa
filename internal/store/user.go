package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/studygen/studygen-api/internal/domain"
)

// UserStore persists user accounts. Implementations validate the domain
// user and hash plaintext passwords before writing; lookups return
// ErrUserNotFound when no row matches.
type UserStore interface {
	// Create saves a new user. Returns ErrEmailExists when the email is
	// already registered.
	Create(ctx context.Context, user *domain.User) error

	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update rewrites the user's row. A non-empty plaintext Password is
	// hashed into HashedPassword first. Returns ErrEmailExists when the
	// new email collides with another account.
	Update(ctx context.Context, user *domain.User) error

	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a store bound to tx. The caller owns the
	// transaction lifecycle.
	WithTx(tx *sql.Tx) UserStore
}
