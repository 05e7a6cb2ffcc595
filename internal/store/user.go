package store

import (
	"context"
	"database/sql"

	"github.com/synapse-srs/synapse-api/internal/domain"
)

// UserStore defines the interface for user persistence.
type UserStore interface {
	// Create hashes user.Password, inserts the user and fills in ID and
	// timestamps. Returns ErrEmailExists if the email is already registered.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user. Returns ErrUserNotFound if absent.
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// GetByEmail retrieves a user by case-insensitive email.
	// Returns ErrUserNotFound if absent.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// WithTx returns a UserStore that runs its queries in tx.
	WithTx(tx *sql.Tx) UserStore
}
