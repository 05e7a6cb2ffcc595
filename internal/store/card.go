package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/synapse-srs/synapse-api/internal/domain"
)

// CardStore defines the interface for card persistence.
// Every method is scoped by the owning user's ID.
type CardStore interface {
	// Create inserts the card and fills in its ID and timestamps.
	// Returns ErrNoteNotFound if the referenced note does not exist.
	Create(ctx context.Context, card *domain.Card) error

	// GetByID returns ErrCardNotFound if the card is absent or not owned by userID.
	GetByID(ctx context.Context, userID, cardID int64) (*domain.Card, error)

	// GetForUpdate is GetByID with a row lock held until the surrounding
	// transaction ends. It must be called through WithTx.
	GetForUpdate(ctx context.Context, userID, cardID int64) (*domain.Card, error)

	// List returns all of the user's cards ordered by ID.
	List(ctx context.Context, userID int64) ([]*domain.Card, error)

	// ListDue returns cards with due_date <= now or no due date,
	// ordered by due_date ascending with never-scheduled cards first.
	ListDue(ctx context.Context, userID int64, now time.Time) ([]*domain.Card, error)

	// ListByNote returns the cards derived from a note, ordered by ID.
	ListByNote(ctx context.Context, userID, noteID int64) ([]*domain.Card, error)

	// UpdateContent writes note_id, title and description.
	UpdateContent(ctx context.Context, card *domain.Card) error

	// UpdateSchedule writes the scheduling state.
	UpdateSchedule(ctx context.Context, card *domain.Card) error

	// Delete removes the card and returns it. The card's note is untouched;
	// its review history is removed by ON DELETE CASCADE.
	Delete(ctx context.Context, userID, cardID int64) (*domain.Card, error)

	// WithTx returns a CardStore that runs its queries in tx.
	WithTx(tx *sql.Tx) CardStore
}
