package store

import (
	"context"
	"database/sql"

	"github.com/synapse-srs/synapse-api/internal/domain"
)

// NoteStore defines the interface for note persistence.
// Every method is scoped by the owning user's ID.
type NoteStore interface {
	// Create inserts the note and fills in its ID and timestamps.
	Create(ctx context.Context, note *domain.Note) error

	// GetByID returns ErrNoteNotFound if the note is absent or owned by someone else.
	GetByID(ctx context.Context, userID, noteID int64) (*domain.Note, error)

	// List returns the user's notes, newest first.
	List(ctx context.Context, userID int64) ([]*domain.Note, error)

	// Update writes the note's title and content.
	Update(ctx context.Context, note *domain.Note) error

	// Delete removes the note and returns it. Cards and relations that
	// reference the note are removed by ON DELETE CASCADE.
	Delete(ctx context.Context, userID, noteID int64) (*domain.Note, error)

	// WithTx returns a NoteStore that runs its queries in tx.
	WithTx(tx *sql.Tx) NoteStore
}
