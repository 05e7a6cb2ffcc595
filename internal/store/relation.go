package store

import (
	"context"
	"database/sql"

	"github.com/synapse-srs/synapse-api/internal/domain"
)

// RelationStore defines the interface for note relation persistence.
//
// A relation is one edge row plus one row per relation type. Create and
// Update write several statements and MUST run inside a transaction
// (WithTx with RunInTransaction) so an edge never exists without its types.
type RelationStore interface {
	// Create inserts the edge and its type rows, filling in ID and timestamps.
	// Returns ErrRelationExists for a duplicate source/target pair.
	Create(ctx context.Context, rel *domain.Relation) error

	// GetByID returns ErrRelationNotFound if absent or not owned by userID.
	GetByID(ctx context.Context, userID, relationID int64) (*domain.Relation, error)

	// List returns all of the user's relations ordered by ID.
	List(ctx context.Context, userID int64) ([]*domain.Relation, error)

	// ListByNote returns relations where the note is the source or the target.
	ListByNote(ctx context.Context, userID, noteID int64) ([]*domain.Relation, error)

	// ListByType returns relations whose type set contains relType.
	ListByType(ctx context.Context, userID int64, relType domain.RelationType) ([]*domain.Relation, error)

	// Update writes source/target and replaces the whole type set.
	Update(ctx context.Context, rel *domain.Relation) error

	// Delete removes the relation and its type rows and returns it.
	Delete(ctx context.Context, userID, relationID int64) (*domain.Relation, error)

	// WithTx returns a RelationStore that runs its queries in tx.
	WithTx(tx *sql.Tx) RelationStore
}
