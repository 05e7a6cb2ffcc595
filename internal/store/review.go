package store

import (
	"context"
	"database/sql"

	"github.com/synapse-srs/synapse-api/internal/domain"
)

// ReviewStore persists the append-only review history.
type ReviewStore interface {
	// Create appends an entry and fills in its ID.
	Create(ctx context.Context, entry *domain.ReviewHistoryEntry) error

	// ListByUser returns all of the user's entries, newest review first.
	ListByUser(ctx context.Context, userID int64) ([]*domain.ReviewHistoryEntry, error)

	// ListByCard returns one card's entries, newest review first.
	ListByCard(ctx context.Context, userID, cardID int64) ([]*domain.ReviewHistoryEntry, error)

	// WithTx returns a ReviewStore that runs its queries in tx.
	WithTx(tx *sql.Tx) ReviewStore
}
