package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/synapse-srs/synapse-api/internal/domain"
	"github.com/synapse-srs/synapse-api/internal/platform/logger"
	"github.com/synapse-srs/synapse-api/internal/redact"
	"github.com/synapse-srs/synapse-api/internal/store"
)

const reviewColumns = `id, card_id, user_id, quality, interval_days, ease_factor,
	review_date, next_due_date, created_at`

// PostgresReviewStore implements store.ReviewStore.
type PostgresReviewStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresReviewStore creates a review history store on db.
func NewPostgresReviewStore(db store.DBTX, logger *slog.Logger) *PostgresReviewStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresReviewStore{
		db:     db,
		logger: logger.With(slog.String("component", "review_store")),
	}
}

var _ store.ReviewStore = (*PostgresReviewStore)(nil)

func scanReview(row rowScanner) (*domain.ReviewHistoryEntry, error) {
	var e domain.ReviewHistoryEntry
	err := row.Scan(&e.ID, &e.CardID, &e.UserID, &e.Quality, &e.Interval, &e.EaseFactor,
		&e.ReviewDate, &e.NextDueDate, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Create implements store.ReviewStore.
func (s *PostgresReviewStore) Create(ctx context.Context, entry *domain.ReviewHistoryEntry) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO review_history (card_id, user_id, quality, interval_days, ease_factor, review_date, next_due_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`,
		entry.CardID, entry.UserID, entry.Quality, entry.Interval, entry.EaseFactor,
		entry.ReviewDate, entry.NextDueDate,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to insert review history",
			slog.Int64("card_id", entry.CardID),
			slog.String("error", redact.Error(err)))
		return mapConstraint(err, map[string]error{"review_history_card_fk": store.ErrCardNotFound})
	}
	return nil
}

func (s *PostgresReviewStore) list(ctx context.Context, query string, args ...any) ([]*domain.ReviewHistoryEntry, error) {
	var entries []*domain.ReviewHistoryEntry
	err := queryAll(ctx, s.db, query, func(row rowScanner) error {
		e, err := scanReview(row)
		if err != nil {
			return err
		}
		entries = append(entries, e)
		return nil
	}, args...)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list review history",
			slog.String("error", redact.Error(err)))
		return nil, err
	}
	return entries, nil
}

// ListByUser implements store.ReviewStore.
func (s *PostgresReviewStore) ListByUser(ctx context.Context, userID int64) ([]*domain.ReviewHistoryEntry, error) {
	return s.list(ctx, "SELECT "+reviewColumns+` FROM review_history
		WHERE user_id = $1 ORDER BY review_date DESC, id DESC`, userID)
}

// ListByCard implements store.ReviewStore.
func (s *PostgresReviewStore) ListByCard(ctx context.Context, userID, cardID int64) ([]*domain.ReviewHistoryEntry, error) {
	return s.list(ctx, "SELECT "+reviewColumns+` FROM review_history
		WHERE user_id = $1 AND card_id = $2 ORDER BY review_date DESC, id DESC`, userID, cardID)
}

// WithTx implements store.ReviewStore.
func (s *PostgresReviewStore) WithTx(tx *sql.Tx) store.ReviewStore {
	return &PostgresReviewStore{db: tx, logger: s.logger}
}
