package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/synapse-srs/synapse-api/internal/domain"
	"github.com/synapse-srs/synapse-api/internal/platform/logger"
	"github.com/synapse-srs/synapse-api/internal/redact"
	"github.com/synapse-srs/synapse-api/internal/store"
)

const cardColumns = `id, user_id, note_id, title, description,
	ease_factor, repetitions, interval_days, due_date, created_at, updated_at`

// cardNoteConstraint is the composite foreign key tying a card to a note
// owned by the same user.
const cardNoteConstraint = "cards_note_fk"

// PostgresCardStore implements store.CardStore.
type PostgresCardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCardStore creates a card store on db. A nil logger uses slog.Default().
func NewPostgresCardStore(db store.DBTX, logger *slog.Logger) *PostgresCardStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresCardStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_store")),
	}
}

var _ store.CardStore = (*PostgresCardStore)(nil)

func scanCard(row rowScanner) (*domain.Card, error) {
	var c domain.Card
	err := row.Scan(
		&c.ID, &c.UserID, &c.NoteID, &c.Title, &c.Description,
		&c.EaseFactor, &c.Repetitions, &c.Interval, &c.DueDate,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *PostgresCardStore) list(ctx context.Context, query string, args ...any) ([]*domain.Card, error) {
	var cards []*domain.Card
	err := queryAll(ctx, s.db, query, func(row rowScanner) error {
		c, err := scanCard(row)
		if err != nil {
			return err
		}
		cards = append(cards, c)
		return nil
	}, args...)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list cards",
			slog.String("error", redact.Error(err)))
		return nil, err
	}
	return cards, nil
}

// Create implements store.CardStore.
func (s *PostgresCardStore) Create(ctx context.Context, card *domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		return err
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO cards (user_id, note_id, title, description, ease_factor, repetitions, interval_days, due_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`,
		card.UserID, card.NoteID, card.Title, card.Description,
		card.EaseFactor, card.Repetitions, card.Interval, card.DueDate,
	).Scan(&card.ID, &card.CreatedAt, &card.UpdatedAt)
	if err != nil {
		log.Error("failed to insert card",
			slog.Int64("user_id", card.UserID),
			slog.Int64("note_id", card.NoteID),
			slog.String("error", redact.Error(err)))
		return mapConstraint(err, map[string]error{cardNoteConstraint: store.ErrNoteNotFound})
	}

	log.Debug("card created", slog.Int64("card_id", card.ID))
	return nil
}

// GetByID implements store.CardStore.
func (s *PostgresCardStore) GetByID(ctx context.Context, userID, cardID int64) (*domain.Card, error) {
	return s.get(ctx, userID, cardID, "")
}

// GetForUpdate implements store.CardStore.
func (s *PostgresCardStore) GetForUpdate(ctx context.Context, userID, cardID int64) (*domain.Card, error) {
	return s.get(ctx, userID, cardID, "FOR UPDATE")
}

func (s *PostgresCardStore) get(ctx context.Context, userID, cardID int64, suffix string) (*domain.Card, error) {
	var card *domain.Card
	err := cardsTable.get(ctx, s.db, cardColumns, cardID, userID, suffix, func(row rowScanner) error {
		var err error
		card, err = scanCard(row)
		return err
	})
	if err != nil {
		return nil, err
	}
	return card, nil
}

// List implements store.CardStore.
func (s *PostgresCardStore) List(ctx context.Context, userID int64) ([]*domain.Card, error) {
	return s.list(ctx, "SELECT "+cardColumns+" FROM cards WHERE user_id = $1 ORDER BY id", userID)
}

// ListDue implements store.CardStore.
func (s *PostgresCardStore) ListDue(ctx context.Context, userID int64, now time.Time) ([]*domain.Card, error) {
	return s.list(ctx, "SELECT "+cardColumns+` FROM cards
		WHERE user_id = $1 AND (due_date IS NULL OR due_date <= $2)
		ORDER BY due_date ASC NULLS FIRST, id ASC`, userID, now)
}

// ListByNote implements store.CardStore.
func (s *PostgresCardStore) ListByNote(ctx context.Context, userID, noteID int64) ([]*domain.Card, error) {
	return s.list(ctx, "SELECT "+cardColumns+" FROM cards WHERE user_id = $1 AND note_id = $2 ORDER BY id", userID, noteID)
}

// UpdateContent implements store.CardStore.
func (s *PostgresCardStore) UpdateContent(ctx context.Context, card *domain.Card) error {
	if err := card.Validate(); err != nil {
		return err
	}
	err := cardsTable.update(ctx, s.db,
		"note_id = $3, title = $4, description = $5, updated_at = NOW()",
		"updated_at",
		card.ID, card.UserID,
		func(row rowScanner) error { return row.Scan(&card.UpdatedAt) },
		card.NoteID, card.Title, card.Description,
	)
	if err != nil && IsForeignKeyViolation(err) {
		return mapConstraint(err, map[string]error{cardNoteConstraint: store.ErrNoteNotFound})
	}
	return err
}

// UpdateSchedule implements store.CardStore.
func (s *PostgresCardStore) UpdateSchedule(ctx context.Context, card *domain.Card) error {
	return cardsTable.update(ctx, s.db,
		"ease_factor = $3, repetitions = $4, interval_days = $5, due_date = $6, updated_at = NOW()",
		"updated_at",
		card.ID, card.UserID,
		func(row rowScanner) error { return row.Scan(&card.UpdatedAt) },
		card.EaseFactor, card.Repetitions, card.Interval, card.DueDate,
	)
}

// Delete implements store.CardStore.
func (s *PostgresCardStore) Delete(ctx context.Context, userID, cardID int64) (*domain.Card, error) {
	var card *domain.Card
	err := cardsTable.delete(ctx, s.db, cardColumns, cardID, userID, func(row rowScanner) error {
		var err error
		card, err = scanCard(row)
		return err
	})
	if err != nil {
		return nil, err
	}
	return card, nil
}

// WithTx implements store.CardStore.
func (s *PostgresCardStore) WithTx(tx *sql.Tx) store.CardStore {
	return &PostgresCardStore{db: tx, logger: s.logger}
}
