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

const noteColumns = "id, user_id, title, content, created_at, updated_at"

// PostgresNoteStore implements store.NoteStore.
type PostgresNoteStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresNoteStore creates a note store on db. A nil logger uses slog.Default().
func NewPostgresNoteStore(db store.DBTX, logger *slog.Logger) *PostgresNoteStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresNoteStore{
		db:     db,
		logger: logger.With(slog.String("component", "note_store")),
	}
}

var _ store.NoteStore = (*PostgresNoteStore)(nil)

func scanNote(row rowScanner) (*domain.Note, error) {
	var n domain.Note
	if err := row.Scan(&n.ID, &n.UserID, &n.Title, &n.Content, &n.CreatedAt, &n.UpdatedAt); err != nil {
		return nil, err
	}
	return &n, nil
}

// Create implements store.NoteStore.
func (s *PostgresNoteStore) Create(ctx context.Context, note *domain.Note) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := note.Validate(); err != nil {
		return err
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO notes (user_id, title, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`,
		note.UserID, note.Title, note.Content,
	).Scan(&note.ID, &note.CreatedAt, &note.UpdatedAt)
	if err != nil {
		log.Error("failed to insert note",
			slog.Int64("user_id", note.UserID),
			slog.String("error", redact.Error(err)))
		return mapConstraint(err, map[string]error{"notes_user_fk": store.ErrUserNotFound})
	}

	log.Debug("note created", slog.Int64("note_id", note.ID))
	return nil
}

// GetByID implements store.NoteStore.
func (s *PostgresNoteStore) GetByID(ctx context.Context, userID, noteID int64) (*domain.Note, error) {
	var note *domain.Note
	err := notesTable.get(ctx, s.db, noteColumns, noteID, userID, "", func(row rowScanner) error {
		var err error
		note, err = scanNote(row)
		return err
	})
	if err != nil {
		return nil, err
	}
	return note, nil
}

// List implements store.NoteStore.
func (s *PostgresNoteStore) List(ctx context.Context, userID int64) ([]*domain.Note, error) {
	var notes []*domain.Note
	err := queryAll(ctx, s.db,
		"SELECT "+noteColumns+" FROM notes WHERE user_id = $1 ORDER BY created_at DESC, id DESC",
		func(row rowScanner) error {
			n, err := scanNote(row)
			if err != nil {
				return err
			}
			notes = append(notes, n)
			return nil
		}, userID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list notes",
			slog.Int64("user_id", userID),
			slog.String("error", redact.Error(err)))
		return nil, err
	}
	return notes, nil
}

// Update implements store.NoteStore.
func (s *PostgresNoteStore) Update(ctx context.Context, note *domain.Note) error {
	if err := note.Validate(); err != nil {
		return err
	}
	return notesTable.update(ctx, s.db,
		"title = $3, content = $4, updated_at = NOW()",
		"updated_at",
		note.ID, note.UserID,
		func(row rowScanner) error { return row.Scan(&note.UpdatedAt) },
		note.Title, note.Content,
	)
}

// Delete implements store.NoteStore.
func (s *PostgresNoteStore) Delete(ctx context.Context, userID, noteID int64) (*domain.Note, error) {
	var note *domain.Note
	err := notesTable.delete(ctx, s.db, noteColumns, noteID, userID, func(row rowScanner) error {
		var err error
		note, err = scanNote(row)
		return err
	})
	if err != nil {
		return nil, err
	}
	return note, nil
}

// WithTx implements store.NoteStore.
func (s *PostgresNoteStore) WithTx(tx *sql.Tx) store.NoteStore {
	return &PostgresNoteStore{db: tx, logger: s.logger}
}
