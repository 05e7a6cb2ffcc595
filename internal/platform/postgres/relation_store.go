package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/synapse-srs/synapse-api/internal/domain"
	"github.com/synapse-srs/synapse-api/internal/platform/logger"
	"github.com/synapse-srs/synapse-api/internal/redact"
	"github.com/synapse-srs/synapse-api/internal/store"
)

// relationColumns selects an edge together with its ordered, comma-joined type set.
const relationColumns = `r.id, r.user_id, r.source_note_id, r.target_note_id, r.created_at, r.updated_at,
	COALESCE((SELECT string_agg(t.relation_type, ',' ORDER BY t.position)
		FROM relation_types t WHERE t.relation_id = r.id), '')`

// relationConstraints maps named constraints onto entity errors.
var relationConstraints = map[string]error{
	"relations_source_note_fk": store.ErrNoteNotFound,
	"relations_target_note_fk": store.ErrNoteNotFound,
	"relations_edge_unique":    store.ErrRelationExists,
}

// PostgresRelationStore implements store.RelationStore.
type PostgresRelationStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresRelationStore creates a relation store on db. A nil logger uses slog.Default().
func NewPostgresRelationStore(db store.DBTX, logger *slog.Logger) *PostgresRelationStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresRelationStore{
		db:     db,
		logger: logger.With(slog.String("component", "relation_store")),
	}
}

var _ store.RelationStore = (*PostgresRelationStore)(nil)

func scanRelation(row rowScanner) (*domain.Relation, error) {
	var (
		r     domain.Relation
		types string
	)
	if err := row.Scan(&r.ID, &r.UserID, &r.SourceNoteID, &r.TargetNoteID, &r.CreatedAt, &r.UpdatedAt, &types); err != nil {
		return nil, err
	}
	r.RelationTypes = splitRelationTypes(types)
	return &r, nil
}

func splitRelationTypes(joined string) []domain.RelationType {
	if joined == "" {
		return []domain.RelationType{}
	}
	parts := strings.Split(joined, ",")
	out := make([]domain.RelationType, len(parts))
	for i, p := range parts {
		out[i] = domain.RelationType(p)
	}
	return out
}

// Create implements store.RelationStore.
func (s *PostgresRelationStore) Create(ctx context.Context, rel *domain.Relation) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := rel.Validate(); err != nil {
		return err
	}
	types, err := domain.NormalizeRelationTypes(rel.RelationTypes)
	if err != nil {
		return err
	}
	rel.RelationTypes = types

	err = s.db.QueryRowContext(ctx, `
		INSERT INTO relations (user_id, source_note_id, target_note_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`,
		rel.UserID, rel.SourceNoteID, rel.TargetNoteID,
	).Scan(&rel.ID, &rel.CreatedAt, &rel.UpdatedAt)
	if err != nil {
		log.Error("failed to insert relation",
			slog.Int64("source_note_id", rel.SourceNoteID),
			slog.Int64("target_note_id", rel.TargetNoteID),
			slog.String("error", redact.Error(err)))
		return mapConstraint(err, relationConstraints)
	}

	if err := s.insertTypes(ctx, rel.ID, rel.RelationTypes); err != nil {
		log.Error("failed to insert relation types",
			slog.Int64("relation_id", rel.ID),
			slog.String("error", redact.Error(err)))
		return err
	}

	log.Debug("relation created", slog.Int64("relation_id", rel.ID))
	return nil
}

// insertTypes writes one child row per type in a single statement.
func (s *PostgresRelationStore) insertTypes(ctx context.Context, relationID int64, types []domain.RelationType) error {
	if len(types) == 0 {
		return domain.NewValidationError("relation_types", "at least one relation type is required", domain.ErrEmptyRelationTypes)
	}

	values := make([]string, 0, len(types))
	args := make([]any, 0, len(types)*2+1)
	args = append(args, relationID)
	for i, t := range types {
		values = append(values, fmt.Sprintf("($1, $%d, $%d)", len(args)+1, len(args)+2))
		args = append(args, string(t), i)
	}

	query := "INSERT INTO relation_types (relation_id, relation_type, position) VALUES " + strings.Join(values, ", ")
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return MapError(err)
	}
	return nil
}

// GetByID implements store.RelationStore.
func (s *PostgresRelationStore) GetByID(ctx context.Context, userID, relationID int64) (*domain.Relation, error) {
	var rel *domain.Relation
	err := relationsTable.get(ctx, s.db, relationColumns, relationID, userID, "", func(row rowScanner) error {
		var err error
		rel, err = scanRelation(row)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rel, nil
}

func (s *PostgresRelationStore) list(ctx context.Context, where string, args ...any) ([]*domain.Relation, error) {
	var rels []*domain.Relation
	query := "SELECT " + relationColumns + " FROM relations r WHERE " + where + " ORDER BY r.id"
	err := queryAll(ctx, s.db, query, func(row rowScanner) error {
		r, err := scanRelation(row)
		if err != nil {
			return err
		}
		rels = append(rels, r)
		return nil
	}, args...)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list relations",
			slog.String("error", redact.Error(err)))
		return nil, err
	}
	return rels, nil
}

// List implements store.RelationStore.
func (s *PostgresRelationStore) List(ctx context.Context, userID int64) ([]*domain.Relation, error) {
	return s.list(ctx, "r.user_id = $1", userID)
}

// ListByNote implements store.RelationStore.
func (s *PostgresRelationStore) ListByNote(ctx context.Context, userID, noteID int64) ([]*domain.Relation, error) {
	return s.list(ctx, "r.user_id = $1 AND (r.source_note_id = $2 OR r.target_note_id = $2)", userID, noteID)
}

// ListByType implements store.RelationStore.
func (s *PostgresRelationStore) ListByType(
	ctx context.Context,
	userID int64,
	relType domain.RelationType,
) ([]*domain.Relation, error) {
	return s.list(ctx, `r.user_id = $1 AND EXISTS (
		SELECT 1 FROM relation_types t WHERE t.relation_id = r.id AND t.relation_type = $2)`,
		userID, string(relType))
}

// Update implements store.RelationStore.
func (s *PostgresRelationStore) Update(ctx context.Context, rel *domain.Relation) error {
	if err := rel.Validate(); err != nil {
		return err
	}
	types, err := domain.NormalizeRelationTypes(rel.RelationTypes)
	if err != nil {
		return err
	}
	rel.RelationTypes = types

	err = relationsTable.update(ctx, s.db,
		"source_note_id = $3, target_note_id = $4, updated_at = NOW()",
		"r.updated_at",
		rel.ID, rel.UserID,
		func(row rowScanner) error { return row.Scan(&rel.UpdatedAt) },
		rel.SourceNoteID, rel.TargetNoteID,
	)
	if err != nil {
		if name := constraintName(err); name != "" {
			return mapConstraint(err, relationConstraints)
		}
		return err
	}

	if _, err := s.db.ExecContext(ctx, "DELETE FROM relation_types WHERE relation_id = $1", rel.ID); err != nil {
		return MapError(err)
	}
	return s.insertTypes(ctx, rel.ID, rel.RelationTypes)
}

// Delete implements store.RelationStore.
func (s *PostgresRelationStore) Delete(ctx context.Context, userID, relationID int64) (*domain.Relation, error) {
	rel, err := s.GetByID(ctx, userID, relationID)
	if err != nil {
		return nil, err
	}

	result, err := s.db.ExecContext(ctx, "DELETE FROM relations WHERE id = $1 AND user_id = $2", relationID, userID)
	if err != nil {
		return nil, MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrRelationNotFound); err != nil {
		return nil, err
	}
	return rel, nil
}

// WithTx implements store.RelationStore.
func (s *PostgresRelationStore) WithTx(tx *sql.Tx) store.RelationStore {
	return &PostgresRelationStore{db: tx, logger: s.logger}
}
