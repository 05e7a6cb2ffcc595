package service

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/synapse-srs/synapse-api/internal/domain"
	"github.com/synapse-srs/synapse-api/internal/platform/logger"
	"github.com/synapse-srs/synapse-api/internal/store"
)

// CreateRelationInput describes a new edge between two of the user's notes.
type CreateRelationInput struct {
	SourceNoteID  int64
	TargetNoteID  int64
	RelationTypes []domain.RelationType
}

// UpdateRelationInput is a partial relation update. A non-nil RelationTypes
// replaces the whole type set.
type UpdateRelationInput struct {
	SourceNoteID  *int64
	TargetNoteID  *int64
	RelationTypes []domain.RelationType
}

// IsEmpty reports whether the update carries no fields.
func (u UpdateRelationInput) IsEmpty() bool {
	return u.SourceNoteID == nil && u.TargetNoteID == nil && u.RelationTypes == nil
}

// RelationService manages relations between notes.
type RelationService interface {
	ListRelations(ctx context.Context, userID int64) ([]*domain.Relation, error)
	GetRelation(ctx context.Context, userID, relationID int64) (*domain.Relation, error)
	// ListRelationsByNote returns edges where the note is source or target.
	// No edges is reported as store.ErrRelationNotFound.
	ListRelationsByNote(ctx context.Context, userID, noteID int64) ([]*domain.Relation, error)
	ListRelationsByType(ctx context.Context, userID int64, relType string) ([]*domain.Relation, error)
	CreateRelation(ctx context.Context, userID int64, in CreateRelationInput) (*domain.Relation, error)
	UpdateRelation(ctx context.Context, userID, relationID int64, in UpdateRelationInput) (*domain.Relation, error)
	DeleteRelation(ctx context.Context, userID, relationID int64) (*domain.Relation, error)
}

type relationServiceImpl struct {
	tx        store.Transactor
	relations store.RelationStore
	logger    *slog.Logger
}

// NewRelationService creates a RelationService.
func NewRelationService(
	tx store.Transactor,
	relations store.RelationStore,
	log *slog.Logger,
) (RelationService, error) {
	if tx == nil {
		return nil, domain.NewValidationError("transactor", "cannot be nil", nil)
	}
	if relations == nil {
		return nil, domain.NewValidationError("relations", "cannot be nil", nil)
	}
	if log == nil {
		log = slog.Default()
	}
	return &relationServiceImpl{
		tx:        tx,
		relations: relations,
		logger:    log.With(slog.String("component", "relation_service")),
	}, nil
}

func (s *relationServiceImpl) ListRelations(ctx context.Context, userID int64) ([]*domain.Relation, error) {
	rels, err := s.relations.List(ctx, userID)
	if err != nil {
		return nil, NewServiceError("relation", "list_relations", "failed to list relations", err)
	}
	return nonNilRelations(rels), nil
}

func (s *relationServiceImpl) GetRelation(ctx context.Context, userID, relationID int64) (*domain.Relation, error) {
	rel, err := s.relations.GetByID(ctx, userID, relationID)
	if err != nil {
		return nil, NewServiceError("relation", "get_relation", "failed to get relation", err)
	}
	return rel, nil
}

func (s *relationServiceImpl) ListRelationsByNote(
	ctx context.Context,
	userID, noteID int64,
) ([]*domain.Relation, error) {
	rels, err := s.relations.ListByNote(ctx, userID, noteID)
	if err != nil {
		return nil, NewServiceError("relation", "list_relations_by_note", "failed to list relations", err)
	}
	if len(rels) == 0 {
		return nil, store.ErrRelationNotFound
	}
	return rels, nil
}

func (s *relationServiceImpl) ListRelationsByType(
	ctx context.Context,
	userID int64,
	relType string,
) ([]*domain.Relation, error) {
	t, err := domain.ParseRelationType(relType)
	if err != nil {
		return nil, err
	}
	rels, err := s.relations.ListByType(ctx, userID, t)
	if err != nil {
		return nil, NewServiceError("relation", "list_relations_by_type", "failed to list relations", err)
	}
	return nonNilRelations(rels), nil
}

func (s *relationServiceImpl) CreateRelation(
	ctx context.Context,
	userID int64,
	in CreateRelationInput,
) (*domain.Relation, error) {
	rel, err := domain.NewRelation(userID, in.SourceNoteID, in.TargetNoteID, in.RelationTypes)
	if err != nil {
		return nil, err
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		return s.relations.WithTx(tx).Create(ctx, rel)
	})
	if err != nil {
		return nil, NewServiceError("relation", "create_relation", "failed to save relation", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("relation created",
		slog.Int64("relation_id", rel.ID),
		slog.Int64("source_note_id", rel.SourceNoteID),
		slog.Int64("target_note_id", rel.TargetNoteID))
	return rel, nil
}

func (s *relationServiceImpl) UpdateRelation(
	ctx context.Context,
	userID, relationID int64,
	in UpdateRelationInput,
) (*domain.Relation, error) {
	if in.IsEmpty() {
		return nil, domain.NewValidationError("", "at least one of source_note_id, target_note_id or relation_types must be provided", domain.ErrEmptyUpdate)
	}
	if in.RelationTypes != nil {
		if _, err := domain.NormalizeRelationTypes(in.RelationTypes); err != nil {
			return nil, err
		}
	}

	var rel *domain.Relation
	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		relations := s.relations.WithTx(tx)

		current, err := relations.GetByID(ctx, userID, relationID)
		if err != nil {
			return err
		}
		if in.SourceNoteID != nil {
			current.SourceNoteID = *in.SourceNoteID
		}
		if in.TargetNoteID != nil {
			current.TargetNoteID = *in.TargetNoteID
		}
		if in.RelationTypes != nil {
			current.RelationTypes = in.RelationTypes
		}
		if err := current.Validate(); err != nil {
			return err
		}
		if err := relations.Update(ctx, current); err != nil {
			return err
		}
		rel = current
		return nil
	})
	if err != nil {
		return nil, NewServiceError("relation", "update_relation", "failed to update relation", err)
	}
	return rel, nil
}

func (s *relationServiceImpl) DeleteRelation(ctx context.Context, userID, relationID int64) (*domain.Relation, error) {
	rel, err := s.relations.Delete(ctx, userID, relationID)
	if err != nil {
		return nil, NewServiceError("relation", "delete_relation", "failed to delete relation", err)
	}
	return rel, nil
}

func nonNilRelations(rels []*domain.Relation) []*domain.Relation {
	if rels == nil {
		return []*domain.Relation{}
	}
	return rels
}
