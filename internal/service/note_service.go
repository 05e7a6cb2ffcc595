package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/synapse-srs/synapse-api/internal/domain"
	"github.com/synapse-srs/synapse-api/internal/platform/logger"
	"github.com/synapse-srs/synapse-api/internal/store"
)

// NoteService manages notes.
type NoteService interface {
	ListNotes(ctx context.Context, userID int64) ([]*domain.Note, error)
	GetNote(ctx context.Context, userID, noteID int64) (*domain.Note, error)
	CreateNote(ctx context.Context, userID int64, title string, content *string) (*domain.Note, error)
	UpdateNote(ctx context.Context, userID, noteID int64, update domain.NoteUpdate) (*domain.Note, error)
	// DeleteNote removes the note together with its cards and relations.
	DeleteNote(ctx context.Context, userID, noteID int64) (*domain.Note, error)
	// ListNoteCards returns the cards derived from the note.
	ListNoteCards(ctx context.Context, userID, noteID int64) ([]*domain.Card, error)
}

type noteServiceImpl struct {
	notes  store.NoteStore
	cards  store.CardStore
	clock  func() time.Time
	logger *slog.Logger
}

// NewNoteService creates a NoteService.
func NewNoteService(notes store.NoteStore, cards store.CardStore, log *slog.Logger) (NoteService, error) {
	if notes == nil {
		return nil, domain.NewValidationError("notes", "cannot be nil", nil)
	}
	if cards == nil {
		return nil, domain.NewValidationError("cards", "cannot be nil", nil)
	}
	if log == nil {
		log = slog.Default()
	}
	return &noteServiceImpl{
		notes:  notes,
		cards:  cards,
		clock:  time.Now,
		logger: log.With(slog.String("component", "note_service")),
	}, nil
}

func (s *noteServiceImpl) ListNotes(ctx context.Context, userID int64) ([]*domain.Note, error) {
	notes, err := s.notes.List(ctx, userID)
	if err != nil {
		return nil, NewServiceError("note", "list_notes", "failed to list notes", err)
	}
	if notes == nil {
		notes = []*domain.Note{}
	}
	return notes, nil
}

func (s *noteServiceImpl) GetNote(ctx context.Context, userID, noteID int64) (*domain.Note, error) {
	note, err := s.notes.GetByID(ctx, userID, noteID)
	if err != nil {
		return nil, NewServiceError("note", "get_note", "failed to get note", err)
	}
	return note, nil
}

func (s *noteServiceImpl) CreateNote(
	ctx context.Context,
	userID int64,
	title string,
	content *string,
) (*domain.Note, error) {
	note, err := domain.NewNote(userID, title, content)
	if err != nil {
		return nil, err
	}
	if err := s.notes.Create(ctx, note); err != nil {
		return nil, NewServiceError("note", "create_note", "failed to save note", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("note created", slog.Int64("note_id", note.ID))
	return note, nil
}

func (s *noteServiceImpl) UpdateNote(
	ctx context.Context,
	userID, noteID int64,
	update domain.NoteUpdate,
) (*domain.Note, error) {
	if update.IsEmpty() {
		return nil, domain.NewValidationError("", "at least one of title or content must be provided", domain.ErrEmptyUpdate)
	}

	note, err := s.notes.GetByID(ctx, userID, noteID)
	if err != nil {
		return nil, NewServiceError("note", "update_note", "failed to load note", err)
	}
	if err := update.Apply(note, s.clock().UTC()); err != nil {
		return nil, err
	}
	if err := s.notes.Update(ctx, note); err != nil {
		return nil, NewServiceError("note", "update_note", "failed to save note", err)
	}
	return note, nil
}

func (s *noteServiceImpl) DeleteNote(ctx context.Context, userID, noteID int64) (*domain.Note, error) {
	note, err := s.notes.Delete(ctx, userID, noteID)
	if err != nil {
		return nil, NewServiceError("note", "delete_note", "failed to delete note", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("note deleted", slog.Int64("note_id", noteID))
	return note, nil
}

func (s *noteServiceImpl) ListNoteCards(ctx context.Context, userID, noteID int64) ([]*domain.Card, error) {
	if _, err := s.notes.GetByID(ctx, userID, noteID); err != nil {
		return nil, NewServiceError("note", "list_note_cards", "failed to load note", err)
	}
	cards, err := s.cards.ListByNote(ctx, userID, noteID)
	if err != nil {
		return nil, NewServiceError("note", "list_note_cards", "failed to list cards", err)
	}
	if cards == nil {
		cards = []*domain.Card{}
	}
	return cards, nil
}
