package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/synapse-srs/synapse-api/internal/domain"
	"github.com/synapse-srs/synapse-api/internal/domain/srs"
	"github.com/synapse-srs/synapse-api/internal/generation"
	"github.com/synapse-srs/synapse-api/internal/platform/logger"
	"github.com/synapse-srs/synapse-api/internal/store"
)

// CreateCardInput describes a new card. When NoteID is nil a note with the
// same title and description is created alongside the card.
type CreateCardInput struct {
	NoteID      *int64
	Title       string
	Description *string
}

// ReviewResult is the outcome of a single review.
type ReviewResult struct {
	Card  *domain.Card               `json:"card"`
	Entry *domain.ReviewHistoryEntry `json:"review"`
}

// CardService manages the card lifecycle and reviews.
type CardService interface {
	// ListCards returns all cards of the user. An empty deck is reported as
	// store.ErrCardNotFound.
	ListCards(ctx context.Context, userID int64) ([]*domain.Card, error)

	// ListDueCards returns cards due at now, never-scheduled cards first.
	// No due cards is reported as store.ErrCardNotFound.
	ListDueCards(ctx context.Context, userID int64, now time.Time) ([]*domain.Card, error)

	GetCard(ctx context.Context, userID, cardID int64) (*domain.Card, error)
	CreateCard(ctx context.Context, userID int64, in CreateCardInput) (*domain.Card, error)
	CreateCardFromNote(ctx context.Context, userID, noteID int64) (*domain.Card, error)
	UpdateCard(ctx context.Context, userID, cardID int64, update domain.CardUpdate) (*domain.Card, error)
	DeleteCard(ctx context.Context, userID, cardID int64) (*domain.Card, error)

	// ReviewCard schedules the card from the given quality and records the
	// review. The card update and history insert commit together or not at all.
	ReviewCard(ctx context.Context, userID, cardID int64, quality float64) (*ReviewResult, error)

	// GenerateCards drafts cards from a note with the configured generator
	// and stores them in one transaction.
	GenerateCards(ctx context.Context, userID, noteID int64) ([]*domain.Card, error)
}

// CardServiceDeps holds the collaborators of the card service.
type CardServiceDeps struct {
	Transactor store.Transactor
	Cards      store.CardStore
	Notes      store.NoteStore
	Reviews    store.ReviewStore
	Scheduler  srs.Service
	// Generator is optional; without it GenerateCards fails with
	// generation.ErrUnavailable.
	Generator generation.Generator
	// MaxGeneratedCards caps a single generation request.
	MaxGeneratedCards int
	// Clock defaults to time.Now.
	Clock  func() time.Time
	Logger *slog.Logger
}

type cardServiceImpl struct {
	tx        store.Transactor
	cards     store.CardStore
	notes     store.NoteStore
	reviews   store.ReviewStore
	scheduler srs.Service
	generator generation.Generator
	maxCards  int
	clock     func() time.Time
	logger    *slog.Logger
}

// NewCardService creates a CardService. It returns an error if a required
// dependency is nil.
func NewCardService(deps CardServiceDeps) (CardService, error) {
	switch {
	case deps.Transactor == nil:
		return nil, domain.NewValidationError("transactor", "cannot be nil", nil)
	case deps.Cards == nil:
		return nil, domain.NewValidationError("cards", "cannot be nil", nil)
	case deps.Notes == nil:
		return nil, domain.NewValidationError("notes", "cannot be nil", nil)
	case deps.Reviews == nil:
		return nil, domain.NewValidationError("reviews", "cannot be nil", nil)
	case deps.Scheduler == nil:
		return nil, domain.NewValidationError("scheduler", "cannot be nil", nil)
	}

	s := &cardServiceImpl{
		tx:        deps.Transactor,
		cards:     deps.Cards,
		notes:     deps.Notes,
		reviews:   deps.Reviews,
		scheduler: deps.Scheduler,
		generator: deps.Generator,
		maxCards:  deps.MaxGeneratedCards,
		clock:     deps.Clock,
		logger:    deps.Logger,
	}
	if s.generator == nil {
		s.generator = generation.Unavailable{}
	}
	if s.maxCards <= 0 {
		s.maxCards = 10
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.logger = s.logger.With(slog.String("component", "card_service"))
	return s, nil
}

func (s *cardServiceImpl) fail(op, msg string, err error) error {
	return NewServiceError("card", op, msg, err)
}

// ListCards implements CardService.
func (s *cardServiceImpl) ListCards(ctx context.Context, userID int64) ([]*domain.Card, error) {
	cards, err := s.cards.List(ctx, userID)
	if err != nil {
		return nil, s.fail("list_cards", "failed to list cards", err)
	}
	if len(cards) == 0 {
		return nil, store.ErrCardNotFound
	}
	return cards, nil
}

// ListDueCards implements CardService.
func (s *cardServiceImpl) ListDueCards(ctx context.Context, userID int64, now time.Time) ([]*domain.Card, error) {
	cards, err := s.cards.ListDue(ctx, userID, now)
	if err != nil {
		return nil, s.fail("list_due_cards", "failed to list due cards", err)
	}
	if len(cards) == 0 {
		return nil, store.ErrCardNotFound
	}
	return cards, nil
}

// GetCard implements CardService.
func (s *cardServiceImpl) GetCard(ctx context.Context, userID, cardID int64) (*domain.Card, error) {
	card, err := s.cards.GetByID(ctx, userID, cardID)
	if err != nil {
		return nil, s.fail("get_card", "failed to get card", err)
	}
	return card, nil
}

// CreateCard implements CardService.
func (s *cardServiceImpl) CreateCard(ctx context.Context, userID int64, in CreateCardInput) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if in.NoteID != nil {
		card, err := domain.NewCard(userID, *in.NoteID, in.Title, in.Description)
		if err != nil {
			return nil, err
		}
		if err := s.cards.Create(ctx, card); err != nil {
			return nil, s.fail("create_card", "failed to save card", err)
		}
		log.Info("card created", slog.Int64("card_id", card.ID), slog.Int64("note_id", card.NoteID))
		return card, nil
	}

	// Validate before opening a transaction.
	note, err := domain.NewNote(userID, in.Title, in.Description)
	if err != nil {
		return nil, err
	}

	var card *domain.Card
	err = s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.notes.WithTx(tx).Create(ctx, note); err != nil {
			return err
		}
		c, err := domain.NewCard(userID, note.ID, note.Title, in.Description)
		if err != nil {
			return err
		}
		if err := s.cards.WithTx(tx).Create(ctx, c); err != nil {
			return err
		}
		card = c
		return nil
	})
	if err != nil {
		return nil, s.fail("create_card", "failed to save card with implicit note", err)
	}

	log.Info("card created with implicit note",
		slog.Int64("card_id", card.ID),
		slog.Int64("note_id", note.ID))
	return card, nil
}

// CreateCardFromNote implements CardService.
func (s *cardServiceImpl) CreateCardFromNote(ctx context.Context, userID, noteID int64) (*domain.Card, error) {
	note, err := s.notes.GetByID(ctx, userID, noteID)
	if err != nil {
		return nil, s.fail("create_card_from_note", "failed to load note", err)
	}

	card, err := domain.NewCard(userID, note.ID, note.Title, note.Content)
	if err != nil {
		return nil, err
	}
	if err := s.cards.Create(ctx, card); err != nil {
		return nil, s.fail("create_card_from_note", "failed to save card", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("card derived from note",
		slog.Int64("card_id", card.ID),
		slog.Int64("note_id", note.ID))
	return card, nil
}

// UpdateCard implements CardService.
func (s *cardServiceImpl) UpdateCard(
	ctx context.Context,
	userID, cardID int64,
	update domain.CardUpdate,
) (*domain.Card, error) {
	if update.IsEmpty() {
		return nil, domain.NewValidationError("", "at least one of title, description or note_id must be provided", domain.ErrEmptyUpdate)
	}

	card, err := s.cards.GetByID(ctx, userID, cardID)
	if err != nil {
		return nil, s.fail("update_card", "failed to load card", err)
	}
	if err := update.Apply(card, s.clock().UTC()); err != nil {
		return nil, err
	}
	if err := s.cards.UpdateContent(ctx, card); err != nil {
		return nil, s.fail("update_card", "failed to save card", err)
	}
	return card, nil
}

// DeleteCard implements CardService.
func (s *cardServiceImpl) DeleteCard(ctx context.Context, userID, cardID int64) (*domain.Card, error) {
	card, err := s.cards.Delete(ctx, userID, cardID)
	if err != nil {
		return nil, s.fail("delete_card", "failed to delete card", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("card deleted", slog.Int64("card_id", cardID))
	return card, nil
}

// ReviewCard implements CardService.
func (s *cardServiceImpl) ReviewCard(
	ctx context.Context,
	userID, cardID int64,
	quality float64,
) (*ReviewResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := domain.ValidateQuality(quality); err != nil {
		return nil, err
	}
	now := s.clock().UTC()

	var result ReviewResult
	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		cards := s.cards.WithTx(tx)

		card, err := cards.GetForUpdate(ctx, userID, cardID)
		if err != nil {
			return err
		}

		next, err := s.scheduler.CalculateNextReview(card.State(), quality, now)
		if err != nil {
			return err
		}
		card.ApplyState(next, now)

		if err := cards.UpdateSchedule(ctx, card); err != nil {
			return err
		}

		entry, err := domain.NewReviewHistoryEntry(card, quality, now)
		if err != nil {
			return err
		}
		if err := s.reviews.WithTx(tx).Create(ctx, entry); err != nil {
			return err
		}

		result = ReviewResult{Card: card, Entry: entry}
		return nil
	})
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Error("review transaction failed",
				slog.Int64("card_id", cardID),
				slog.String("error", err.Error()))
		}
		return nil, s.fail("review_card", "failed to record review", err)
	}

	log.Info("card reviewed",
		slog.Int64("card_id", cardID),
		slog.Float64("quality", quality),
		slog.Int("interval", result.Card.Interval),
		slog.Float64("ease_factor", result.Card.EaseFactor))
	return &result, nil
}

// GenerateCards implements CardService.
func (s *cardServiceImpl) GenerateCards(ctx context.Context, userID, noteID int64) ([]*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	note, err := s.notes.GetByID(ctx, userID, noteID)
	if err != nil {
		return nil, s.fail("generate_cards", "failed to load note", err)
	}

	src := generation.Source{Title: note.Title}
	if note.Content != nil {
		src.Content = *note.Content
	}

	drafts, err := s.generator.GenerateCards(ctx, src, s.maxCards)
	if err != nil {
		return nil, s.fail("generate_cards", "generator failed", err)
	}

	cards := make([]*domain.Card, 0, len(drafts))
	for _, d := range drafts {
		back := d.Back
		card, err := domain.NewCard(userID, note.ID, truncateTitle(d.Front), &back)
		if err != nil {
			log.Warn("skipping generated card", slog.String("error", err.Error()))
			continue
		}
		cards = append(cards, card)
	}
	if len(cards) == 0 {
		return nil, s.fail("generate_cards", "no usable cards", generation.ErrInvalidResponse)
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txCards := s.cards.WithTx(tx)
		for _, c := range cards {
			if err := txCards.Create(ctx, c); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, s.fail("generate_cards", "failed to save generated cards", err)
	}

	log.Info("generated cards saved",
		slog.Int64("note_id", note.ID),
		slog.Int("card_count", len(cards)))
	return cards, nil
}

// truncateTitle shortens s to the maximum title length in runes.
func truncateTitle(s string) string {
	if utf8.RuneCountInString(s) <= domain.MaxTitleLength {
		return s
	}
	return string([]rune(s)[:domain.MaxTitleLength])
}
