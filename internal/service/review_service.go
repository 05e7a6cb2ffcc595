package service

import (
	"context"
	"log/slog"

	"github.com/synapse-srs/synapse-api/internal/domain"
	"github.com/synapse-srs/synapse-api/internal/store"
)

// ReviewHistoryService exposes the read-only review log.
type ReviewHistoryService interface {
	// ListReviews returns the user's reviews, newest first.
	ListReviews(ctx context.Context, userID int64) ([]*domain.ReviewHistoryEntry, error)
	// ListCardReviews returns one card's reviews, newest first.
	ListCardReviews(ctx context.Context, userID, cardID int64) ([]*domain.ReviewHistoryEntry, error)
}

type reviewHistoryServiceImpl struct {
	reviews store.ReviewStore
	cards   store.CardStore
	logger  *slog.Logger
}

// NewReviewHistoryService creates a ReviewHistoryService.
func NewReviewHistoryService(
	reviews store.ReviewStore,
	cards store.CardStore,
	log *slog.Logger,
) (ReviewHistoryService, error) {
	if reviews == nil {
		return nil, domain.NewValidationError("reviews", "cannot be nil", nil)
	}
	if cards == nil {
		return nil, domain.NewValidationError("cards", "cannot be nil", nil)
	}
	if log == nil {
		log = slog.Default()
	}
	return &reviewHistoryServiceImpl{
		reviews: reviews,
		cards:   cards,
		logger:  log.With(slog.String("component", "review_history_service")),
	}, nil
}

func (s *reviewHistoryServiceImpl) ListReviews(ctx context.Context, userID int64) ([]*domain.ReviewHistoryEntry, error) {
	entries, err := s.reviews.ListByUser(ctx, userID)
	if err != nil {
		return nil, NewServiceError("review_history", "list_reviews", "failed to list reviews", err)
	}
	return nonNilEntries(entries), nil
}

func (s *reviewHistoryServiceImpl) ListCardReviews(
	ctx context.Context,
	userID, cardID int64,
) ([]*domain.ReviewHistoryEntry, error) {
	if _, err := s.cards.GetByID(ctx, userID, cardID); err != nil {
		return nil, NewServiceError("review_history", "list_card_reviews", "failed to load card", err)
	}
	entries, err := s.reviews.ListByCard(ctx, userID, cardID)
	if err != nil {
		return nil, NewServiceError("review_history", "list_card_reviews", "failed to list reviews", err)
	}
	return nonNilEntries(entries), nil
}

func nonNilEntries(entries []*domain.ReviewHistoryEntry) []*domain.ReviewHistoryEntry {
	if entries == nil {
		return []*domain.ReviewHistoryEntry{}
	}
	return entries
}
