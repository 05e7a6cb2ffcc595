package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/synapse-srs/synapse-api/internal/api/shared"
	"github.com/synapse-srs/synapse-api/internal/platform/logger"
	"github.com/synapse-srs/synapse-api/internal/service"
)

// CardHandler serves the /cards endpoints.
type CardHandler struct {
	cards   service.CardService
	reviews service.ReviewHistoryService
	clock   func() time.Time
	logger  *slog.Logger
}

// NewCardHandler creates a CardHandler.
func NewCardHandler(
	cards service.CardService,
	reviews service.ReviewHistoryService,
	log *slog.Logger,
) *CardHandler {
	if log == nil {
		log = slog.Default()
	}
	return &CardHandler{
		cards:   cards,
		reviews: reviews,
		clock:   time.Now,
		logger:  log.With(slog.String("component", "card_handler")),
	}
}

// ListCards handles GET /cards.
func (h *CardHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	cards, err := h.cards.ListCards(r.Context(), user.ID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, cards)
}

// ListDueCards handles GET /cards/review.
func (h *CardHandler) ListDueCards(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	cards, err := h.cards.ListDueCards(r.Context(), user.ID, h.clock().UTC())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, cards)
}

// GetCard handles GET /cards/{id}.
func (h *CardHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	user, cardID, ok := requireUserAndID(w, r)
	if !ok {
		return
	}

	card, err := h.cards.GetCard(r.Context(), user.ID, cardID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, card)
}

// CreateCard handles POST /cards.
func (h *CardHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req CreateCardRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	card, err := h.cards.CreateCard(r.Context(), user.ID, service.CreateCardInput{
		NoteID:      req.NoteID,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusCreated, card)
}

// UpdateCard handles PUT /cards/{id}.
func (h *CardHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	user, cardID, ok := requireUserAndID(w, r)
	if !ok {
		return
	}
	var req UpdateCardRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	card, err := h.cards.UpdateCard(r.Context(), user.ID, cardID, req.toUpdate())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, card)
}

// DeleteCard handles DELETE /cards/{id}. The deleted card is returned.
func (h *CardHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	user, cardID, ok := requireUserAndID(w, r)
	if !ok {
		return
	}

	card, err := h.cards.DeleteCard(r.Context(), user.ID, cardID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, card)
}

// ReviewCard handles PUT /cards/{id}/review.
func (h *CardHandler) ReviewCard(w http.ResponseWriter, r *http.Request) {
	user, cardID, ok := requireUserAndID(w, r)
	if !ok {
		return
	}
	var req ReviewCardRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	result, err := h.cards.ReviewCard(r.Context(), user.ID, cardID, *req.Rating)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("card reviewed",
		slog.Int64("card_id", cardID),
		slog.Float64("rating", *req.Rating),
		slog.Int("interval", result.Card.Interval))
	shared.RespondWithData(w, r, http.StatusOK, result)
}

// ListCardReviews handles GET /cards/{id}/reviews.
func (h *CardHandler) ListCardReviews(w http.ResponseWriter, r *http.Request) {
	user, cardID, ok := requireUserAndID(w, r)
	if !ok {
		return
	}

	entries, err := h.reviews.ListCardReviews(r.Context(), user.ID, cardID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, entries)
}
