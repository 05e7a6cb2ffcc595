package api

import (
	"net/http"

	"github.com/synapse-srs/synapse-api/internal/api/shared"
	"github.com/synapse-srs/synapse-api/internal/service"
)

// ReviewHandler serves GET /reviews.
type ReviewHandler struct {
	reviews service.ReviewHistoryService
}

// NewReviewHandler creates a ReviewHandler.
func NewReviewHandler(reviews service.ReviewHistoryService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// ListReviews returns the user's whole review history, newest first.
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	entries, err := h.reviews.ListReviews(r.Context(), user.ID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, entries)
}
