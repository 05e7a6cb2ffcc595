package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/synapse-srs/synapse-api/internal/api/shared"
	"github.com/synapse-srs/synapse-api/internal/service"
)

// RelationHandler serves the /relations endpoints.
type RelationHandler struct {
	relations service.RelationService
	logger    *slog.Logger
}

// NewRelationHandler creates a RelationHandler.
func NewRelationHandler(relations service.RelationService, log *slog.Logger) *RelationHandler {
	if log == nil {
		log = slog.Default()
	}
	return &RelationHandler{
		relations: relations,
		logger:    log.With(slog.String("component", "relation_handler")),
	}
}

// ListRelations handles GET /relations.
func (h *RelationHandler) ListRelations(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	relations, err := h.relations.ListRelations(r.Context(), user.ID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, relations)
}

// GetRelation handles GET /relations/{id}.
func (h *RelationHandler) GetRelation(w http.ResponseWriter, r *http.Request) {
	user, relationID, ok := requireUserAndID(w, r)
	if !ok {
		return
	}

	relation, err := h.relations.GetRelation(r.Context(), user.ID, relationID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, relation)
}

// ListRelationsByNote handles GET /relations/note/{id}: every relation in
// which the note is source or target.
func (h *RelationHandler) ListRelationsByNote(w http.ResponseWriter, r *http.Request) {
	user, noteID, ok := requireUserAndID(w, r)
	if !ok {
		return
	}

	relations, err := h.relations.ListRelationsByNote(r.Context(), user.ID, noteID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, relations)
}

// ListRelationsByType handles GET /relations/type/{type}.
func (h *RelationHandler) ListRelationsByType(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	relations, err := h.relations.ListRelationsByType(r.Context(), user.ID, chi.URLParam(r, "type"))
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, relations)
}

// CreateRelation handles POST /relations.
func (h *RelationHandler) CreateRelation(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req CreateRelationRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	relation, err := h.relations.CreateRelation(r.Context(), user.ID, req.toInput())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusCreated, relation)
}

// UpdateRelation handles PUT /relations/{id}.
func (h *RelationHandler) UpdateRelation(w http.ResponseWriter, r *http.Request) {
	user, relationID, ok := requireUserAndID(w, r)
	if !ok {
		return
	}
	var req UpdateRelationRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	relation, err := h.relations.UpdateRelation(r.Context(), user.ID, relationID, req.toInput())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, relation)
}

// DeleteRelation handles DELETE /relations/{id}.
func (h *RelationHandler) DeleteRelation(w http.ResponseWriter, r *http.Request) {
	user, relationID, ok := requireUserAndID(w, r)
	if !ok {
		return
	}

	relation, err := h.relations.DeleteRelation(r.Context(), user.ID, relationID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, relation)
}
