package api

import (
	"log/slog"
	"net/http"

	"github.com/synapse-srs/synapse-api/internal/api/shared"
	"github.com/synapse-srs/synapse-api/internal/platform/logger"
	"github.com/synapse-srs/synapse-api/internal/service"
)

// NoteHandler serves the /notes endpoints, including the card operations
// nested under a note.
type NoteHandler struct {
	notes  service.NoteService
	cards  service.CardService
	logger *slog.Logger
}

// NewNoteHandler creates a NoteHandler.
func NewNoteHandler(notes service.NoteService, cards service.CardService, log *slog.Logger) *NoteHandler {
	if log == nil {
		log = slog.Default()
	}
	return &NoteHandler{
		notes:  notes,
		cards:  cards,
		logger: log.With(slog.String("component", "note_handler")),
	}
}

// ListNotes handles GET /notes.
func (h *NoteHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	notes, err := h.notes.ListNotes(r.Context(), user.ID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, notes)
}

// GetNote handles GET /notes/{id}.
func (h *NoteHandler) GetNote(w http.ResponseWriter, r *http.Request) {
	user, noteID, ok := requireUserAndID(w, r)
	if !ok {
		return
	}

	note, err := h.notes.GetNote(r.Context(), user.ID, noteID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, note)
}

// CreateNote handles POST /notes.
func (h *NoteHandler) CreateNote(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req CreateNoteRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	note, err := h.notes.CreateNote(r.Context(), user.ID, req.Title, req.Content)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusCreated, note)
}

// UpdateNote handles PUT /notes/{id}.
func (h *NoteHandler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	user, noteID, ok := requireUserAndID(w, r)
	if !ok {
		return
	}
	var req UpdateNoteRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	note, err := h.notes.UpdateNote(r.Context(), user.ID, noteID, req.toUpdate())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, note)
}

// DeleteNote handles DELETE /notes/{id}. This hard-deletes the note's cards
// along with their review history, and the relations touching the note.
func (h *NoteHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	user, noteID, ok := requireUserAndID(w, r)
	if !ok {
		return
	}

	note, err := h.notes.DeleteNote(r.Context(), user.ID, noteID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, note)
}

// ListNoteCards handles GET /notes/{id}/cards.
func (h *NoteHandler) ListNoteCards(w http.ResponseWriter, r *http.Request) {
	user, noteID, ok := requireUserAndID(w, r)
	if !ok {
		return
	}

	cards, err := h.notes.ListNoteCards(r.Context(), user.ID, noteID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, cards)
}

// CreateCardFromNote handles POST /notes/{id}/cards. The card copies the
// note's title and content.
func (h *NoteHandler) CreateCardFromNote(w http.ResponseWriter, r *http.Request) {
	user, noteID, ok := requireUserAndID(w, r)
	if !ok {
		return
	}

	card, err := h.cards.CreateCardFromNote(r.Context(), user.ID, noteID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusCreated, card)
}

// GenerateCards handles POST /notes/{id}/cards/generate.
func (h *NoteHandler) GenerateCards(w http.ResponseWriter, r *http.Request) {
	user, noteID, ok := requireUserAndID(w, r)
	if !ok {
		return
	}

	cards, err := h.cards.GenerateCards(r.Context(), user.ID, noteID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Info("cards generated",
		slog.Int64("note_id", noteID),
		slog.Int("count", len(cards)))
	shared.RespondWithData(w, r, http.StatusCreated, cards)
}
