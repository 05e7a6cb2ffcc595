package api

import (
	"time"

	"github.com/synapse-srs/synapse-api/internal/domain"
	"github.com/synapse-srs/synapse-api/internal/service"
)

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Name     string `json:"name"     validate:"max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshTokenRequest is the body of POST /auth/refresh.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// LogoutRequest is the body of POST /auth/logout. The token is optional.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	User   UserResponse      `json:"user"`
	Tokens service.TokenPair `json:"tokens"`
}

func userToResponse(u *domain.User) UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email, Name: u.Name, CreatedAt: u.CreatedAt}
}

// CreateCardRequest is the body of POST /cards. Without note_id a note
// titled after the card is created in the same transaction.
type CreateCardRequest struct {
	NoteID      *int64  `json:"note_id"     validate:"omitempty,gt=0"`
	Title       string  `json:"title"       validate:"required,max=255"`
	Description *string `json:"description"`
}

// UpdateCardRequest is the body of PUT /cards/{id}. Absent fields are kept.
type UpdateCardRequest struct {
	NoteID      *int64  `json:"note_id"     validate:"omitempty,gt=0"`
	Title       *string `json:"title"       validate:"omitempty,max=255"`
	Description *string `json:"description"`
}

func (r UpdateCardRequest) toUpdate() domain.CardUpdate {
	return domain.CardUpdate{NoteID: r.NoteID, Title: r.Title, Description: r.Description}
}

// ReviewCardRequest is the body of PUT /cards/{id}/review.
type ReviewCardRequest struct {
	Rating *float64 `json:"rating" validate:"required,gte=0,lte=5"`
}

// CreateNoteRequest is the body of POST /notes.
type CreateNoteRequest struct {
	Title   string  `json:"title"   validate:"required,max=255"`
	Content *string `json:"content"`
}

// UpdateNoteRequest is the body of PUT /notes/{id}. Absent fields are kept.
type UpdateNoteRequest struct {
	Title   *string `json:"title"   validate:"omitempty,max=255"`
	Content *string `json:"content"`
}

func (r UpdateNoteRequest) toUpdate() domain.NoteUpdate {
	return domain.NoteUpdate{Title: r.Title, Content: r.Content}
}

// CreateRelationRequest is the body of POST /relations.
type CreateRelationRequest struct {
	SourceNoteID  int64    `json:"source_note_id" validate:"required,gt=0"`
	TargetNoteID  int64    `json:"target_note_id" validate:"required,gt=0"`
	RelationTypes []string `json:"relation_types"`
}

func (r CreateRelationRequest) toInput() service.CreateRelationInput {
	return service.CreateRelationInput{
		SourceNoteID:  r.SourceNoteID,
		TargetNoteID:  r.TargetNoteID,
		RelationTypes: toRelationTypes(r.RelationTypes),
	}
}

// UpdateRelationRequest is the body of PUT /relations/{id}. A present
// relation_types list replaces the whole set.
type UpdateRelationRequest struct {
	SourceNoteID  *int64   `json:"source_note_id" validate:"omitempty,gt=0"`
	TargetNoteID  *int64   `json:"target_note_id" validate:"omitempty,gt=0"`
	RelationTypes []string `json:"relation_types"`
}

func (r UpdateRelationRequest) toInput() service.UpdateRelationInput {
	return service.UpdateRelationInput{
		SourceNoteID:  r.SourceNoteID,
		TargetNoteID:  r.TargetNoteID,
		RelationTypes: toRelationTypes(r.RelationTypes),
	}
}

// toRelationTypes keeps the nil/empty distinction of the decoded list.
func toRelationTypes(raw []string) []domain.RelationType {
	if raw == nil {
		return nil
	}
	out := make([]domain.RelationType, len(raw))
	for i, t := range raw {
		out[i] = domain.RelationType(t)
	}
	return out
}
