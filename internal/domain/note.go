package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// MaxTitleLength bounds note and card titles.
const MaxTitleLength = 255

// Note is a user-authored piece of knowledge that cards are derived from.
type Note struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Title     string    `json:"title"`
	Content   *string   `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewNote creates an unsaved note owned by userID.
func NewNote(userID int64, title string, content *string) (*Note, error) {
	now := time.Now().UTC()
	note := &Note{
		UserID:    userID,
		Title:     strings.TrimSpace(title),
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := note.Validate(); err != nil {
		return nil, err
	}
	return note, nil
}

// Validate checks ownership and title bounds.
func (n *Note) Validate() error {
	if n.UserID <= 0 {
		return NewValidationError("user_id", "user ID must be positive", ErrInvalidID)
	}
	return validateTitle(n.Title)
}

// NoteUpdate is a partial note update. Nil fields are left untouched.
type NoteUpdate struct {
	Title   *string
	Content *string
}

// IsEmpty reports whether the update carries no fields.
func (u NoteUpdate) IsEmpty() bool {
	return u.Title == nil && u.Content == nil
}

// Apply validates the update and writes it onto the note.
func (u NoteUpdate) Apply(n *Note, now time.Time) error {
	if u.IsEmpty() {
		return NewValidationError("", "at least one of title or content must be provided", ErrEmptyUpdate)
	}
	if u.Title != nil {
		title := strings.TrimSpace(*u.Title)
		if err := validateTitle(title); err != nil {
			return err
		}
		n.Title = title
	}
	if u.Content != nil {
		n.Content = u.Content
	}
	n.UpdatedAt = now
	return nil
}

func validateTitle(title string) error {
	if title == "" {
		return NewValidationError("title", "title is required", ErrEmptyContent)
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return NewValidationError("title", "title cannot exceed 255 characters", nil)
	}
	return nil
}
