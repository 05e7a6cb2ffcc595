package domain

import (
	"strings"
	"time"
)

// Scheduling defaults for a card that has never been reviewed.
const (
	DefaultEaseFactor = 2.5
	MinEaseFactor     = 1.3
)

// ReviewState is the scheduling state the review scheduler works on.
// A nil DueDate means the card has never been scheduled and is due now.
type ReviewState struct {
	EaseFactor  float64    `json:"ease_factor"`
	Repetitions int        `json:"repetitions"`
	Interval    int        `json:"interval"`
	DueDate     *time.Time `json:"due_date"`
}

// NewReviewState returns the state of a freshly created card.
func NewReviewState() ReviewState {
	return ReviewState{EaseFactor: DefaultEaseFactor}
}

// IsDue reports whether the state is eligible for review at now.
func (s ReviewState) IsDue(now time.Time) bool {
	return s.DueDate == nil || !s.DueDate.After(now)
}

// Card is a flashcard derived from a note. Title and description are
// denormalized copies so the card survives edits to its note.
type Card struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	NoteID      int64      `json:"note_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	EaseFactor  float64    `json:"ease_factor"`
	Repetitions int        `json:"repetitions"`
	Interval    int        `json:"interval"`
	DueDate     *time.Time `json:"due_date"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewCard creates an unsaved card attached to noteID with default scheduling state.
func NewCard(userID, noteID int64, title string, description *string) (*Card, error) {
	now := time.Now().UTC()
	state := NewReviewState()
	card := &Card{
		UserID:      userID,
		NoteID:      noteID,
		Title:       strings.TrimSpace(title),
		Description: description,
		EaseFactor:  state.EaseFactor,
		Repetitions: state.Repetitions,
		Interval:    state.Interval,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := card.Validate(); err != nil {
		return nil, err
	}
	return card, nil
}

// Validate checks ownership, title bounds and the scheduling invariants.
func (c *Card) Validate() error {
	if c.UserID <= 0 {
		return NewValidationError("user_id", "user ID must be positive", ErrInvalidID)
	}
	if c.NoteID <= 0 {
		return NewValidationError("note_id", "note ID must be positive", ErrInvalidID)
	}
	if err := validateTitle(c.Title); err != nil {
		return err
	}
	if c.EaseFactor < MinEaseFactor {
		return NewValidationError("ease_factor", "ease factor cannot be below 1.3", nil)
	}
	if c.Repetitions < 0 || c.Interval < 0 {
		return NewValidationError("interval", "repetitions and interval cannot be negative", nil)
	}
	return nil
}

// State returns the card's scheduling state.
func (c *Card) State() ReviewState {
	return ReviewState{
		EaseFactor:  c.EaseFactor,
		Repetitions: c.Repetitions,
		Interval:    c.Interval,
		DueDate:     c.DueDate,
	}
}

// ApplyState copies a scheduling state onto the card.
func (c *Card) ApplyState(s ReviewState, now time.Time) {
	c.EaseFactor = s.EaseFactor
	c.Repetitions = s.Repetitions
	c.Interval = s.Interval
	c.DueDate = s.DueDate
	c.UpdatedAt = now
}

// CardUpdate is a partial card update. Nil fields are left untouched.
type CardUpdate struct {
	NoteID      *int64
	Title       *string
	Description *string
}

// IsEmpty reports whether the update carries no fields.
func (u CardUpdate) IsEmpty() bool {
	return u.NoteID == nil && u.Title == nil && u.Description == nil
}

// Apply validates the update and writes it onto the card.
func (u CardUpdate) Apply(c *Card, now time.Time) error {
	if u.IsEmpty() {
		return NewValidationError("", "at least one of title, description or note_id must be provided", ErrEmptyUpdate)
	}
	if u.NoteID != nil {
		if *u.NoteID <= 0 {
			return NewValidationError("note_id", "note ID must be positive", ErrInvalidID)
		}
		c.NoteID = *u.NoteID
	}
	if u.Title != nil {
		title := strings.TrimSpace(*u.Title)
		if err := validateTitle(title); err != nil {
			return err
		}
		c.Title = title
	}
	if u.Description != nil {
		c.Description = u.Description
	}
	c.UpdatedAt = now
	return nil
}
