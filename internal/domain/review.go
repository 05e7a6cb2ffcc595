package domain

import (
	"math"
	"time"
)

// Quality bounds for a review rating.
const (
	MinQuality = 0.0
	MaxQuality = 5.0
)

// ReviewHistoryEntry is the immutable audit record written once per review.
type ReviewHistoryEntry struct {
	ID          int64     `json:"id"`
	CardID      int64     `json:"card_id"`
	UserID      int64     `json:"user_id"`
	Quality     float64   `json:"quality"`
	Interval    int       `json:"interval"`
	EaseFactor  float64   `json:"ease_factor"`
	ReviewDate  time.Time `json:"review_date"`
	NextDueDate time.Time `json:"next_due_date"`
	CreatedAt   time.Time `json:"created_at"`
}

// ValidateQuality rejects ratings outside [0,5] and NaN.
func ValidateQuality(quality float64) error {
	if math.IsNaN(quality) || quality < MinQuality || quality > MaxQuality {
		return NewValidationError("rating", "rating must be between 0 and 5", ErrInvalidQuality)
	}
	return nil
}

// NewReviewHistoryEntry records the outcome of reviewing card at reviewedAt.
// The card must already carry its post-review scheduling state.
func NewReviewHistoryEntry(card *Card, quality float64, reviewedAt time.Time) (*ReviewHistoryEntry, error) {
	if err := ValidateQuality(quality); err != nil {
		return nil, err
	}
	if card.DueDate == nil {
		return nil, NewValidationError("due_date", "reviewed card must have a due date", nil)
	}
	return &ReviewHistoryEntry{
		CardID:      card.ID,
		UserID:      card.UserID,
		Quality:     quality,
		Interval:    card.Interval,
		EaseFactor:  card.EaseFactor,
		ReviewDate:  reviewedAt,
		NextDueDate: *card.DueDate,
		CreatedAt:   reviewedAt,
	}, nil
}
