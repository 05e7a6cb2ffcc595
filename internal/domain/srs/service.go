package srs

import (
	"time"

	"github.com/synapse-srs/synapse-api/internal/domain"
)

// ErrInvalidQuality is returned for ratings outside [0,5] or NaN.
var ErrInvalidQuality = domain.ErrInvalidQuality

// Service defines the review scheduler.
type Service interface {
	// CalculateNextReview computes the scheduling state that follows a review
	// of the given quality performed at now.
	CalculateNextReview(state domain.ReviewState, quality float64, now time.Time) (domain.ReviewState, error)
}

// defaultService is the standard SM-2 implementation of Service.
type defaultService struct {
	params *Params
}

// NewDefaultService creates a scheduler with default SM-2 parameters.
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a scheduler with custom parameters.
func NewServiceWithParams(params *Params) Service {
	return &defaultService{
		params: params,
	}
}

// CalculateNextReview implements Service.
func (s *defaultService) CalculateNextReview(
	state domain.ReviewState,
	quality float64,
	now time.Time,
) (domain.ReviewState, error) {
	if err := domain.ValidateQuality(quality); err != nil {
		return domain.ReviewState{}, err
	}
	return calculateNextState(state, quality, now, s.params), nil
}
