package srs

import (
	"math"
	"time"

	"github.com/synapse-srs/synapse-api/internal/domain"
)

// calculateNewEaseFactor applies the SM-2 ease-factor update for a passing
// rating and clamps the result to params.MinEaseFactor.
//
//	EF' = EF + (0.1 - (5-q) * (0.08 + (5-q) * 0.02))
//
// A perfect rating (q=5) adds 0.1, q=4 leaves the factor unchanged and q=3
// subtracts 0.14. Fractional ratings are evaluated with the same formula.
func calculateNewEaseFactor(currentEF, quality float64, params *Params) float64 {
	miss := domain.MaxQuality - quality
	newEF := currentEF + (0.1 - miss*(0.08+miss*0.02))

	if newEF < params.MinEaseFactor {
		newEF = params.MinEaseFactor
	}
	return newEF
}

// calculateNewInterval returns the next interval in days after a successful
// recall. The first two successes use fixed learning intervals; after that
// the previous interval grows by the card's current ease factor, capped at
// params.MaxInterval.
func calculateNewInterval(repetitions, currentInterval int, easeFactor float64, params *Params) int {
	switch repetitions {
	case 0:
		return params.FirstInterval
	case 1:
		return params.SecondInterval
	}

	grown := math.Round(float64(currentInterval) * easeFactor)
	if params.MaxInterval > 0 && grown > float64(params.MaxInterval) {
		return params.MaxInterval
	}
	return int(grown)
}

// calculateNextReviewDate converts an interval into an absolute due date
// exactly interval×24h after now. Calendar arithmetic runs in UTC, where every
// day is 24h.
func calculateNextReviewDate(interval int, now time.Time) time.Time {
	return now.UTC().AddDate(0, 0, interval).In(now.Location())
}

// calculateNextState computes the scheduling state after a review.
// The input state is never modified.
//
// Passing ratings advance the repetition count, grow the interval and adjust
// the ease factor. Failing ratings return the card to the learning phase
// (repetitions 0, interval FailedInterval) with the ease factor untouched.
func calculateNextState(state domain.ReviewState, quality float64, now time.Time, params *Params) domain.ReviewState {
	next := domain.ReviewState{EaseFactor: state.EaseFactor}

	if quality >= params.PassingQuality {
		next.Interval = calculateNewInterval(state.Repetitions, state.Interval, state.EaseFactor, params)
		next.Repetitions = state.Repetitions + 1
		next.EaseFactor = calculateNewEaseFactor(state.EaseFactor, quality, params)
	} else {
		next.Interval = params.FailedInterval
		next.Repetitions = 0
	}

	due := calculateNextReviewDate(next.Interval, now)
	next.DueDate = &due
	return next
}
