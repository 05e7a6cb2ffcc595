package srs

import "github.com/synapse-srs/synapse-api/internal/domain"

// Params defines the tunable constants of the SM-2 scheduler.
type Params struct {
	// MinEaseFactor is the hard floor for the ease factor.
	MinEaseFactor float64

	// PassingQuality is the lowest rating counted as a successful recall.
	PassingQuality float64

	// FirstInterval and SecondInterval are the fixed learning-phase
	// intervals, in days, after the first and second successful reviews.
	FirstInterval  int
	SecondInterval int

	// FailedInterval is the interval, in days, after a failed recall.
	FailedInterval int

	// MaxInterval caps the interval, in days, of a graduated card.
	MaxInterval int
}

// ParamsConfig allows overriding the default parameters. Zero values keep the default.
type ParamsConfig struct {
	MinEaseFactor  float64
	PassingQuality float64
	FirstInterval  int
	SecondInterval int
	FailedInterval int
	MaxInterval    int
}

// DefaultMaxInterval is roughly one hundred years.
const DefaultMaxInterval = 36500

// NewDefaultParams returns the classic SM-2 constants.
func NewDefaultParams() *Params {
	return &Params{
		MinEaseFactor:  domain.MinEaseFactor,
		PassingQuality: 3,
		FirstInterval:  1,
		SecondInterval: 6,
		FailedInterval: 1,
		MaxInterval:    DefaultMaxInterval,
	}
}

// NewParams creates Params from the defaults with non-zero overrides applied.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.MinEaseFactor > 0 {
		params.MinEaseFactor = config.MinEaseFactor
	}
	if config.PassingQuality > 0 {
		params.PassingQuality = config.PassingQuality
	}
	if config.FirstInterval > 0 {
		params.FirstInterval = config.FirstInterval
	}
	if config.SecondInterval > 0 {
		params.SecondInterval = config.SecondInterval
	}
	if config.FailedInterval > 0 {
		params.FailedInterval = config.FailedInterval
	}
	if config.MaxInterval > 0 {
		params.MaxInterval = config.MaxInterval
	}

	return params
}
