package srs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDefaultParams(t *testing.T) {
	t.Parallel()
	p := NewDefaultParams()
	assert.Equal(t, 1.3, p.MinEaseFactor)
	assert.Equal(t, 3.0, p.PassingQuality)
	assert.Equal(t, 1, p.FirstInterval)
	assert.Equal(t, 6, p.SecondInterval)
	assert.Equal(t, 1, p.FailedInterval)
	assert.Equal(t, 36500, p.MaxInterval)
}

func TestNewParams(t *testing.T) {
	t.Parallel()

	t.Run("zero config keeps defaults", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, NewDefaultParams(), NewParams(ParamsConfig{}))
	})

	t.Run("overrides applied", func(t *testing.T) {
		t.Parallel()
		p := NewParams(ParamsConfig{MinEaseFactor: 1.5, SecondInterval: 4, PassingQuality: 3.5, MaxInterval: 365})
		assert.Equal(t, 1.5, p.MinEaseFactor)
		assert.Equal(t, 4, p.SecondInterval)
		assert.Equal(t, 3.5, p.PassingQuality)
		assert.Equal(t, 1, p.FirstInterval)
		assert.Equal(t, 365, p.MaxInterval)
	})
}
