package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"generic error", errors.New("boom"), false},
		{"ErrNotFound", ErrNotFound, true},
		{"card not found", ErrCardNotFound, true},
		{"wrapped note not found", fmt.Errorf("load: %w", ErrNoteNotFound), true},
		{"store error around relation not found", NewStoreError("relation", "get", "missing", ErrRelationNotFound), true},
		{"duplicate", ErrEmailExists, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, IsNotFoundError(tc.err))
		})
	}
}

func TestIsDuplicateError(t *testing.T) {
	t.Parallel()
	assert.True(t, IsDuplicateError(ErrEmailExists))
	assert.True(t, IsDuplicateError(fmt.Errorf("insert: %w", ErrRelationExists)))
	assert.False(t, IsDuplicateError(ErrCardNotFound))
	assert.False(t, IsDuplicateError(nil))
}

func TestStoreError(t *testing.T) {
	t.Parallel()
	cause := errors.New("connection reset")
	err := NewStoreError("card", "update", "failed to update schedule", cause)

	assert.Equal(t, "update operation on card failed: failed to update schedule: connection reset", err.Error())
	assert.ErrorIs(t, err, cause)

	bare := NewStoreError("note", "list", "scan failed", nil)
	assert.Equal(t, "list operation on note failed: scan failed", bare.Error())
}
