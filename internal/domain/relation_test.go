package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRelation(t *testing.T) {
	t.Parallel()

	rel, err := NewRelation(1, 10, 11, []RelationType{RelationLinked, RelationSupports, RelationLinked})
	require.NoError(t, err)
	assert.Equal(t, []RelationType{RelationLinked, RelationSupports}, rel.RelationTypes)
	assert.True(t, rel.HasType(RelationSupports))
	assert.False(t, rel.HasType(RelationCustom))

	tests := []struct {
		name    string
		source  int64
		target  int64
		types   []RelationType
		wantErr error
	}{
		{"empty types", 10, 11, nil, ErrEmptyRelationTypes},
		{"empty slice", 10, 11, []RelationType{}, ErrEmptyRelationTypes},
		{"unknown type", 10, 11, []RelationType{"sibling"}, ErrInvalidRelationType},
		{"self relation", 10, 10, []RelationType{RelationLinked}, ErrSelfRelation},
		{"bad source", 0, 11, []RelationType{RelationLinked}, ErrInvalidID},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewRelation(1, tc.source, tc.target, tc.types)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestParseRelationType(t *testing.T) {
	t.Parallel()
	for _, rt := range RelationTypes {
		got, err := ParseRelationType(string(rt))
		require.NoError(t, err)
		assert.Equal(t, rt, got)
	}
	_, err := ParseRelationType("PARENT_CHILD")
	assert.ErrorIs(t, err, ErrInvalidRelationType)
}
