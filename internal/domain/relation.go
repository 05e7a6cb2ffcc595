package domain

import (
	"fmt"
	"time"
)

// RelationType labels the meaning of an edge between two notes.
type RelationType string

// Known relation types.
const (
	RelationParentChild RelationType = "parent_child"
	RelationDependsOn   RelationType = "depends_on"
	RelationLinked      RelationType = "linked"
	RelationReference   RelationType = "reference"
	RelationExampleOf   RelationType = "example_of"
	RelationContradicts RelationType = "contradicts"
	RelationSupports    RelationType = "supports"
	RelationCustom      RelationType = "custom"
)

// RelationTypes lists every valid relation type.
var RelationTypes = []RelationType{
	RelationParentChild,
	RelationDependsOn,
	RelationLinked,
	RelationReference,
	RelationExampleOf,
	RelationContradicts,
	RelationSupports,
	RelationCustom,
}

// Valid reports whether t is one of the known relation types.
func (t RelationType) Valid() bool {
	for _, known := range RelationTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ParseRelationType converts a raw string into a RelationType.
func ParseRelationType(s string) (RelationType, error) {
	t := RelationType(s)
	if !t.Valid() {
		return "", NewValidationError("relation_type", fmt.Sprintf("unknown relation type %q", s), ErrInvalidRelationType)
	}
	return t, nil
}

// Relation is a directed edge between two notes carrying a non-empty set of types.
type Relation struct {
	ID            int64          `json:"id"`
	UserID        int64          `json:"user_id"`
	SourceNoteID  int64          `json:"source_note_id"`
	TargetNoteID  int64          `json:"target_note_id"`
	RelationTypes []RelationType `json:"relation_types"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// NewRelation creates an unsaved relation. Duplicate types are collapsed.
func NewRelation(userID, sourceNoteID, targetNoteID int64, types []RelationType) (*Relation, error) {
	normalized, err := NormalizeRelationTypes(types)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	rel := &Relation{
		UserID:        userID,
		SourceNoteID:  sourceNoteID,
		TargetNoteID:  targetNoteID,
		RelationTypes: normalized,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := rel.Validate(); err != nil {
		return nil, err
	}
	return rel, nil
}

// Validate checks ids, the self-edge rule and the type set.
func (r *Relation) Validate() error {
	if r.UserID <= 0 {
		return NewValidationError("user_id", "user ID must be positive", ErrInvalidID)
	}
	if r.SourceNoteID <= 0 {
		return NewValidationError("source_note_id", "source note ID must be positive", ErrInvalidID)
	}
	if r.TargetNoteID <= 0 {
		return NewValidationError("target_note_id", "target note ID must be positive", ErrInvalidID)
	}
	if r.SourceNoteID == r.TargetNoteID {
		return NewValidationError("target_note_id", "a note cannot be related to itself", ErrSelfRelation)
	}
	if _, err := NormalizeRelationTypes(r.RelationTypes); err != nil {
		return err
	}
	return nil
}

// HasType reports whether t is in the relation's type set.
func (r *Relation) HasType(t RelationType) bool {
	for _, rt := range r.RelationTypes {
		if rt == t {
			return true
		}
	}
	return false
}

// NormalizeRelationTypes validates a type set and removes duplicates,
// keeping first-seen order. An empty set is rejected.
func NormalizeRelationTypes(types []RelationType) ([]RelationType, error) {
	if len(types) == 0 {
		return nil, NewValidationError("relation_types", "at least one relation type is required", ErrEmptyRelationTypes)
	}
	seen := make(map[RelationType]struct{}, len(types))
	out := make([]RelationType, 0, len(types))
	for _, t := range types {
		if !t.Valid() {
			return nil, NewValidationError("relation_types", fmt.Sprintf("unknown relation type %q", t), ErrInvalidRelationType)
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out, nil
}
