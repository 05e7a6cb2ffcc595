// Package generation defines the boundary between card creation and the
// language model that drafts flashcards from a note.
package generation
