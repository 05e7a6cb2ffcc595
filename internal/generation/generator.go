package generation

import (
	"context"
	"strings"
)

// Source is the note text a generator works from.
type Source struct {
	Title   string
	Content string
}

// Text joins title and content the way they are shown to the model.
func (s Source) Text() string {
	title := strings.TrimSpace(s.Title)
	content := strings.TrimSpace(s.Content)
	switch {
	case content == "":
		return title
	case title == "":
		return content
	default:
		return title + "\n\n" + content
	}
}

// CardDraft is one generated flashcard before it is persisted.
type CardDraft struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// Generator drafts flashcards from note text.
type Generator interface {
	// GenerateCards returns at most maxCards drafts for src.
	GenerateCards(ctx context.Context, src Source, maxCards int) ([]CardDraft, error)
}

// Unavailable is the Generator used when no model is configured.
type Unavailable struct{}

// GenerateCards implements Generator and always fails with ErrUnavailable.
func (Unavailable) GenerateCards(context.Context, Source, int) ([]CardDraft, error) {
	return nil, ErrUnavailable
}
