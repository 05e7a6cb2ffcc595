package gemini

import "github.com/synapse-srs/synapse-api/internal/generation"

// promptData is passed to the prompt template.
type promptData struct {
	Text     string
	MaxCards int
}

// responseSchema is the JSON document the model is asked to return.
type responseSchema struct {
	Cards []generation.CardDraft `json:"cards"`
}
