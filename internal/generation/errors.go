package generation

import "errors"

// Errors returned by Generator implementations.
var (
	// ErrGenerationFailed is returned when card generation fails for any general reason.
	ErrGenerationFailed = errors.New("failed to generate cards from text")

	// ErrInvalidResponse is returned when the model response cannot be parsed or is malformed.
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when the model blocks the content due to safety filters.
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrTransientFailure is returned when retries are exhausted on temporary errors.
	ErrTransientFailure = errors.New("transient error during card generation")

	// ErrInvalidConfig is returned when the generator configuration is invalid.
	ErrInvalidConfig = errors.New("invalid generator configuration")

	// ErrUnavailable is returned when no generator is configured.
	ErrUnavailable = errors.New("card generation is not configured")

	// ErrEmptyInput is returned when the note has no text to generate from.
	ErrEmptyInput = errors.New("note has no text to generate cards from")
)
