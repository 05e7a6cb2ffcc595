package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/synapse-srs/synapse-api/internal/api/shared"
	"github.com/synapse-srs/synapse-api/internal/domain"
	"github.com/synapse-srs/synapse-api/internal/generation"
	"github.com/synapse-srs/synapse-api/internal/redact"
	"github.com/synapse-srs/synapse-api/internal/service"
	"github.com/synapse-srs/synapse-api/internal/service/auth"
	"github.com/synapse-srs/synapse-api/internal/store"
)

// Machine-readable error codes.
const (
	CodeBadRequest            = "BAD_REQUEST"
	CodeValidation            = "VALIDATION_ERROR"
	CodeUnauthorized          = "UNAUTHORIZED"
	CodeNotFound              = "NOT_FOUND"
	CodeConflict              = "CONFLICT"
	CodeInternal              = "INTERNAL_SERVER_ERROR"
	CodeGenerationUnavailable = "GENERATION_UNAVAILABLE"
	CodeGenerationFailed      = "GENERATION_FAILED"
	CodeContentBlocked        = "CONTENT_BLOCKED"
)

// APIError is an error that knows how it is presented to clients.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details any
	Err     error
}

// NewAPIError creates an APIError without an underlying cause.
func NewAPIError(status int, code, message string, details any) *APIError {
	return &APIError{Status: status, Code: code, Message: message, Details: details}
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d %s: %s: %v", e.Status, e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// FieldError describes one invalid request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// MapError converts any error returned by a service into an APIError.
// Messages never include the text of the underlying error except for
// domain validation failures, whose messages are written for clients.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	wrap := func(status int, code, message string, details any) *APIError {
		return &APIError{Status: status, Code: code, Message: message, Details: details, Err: err}
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return wrap(http.StatusBadRequest, CodeValidation, "Validation error", fieldErrors(validationErrs))
	}

	var domainErr *domain.ValidationError
	if errors.As(err, &domainErr) {
		var details any
		if domainErr.Field != "" {
			details = []FieldError{{Field: domainErr.Field, Message: domainErr.Message}}
		}
		return wrap(http.StatusBadRequest, CodeValidation, domainErr.Error(), details)
	}

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return wrap(http.StatusUnauthorized, CodeUnauthorized, "Token expired", nil)
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return wrap(http.StatusUnauthorized, CodeUnauthorized, "Invalid token", nil)
	case errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrRevokedRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return wrap(http.StatusUnauthorized, CodeUnauthorized, "Invalid refresh token", nil)
	case errors.Is(err, service.ErrInvalidCredentials):
		return wrap(http.StatusUnauthorized, CodeUnauthorized, "Invalid email or password", nil)

	case errors.Is(err, store.ErrUserNotFound):
		return wrap(http.StatusNotFound, CodeNotFound, "User not found", nil)
	case errors.Is(err, store.ErrCardNotFound):
		return wrap(http.StatusNotFound, CodeNotFound, "Card not found", nil)
	case errors.Is(err, store.ErrNoteNotFound):
		return wrap(http.StatusNotFound, CodeNotFound, "Note not found", nil)
	case errors.Is(err, store.ErrRelationNotFound):
		return wrap(http.StatusNotFound, CodeNotFound, "Relation not found", nil)
	case errors.Is(err, store.ErrNotFound):
		return wrap(http.StatusNotFound, CodeNotFound, "Resource not found", nil)

	case errors.Is(err, store.ErrEmailExists):
		return wrap(http.StatusConflict, CodeConflict, "Email already exists", nil)
	case errors.Is(err, store.ErrRelationExists):
		return wrap(http.StatusConflict, CodeConflict, "Relation already exists", nil)
	case errors.Is(err, store.ErrDuplicate):
		return wrap(http.StatusConflict, CodeConflict, "Resource already exists", nil)
	case errors.Is(err, store.ErrInvalidEntity):
		return wrap(http.StatusBadRequest, CodeBadRequest, "Invalid entity data", nil)

	case errors.Is(err, generation.ErrUnavailable):
		return wrap(http.StatusServiceUnavailable, CodeGenerationUnavailable, "Card generation is not configured", nil)
	case errors.Is(err, generation.ErrEmptyInput):
		return wrap(http.StatusBadRequest, CodeBadRequest, "Note has no text to generate cards from", nil)
	case errors.Is(err, generation.ErrContentBlocked):
		return wrap(http.StatusUnprocessableEntity, CodeContentBlocked, "Note content was blocked by the model", nil)
	case errors.Is(err, generation.ErrTransientFailure),
		errors.Is(err, generation.ErrInvalidResponse),
		errors.Is(err, generation.ErrGenerationFailed):
		return wrap(http.StatusBadGateway, CodeGenerationFailed, "Card generation failed", nil)
	}

	return wrap(http.StatusInternalServerError, CodeInternal, "An unexpected error occurred", nil)
}

// HandleAPIError maps err and writes the error envelope. Server errors are
// logged at ERROR; when debug errors are enabled for the request their
// redacted error chain is returned as "stack".
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	apiErr := MapError(err)
	if apiErr == nil {
		apiErr = NewAPIError(http.StatusInternalServerError, CodeInternal, "An unexpected error occurred", nil)
	}

	var opts []shared.ResponseOption
	if apiErr.Status >= http.StatusInternalServerError && shared.DebugErrors(r.Context()) {
		opts = append(opts, shared.WithStack(redact.Chain(err)))
	}
	if apiErr.Status == http.StatusUnauthorized {
		opts = append(opts, shared.WithElevatedLogLevel())
	}

	shared.RespondWithErrorAndLog(w, r, apiErr.Status, apiErr.Code, apiErr.Message, apiErr.Details, err, opts...)
}

// fieldErrors turns validator errors into client-safe field messages.
func fieldErrors(errs validator.ValidationErrors) []FieldError {
	out := make([]FieldError, 0, len(errs))
	for _, fe := range errs {
		out = append(out, FieldError{Field: fe.Field(), Message: validationTagMessage(fe)})
	}
	return out
}

func validationTagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "dive":
		return "contains an invalid value"
	default:
		return "validation failed"
	}
}
