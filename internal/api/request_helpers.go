package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/synapse-srs/synapse-api/internal/api/shared"
	"github.com/synapse-srs/synapse-api/internal/platform/logger"
	"github.com/synapse-srs/synapse-api/internal/redact"
)

// pathID parses a positive integer path parameter.
func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		return 0, NewAPIError(http.StatusBadRequest, CodeBadRequest, "Missing "+name, nil)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, NewAPIError(http.StatusBadRequest, CodeBadRequest, "Invalid "+name,
			[]FieldError{{Field: name, Message: "must be a positive integer"}})
	}
	return id, nil
}

// requireUser returns the authenticated user or writes a 401.
func requireUser(w http.ResponseWriter, r *http.Request) (shared.AuthUser, bool) {
	user, ok := shared.UserFromContext(r.Context())
	if !ok {
		shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, CodeUnauthorized,
			"Authentication required", nil, nil, shared.WithElevatedLogLevel())
		return shared.AuthUser{}, false
	}
	return user, true
}

// requireUserAndID combines requireUser with pathID for the "id" parameter.
// The id is checked before the user so malformed paths never reach a service.
func requireUserAndID(w http.ResponseWriter, r *http.Request) (shared.AuthUser, int64, bool) {
	id, err := pathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return shared.AuthUser{}, 0, false
	}
	user, ok := requireUser(w, r)
	if !ok {
		return shared.AuthUser{}, 0, false
	}
	return user, id, true
}

// decodeRequest decodes and validates a JSON body into v, writing the error
// response itself when it fails.
func decodeRequest(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := shared.DecodeJSON(w, r, v); err != nil {
		logger.FromContext(r.Context()).Debug("invalid request body",
			slog.String("error", redact.Error(err)))
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, CodeBadRequest,
			"Invalid request format", nil, err)
		return false
	}
	if err := shared.ValidateRequest(v); err != nil {
		HandleAPIError(w, r, err)
		return false
	}
	return true
}
