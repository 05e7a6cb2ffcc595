package api

import (
	"log/slog"
	"net/http"

	"github.com/synapse-srs/synapse-api/internal/api/shared"
	"github.com/synapse-srs/synapse-api/internal/platform/logger"
	"github.com/synapse-srs/synapse-api/internal/service"
)

// AuthHandler serves the /auth endpoints.
type AuthHandler struct {
	users  service.UserService
	logger *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(users service.UserService, log *slog.Logger) *AuthHandler {
	if log == nil {
		log = slog.Default()
	}
	return &AuthHandler{
		users:  users,
		logger: log.With(slog.String("component", "auth_handler")),
	}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	result, err := h.users.Register(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Info("user registered",
		slog.Int64("user_id", result.User.ID))
	shared.RespondWithData(w, r, http.StatusCreated, AuthResponse{
		User:   userToResponse(result.User),
		Tokens: result.Tokens,
	})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	result, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, AuthResponse{
		User:   userToResponse(result.User),
		Tokens: result.Tokens,
	})
}

// Refresh handles POST /auth/refresh. The presented refresh token is
// revoked and a new pair is returned.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshTokenRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	tokens, err := h.users.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, tokens)
}

// Logout handles POST /auth/logout. It always succeeds; a missing or
// malformed body is treated like a logout without a token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req LogoutRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		logger.FromContextOrDefault(r.Context(), h.logger).Debug("logout without a readable body")
	}

	h.users.Logout(r.Context(), req.RefreshToken)
	shared.RespondSuccess(w, r)
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	authUser, ok := requireUser(w, r)
	if !ok {
		return
	}

	user, err := h.users.Me(r.Context(), authUser.ID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, userToResponse(user))
}
