package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/synapse-srs/synapse-api/internal/api/shared"
	"github.com/synapse-srs/synapse-api/internal/platform/logger"
	"github.com/synapse-srs/synapse-api/internal/service/auth"
)

// CodeUnauthorized is the error code of every authentication failure.
const CodeUnauthorized = "UNAUTHORIZED"

// AuthMiddleware provides JWT authentication for routes.
type AuthMiddleware struct {
	jwtService auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(jwtService auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtService}
}

// Authenticate validates the bearer access token and adds the user's id and
// email to the request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			msg := "Invalid authorization format"
			if r.Header.Get("Authorization") == "" {
				msg = "Authorization header required"
			}
			shared.RespondWithError(w, r, http.StatusUnauthorized, CodeUnauthorized, msg, nil)
			return
		}

		claims, err := m.jwtService.ValidateToken(r.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrExpiredToken):
				shared.RespondWithError(w, r, http.StatusUnauthorized, CodeUnauthorized, "Token expired", nil)
			case errors.Is(err, auth.ErrInvalidToken),
				errors.Is(err, auth.ErrTokenNotYetValid),
				errors.Is(err, auth.ErrWrongTokenType):
				shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, CodeUnauthorized, "Invalid token", nil, err)
			default:
				shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
					"INTERNAL_SERVER_ERROR", "Authentication error", nil, err)
			}
			return
		}

		ctx := shared.WithUser(r.Context(), shared.AuthUser{ID: claims.UserID, Email: claims.Email})
		log := logger.FromContext(ctx).With(slog.Int64("user_id", claims.UserID))
		ctx = logger.WithLogger(ctx, log)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
