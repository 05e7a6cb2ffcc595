package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/synapse-srs/synapse-api/internal/domain"
	"github.com/synapse-srs/synapse-api/internal/platform/logger"
	"github.com/synapse-srs/synapse-api/internal/service/auth"
	"github.com/synapse-srs/synapse-api/internal/store"
)

// TokenPair is an access token with its refresh token.
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// AuthResult is returned by register and login.
type AuthResult struct {
	User   *domain.User
	Tokens TokenPair
}

// UserService handles registration, login and token lifecycle.
type UserService interface {
	Register(ctx context.Context, email, name, password string) (*AuthResult, error)

	// Login returns ErrInvalidCredentials for an unknown email or a wrong
	// password alike.
	Login(ctx context.Context, email, password string) (*AuthResult, error)

	// Refresh exchanges a refresh token for a new pair and revokes the old one.
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)

	// Logout revokes the refresh token when possible. It never fails; problems
	// are logged.
	Logout(ctx context.Context, refreshToken string)

	Me(ctx context.Context, userID int64) (*domain.User, error)
}

// UserServiceDeps holds the collaborators of the user service.
type UserServiceDeps struct {
	Users    store.UserStore
	Tokens   auth.JWTService
	Verifier auth.PasswordVerifier
	// Revocations defaults to auth.NoopRevocationList.
	Revocations auth.RevocationList
	Clock       func() time.Time
	Logger      *slog.Logger
}

type userServiceImpl struct {
	users       store.UserStore
	tokens      auth.JWTService
	verifier    auth.PasswordVerifier
	revocations auth.RevocationList
	clock       func() time.Time
	logger      *slog.Logger
}

// NewUserService creates a UserService.
func NewUserService(deps UserServiceDeps) (UserService, error) {
	switch {
	case deps.Users == nil:
		return nil, domain.NewValidationError("users", "cannot be nil", nil)
	case deps.Tokens == nil:
		return nil, domain.NewValidationError("tokens", "cannot be nil", nil)
	case deps.Verifier == nil:
		return nil, domain.NewValidationError("verifier", "cannot be nil", nil)
	}

	s := &userServiceImpl{
		users:       deps.Users,
		tokens:      deps.Tokens,
		verifier:    deps.Verifier,
		revocations: deps.Revocations,
		clock:       deps.Clock,
		logger:      deps.Logger,
	}
	if s.revocations == nil {
		s.revocations = auth.NoopRevocationList{}
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.logger = s.logger.With(slog.String("component", "user_service"))
	return s, nil
}

func (s *userServiceImpl) Register(ctx context.Context, email, name, password string) (*AuthResult, error) {
	user, err := domain.NewUser(email, name, password)
	if err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, NewServiceError("user", "register", "failed to create user", err)
	}

	tokens, err := s.issue(ctx, user)
	if err != nil {
		return nil, NewServiceError("user", "register", "failed to issue tokens", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("user registered", slog.Int64("user_id", user.ID))
	return &AuthResult{User: user, Tokens: *tokens}, nil
}

func (s *userServiceImpl) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.verifier.CompareDummy(password)
			return nil, ErrInvalidCredentials
		}
		return nil, NewServiceError("user", "login", "failed to load user", err)
	}
	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	tokens, err := s.issue(ctx, user)
	if err != nil {
		return nil, NewServiceError("user", "login", "failed to issue tokens", err)
	}
	return &AuthResult{User: user, Tokens: *tokens}, nil
}

func (s *userServiceImpl) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	claims, err := s.tokens.ValidateRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, NewServiceError("user", "refresh", "failed to check revocation", err)
	}
	if revoked {
		return nil, auth.ErrRevokedRefreshToken
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, auth.ErrInvalidRefreshToken
		}
		return nil, NewServiceError("user", "refresh", "failed to load user", err)
	}

	tokens, err := s.issue(ctx, user)
	if err != nil {
		return nil, NewServiceError("user", "refresh", "failed to issue tokens", err)
	}

	if err := s.revocations.Revoke(ctx, claims.ID, claims.Remaining(s.clock())); err != nil {
		log.Warn("failed to revoke rotated refresh token",
			slog.Int64("user_id", user.ID),
			slog.String("error", err.Error()))
	}
	return tokens, nil
}

func (s *userServiceImpl) Logout(ctx context.Context, refreshToken string) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	if refreshToken == "" {
		return
	}

	claims, err := s.tokens.ValidateRefreshToken(ctx, refreshToken)
	if err != nil {
		log.Debug("logout with unusable refresh token", slog.String("error", err.Error()))
		return
	}
	if err := s.revocations.Revoke(ctx, claims.ID, claims.Remaining(s.clock())); err != nil {
		log.Warn("failed to revoke refresh token on logout",
			slog.Int64("user_id", claims.UserID),
			slog.String("error", err.Error()))
		return
	}
	log.Info("refresh token revoked", slog.Int64("user_id", claims.UserID))
}

func (s *userServiceImpl) Me(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, NewServiceError("user", "me", "failed to load user", err)
	}
	return user, nil
}

func (s *userServiceImpl) issue(ctx context.Context, user *domain.User) (*TokenPair, error) {
	access, err := s.tokens.GenerateToken(ctx, user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.GenerateRefreshToken(ctx, user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    s.clock().UTC().Add(s.tokens.AccessTokenLifetime()),
	}, nil
}
