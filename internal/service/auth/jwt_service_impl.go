package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/synapse-srs/synapse-api/internal/config"
	"github.com/synapse-srs/synapse-api/internal/platform/logger"
)

const minSecretLength = 32

// hmacJWTService is an implementation of JWTService using HMAC-SHA256 signing.
type hmacJWTService struct {
	access    tokenKind
	refresh   tokenKind
	timeFunc  func() time.Time // injectable for testing
	clockSkew time.Duration    // leeway for time-based claims
}

// tokenKind holds everything that differs between access and refresh tokens.
type tokenKind struct {
	typ        string
	key        []byte
	lifetime   time.Duration
	errInvalid error
	errExpired error
}

type jwtCustomClaims struct {
	UserID    int64  `json:"uid"`
	Email     string `json:"email"`
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

var _ JWTService = (*hmacJWTService)(nil)

// NewJWTService creates a JWT service from auth configuration.
func NewJWTService(cfg config.AuthConfig) (JWTService, error) {
	return newHMACJWTService(cfg, time.Now)
}

func newHMACJWTService(cfg config.AuthConfig, now func() time.Time) (*hmacJWTService, error) {
	if len(cfg.JWTSecret) < minSecretLength {
		return nil, fmt.Errorf("jwt secret must be at least %d characters", minSecretLength)
	}
	if len(cfg.RefreshSecret) < minSecretLength {
		return nil, fmt.Errorf("refresh secret must be at least %d characters", minSecretLength)
	}
	if cfg.TokenLifetimeMinutes <= 0 || cfg.RefreshTokenLifetimeMinutes <= 0 {
		return nil, errors.New("token lifetimes must be positive")
	}

	return &hmacJWTService{
		access: tokenKind{
			typ:        TokenTypeAccess,
			key:        []byte(cfg.JWTSecret),
			lifetime:   time.Duration(cfg.TokenLifetimeMinutes) * time.Minute,
			errInvalid: ErrInvalidToken,
			errExpired: ErrExpiredToken,
		},
		refresh: tokenKind{
			typ:        TokenTypeRefresh,
			key:        []byte(cfg.RefreshSecret),
			lifetime:   time.Duration(cfg.RefreshTokenLifetimeMinutes) * time.Minute,
			errInvalid: ErrInvalidRefreshToken,
			errExpired: ErrExpiredRefreshToken,
		},
		timeFunc:  now,
		clockSkew: 2 * time.Minute,
	}, nil
}

// GenerateToken implements JWTService.
func (s *hmacJWTService) GenerateToken(ctx context.Context, userID int64, email string) (string, error) {
	return s.sign(ctx, s.access, userID, email, s.timeFunc().Add(s.access.lifetime))
}

// ValidateToken implements JWTService.
func (s *hmacJWTService) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	return s.parse(ctx, s.access, tokenString)
}

// GenerateRefreshToken implements JWTService.
func (s *hmacJWTService) GenerateRefreshToken(ctx context.Context, userID int64, email string) (string, error) {
	return s.sign(ctx, s.refresh, userID, email, s.timeFunc().Add(s.refresh.lifetime))
}

// ValidateRefreshToken implements JWTService.
func (s *hmacJWTService) ValidateRefreshToken(ctx context.Context, tokenString string) (*Claims, error) {
	return s.parse(ctx, s.refresh, tokenString)
}

// AccessTokenLifetime implements JWTService.
func (s *hmacJWTService) AccessTokenLifetime() time.Duration {
	return s.access.lifetime
}

func (s *hmacJWTService) sign(
	ctx context.Context,
	kind tokenKind,
	userID int64,
	email string,
	expiresAt time.Time,
) (string, error) {
	now := s.timeFunc()
	claims := jwtCustomClaims{
		UserID:    userID,
		Email:     email,
		TokenType: kind.typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.New().String(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(kind.key)
	if err != nil {
		logger.FromContext(ctx).Error("failed to sign token",
			slog.String("error", err.Error()),
			slog.Int64("user_id", userID),
			slog.String("token_type", kind.typ))
		return "", fmt.Errorf("failed to sign %s token: %w", kind.typ, err)
	}
	return signed, nil
}

func (s *hmacJWTService) parse(ctx context.Context, kind tokenKind, tokenString string) (*Claims, error) {
	log := logger.FromContext(ctx).With(slog.String("token_type", kind.typ))
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	now := s.timeFunc()
	token, err := jwt.ParseWithClaims(
		tokenString,
		&jwtCustomClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return kind.key, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithLeeway(s.clockSkew),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			log.Debug("token expired")
			return nil, kind.errExpired
		case errors.Is(err, jwt.ErrTokenNotValidYet), errors.Is(err, jwt.ErrTokenUsedBeforeIssued):
			log.Debug("token not yet valid")
			if kind.typ == TokenTypeAccess {
				return nil, ErrTokenNotYetValid
			}
			return nil, kind.errInvalid
		default:
			log.Debug("token rejected", slog.String("reason", err.Error()))
			return nil, kind.errInvalid
		}
	}

	claims, ok := token.Claims.(*jwtCustomClaims)
	if !ok || !token.Valid {
		return nil, kind.errInvalid
	}
	if claims.TokenType != kind.typ {
		log.Debug("wrong token type", slog.String("actual", claims.TokenType))
		return nil, ErrWrongTokenType
	}
	if claims.UserID <= 0 || claims.ExpiresAt == nil || claims.IssuedAt == nil {
		return nil, kind.errInvalid
	}

	return &Claims{
		UserID:    claims.UserID,
		Email:     claims.Email,
		TokenType: claims.TokenType,
		Subject:   claims.Subject,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
		ID:        claims.ID,
	}, nil
}
