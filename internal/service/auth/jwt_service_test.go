package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synapse-srs/synapse-api/internal/config"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:                   "test-jwt-secret-that-is-32-chars-long",
		RefreshSecret:               "test-refresh-secret-that-is-32-chars",
		BCryptCost:                  4,
		TokenLifetimeMinutes:        60,
		RefreshTokenLifetimeMinutes: 1440,
	}
}

func newTestService(t *testing.T, now time.Time) *hmacJWTService {
	t.Helper()
	svc, err := newHMACJWTService(testAuthConfig(), func() time.Time { return now })
	require.NoError(t, err)
	return svc
}

func TestNewJWTService_RejectsWeakConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*config.AuthConfig)
	}{
		{"short jwt secret", func(c *config.AuthConfig) { c.JWTSecret = "short" }},
		{"short refresh secret", func(c *config.AuthConfig) { c.RefreshSecret = "short" }},
		{"zero access lifetime", func(c *config.AuthConfig) { c.TokenLifetimeMinutes = 0 }},
		{"zero refresh lifetime", func(c *config.AuthConfig) { c.RefreshTokenLifetimeMinutes = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := testAuthConfig()
			tt.mutate(&cfg)
			_, err := NewJWTService(cfg)
			assert.Error(t, err)
		})
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(t, now)

	token, err := svc.GenerateToken(ctx, 42, "ada@example.com")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
	assert.Equal(t, now.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, now.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
	assert.NotEmpty(t, claims.ID)
	assert.Equal(t, time.Hour, svc.AccessTokenLifetime())
}

func TestValidateToken_Failures(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	issued := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	issuer := newTestService(t, issued)

	access, err := issuer.GenerateToken(ctx, 1, "a@example.com")
	require.NoError(t, err)
	refresh, err := issuer.GenerateRefreshToken(ctx, 1, "a@example.com")
	require.NoError(t, err)

	other := testAuthConfig()
	other.JWTSecret = "a-completely-different-secret-of-32+"
	foreign, err := newHMACJWTService(other, func() time.Time { return issued })
	require.NoError(t, err)
	forged, err := foreign.GenerateToken(ctx, 1, "a@example.com")
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"uid": 1, "type": "access"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		at    time.Time
		want  error
	}{
		{"empty", "", issued, ErrMissingToken},
		{"garbage", "not.a.jwt", issued, ErrInvalidToken},
		{"wrong secret", forged, issued, ErrInvalidToken},
		{"alg none", noneToken, issued, ErrInvalidToken},
		{"refresh used as access", refresh, issued, ErrInvalidToken},
		{"expired", access, issued.Add(2 * time.Hour), ErrExpiredToken},
		{"within clock skew", access, issued.Add(61 * time.Minute), nil},
		{"issued in the future", access, issued.Add(-time.Hour), ErrTokenNotYetValid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := newTestService(t, tt.at)
			_, err := svc.ValidateToken(ctx, tt.token)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestValidateRefreshToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(t, now)

	refresh, err := svc.GenerateRefreshToken(ctx, 7, "b@example.com")
	require.NoError(t, err)

	claims, err := svc.ValidateRefreshToken(ctx, refresh)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, TokenTypeRefresh, claims.TokenType)
	assert.Equal(t, 24*time.Hour, claims.Remaining(now))

	access, err := svc.GenerateToken(ctx, 7, "b@example.com")
	require.NoError(t, err)
	_, err = svc.ValidateRefreshToken(ctx, access)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken, "access tokens are signed with a different key")

	later := newTestService(t, now.Add(48*time.Hour))
	_, err = later.ValidateRefreshToken(ctx, refresh)
	assert.ErrorIs(t, err, ErrExpiredRefreshToken)
}

func TestValidateToken_WrongTypeSameKey(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	now := time.Now()

	cfg := testAuthConfig()
	cfg.RefreshSecret = cfg.JWTSecret
	svc, err := newHMACJWTService(cfg, func() time.Time { return now })
	require.NoError(t, err)

	refresh, err := svc.GenerateRefreshToken(ctx, 1, "a@example.com")
	require.NoError(t, err)

	_, err = svc.ValidateToken(ctx, refresh)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestClaimsRemaining(t *testing.T) {
	t.Parallel()
	now := time.Now()
	c := &Claims{ExpiresAt: now.Add(-time.Minute)}
	assert.Zero(t, c.Remaining(now))
}
