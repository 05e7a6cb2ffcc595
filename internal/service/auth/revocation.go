package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// RevocationList records refresh token IDs that must no longer be accepted.
type RevocationList interface {
	// Revoke marks jti as revoked for ttl. A non-positive ttl is a no-op
	// since the token has already expired.
	Revoke(ctx context.Context, jti string, ttl time.Duration) error

	// IsRevoked reports whether jti has been revoked.
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// NoopRevocationList never revokes anything. It is used when Redis is not configured.
type NoopRevocationList struct{}

// Revoke implements RevocationList.
func (NoopRevocationList) Revoke(context.Context, string, time.Duration) error { return nil }

// IsRevoked implements RevocationList.
func (NoopRevocationList) IsRevoked(context.Context, string) (bool, error) { return false, nil }

const revokedKeyPrefix = "synapse:revoked:"

// RedisRevocationList stores revoked token IDs as expiring Redis keys.
type RedisRevocationList struct {
	client goredis.UniversalClient
}

// NewRedisRevocationList wraps an existing client.
func NewRedisRevocationList(client goredis.UniversalClient) *RedisRevocationList {
	return &RedisRevocationList{client: client}
}

// DialRedis parses a redis:// URL, connects and pings the server.
func DialRedis(ctx context.Context, url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	if opts.DialTimeout == 0 {
		opts.DialTimeout = 5 * time.Second
	}

	client := goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// Revoke implements RevocationList.
func (r *RedisRevocationList) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if jti == "" || ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, revokedKeyPrefix+jti, 1, ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// IsRevoked implements RevocationList.
func (r *RedisRevocationList) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	err := r.client.Get(ctx, revokedKeyPrefix+jti).Err()
	if errors.Is(err, goredis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return true, nil
}
