package shared

import (
	"context"
	"crypto/rand"
	"encoding/hex"

	"github.com/google/uuid"
)

// ContextKey is the type of request context keys set by this package.
type ContextKey string

const (
	// UserContextKey holds the authenticated AuthUser.
	UserContextKey ContextKey = "user"

	// TraceIDKey holds the request's trace ID.
	TraceIDKey ContextKey = "traceID"

	// DebugErrorsKey marks requests whose 500 responses may carry a redacted error chain.
	DebugErrorsKey ContextKey = "debugErrors"

	// TraceIDLength is the number of random bytes in a trace ID.
	TraceIDLength = 16 // 32 hex characters
)

// AuthUser is the identity the auth middleware attaches to a request.
type AuthUser struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// WithUser returns a copy of ctx carrying user.
func WithUser(ctx context.Context, user AuthUser) context.Context {
	return context.WithValue(ctx, UserContextKey, user)
}

// UserFromContext returns the authenticated user, if any.
func UserFromContext(ctx context.Context) (AuthUser, bool) {
	user, ok := ctx.Value(UserContextKey).(AuthUser)
	if !ok || user.ID <= 0 {
		return AuthUser{}, false
	}
	return user, true
}

// SetTraceID adds a fresh trace ID to the context.
func SetTraceID(ctx context.Context) context.Context {
	return context.WithValue(ctx, TraceIDKey, generateTraceID())
}

// GetTraceID retrieves the trace ID from the context, or "".
func GetTraceID(ctx context.Context) string {
	traceID, ok := ctx.Value(TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// WithDebugErrors returns a copy of ctx with debug error responses switched on or off.
func WithDebugErrors(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, DebugErrorsKey, enabled)
}

// DebugErrors reports whether debug error responses are enabled for ctx.
func DebugErrors(ctx context.Context) bool {
	enabled, _ := ctx.Value(DebugErrorsKey).(bool)
	return enabled
}

// generateTraceID returns 32 random hex characters. If the system random
// source fails it falls back to a random UUID without dashes.
func generateTraceID() string {
	b := make([]byte, TraceIDLength)
	if n, err := rand.Read(b); err != nil || n != TraceIDLength {
		id := uuid.New()
		return hex.EncodeToString(id[:])
	}
	return hex.EncodeToString(b)
}
