package api

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/synapse-srs/synapse-api/internal/domain"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) PingContext(ctx context.Context) error { return f(ctx) }

func TestHealthHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		db         Pinger
		wantStatus int
	}{
		{name: "database up", db: pingerFunc(func(context.Context) error { return nil }), wantStatus: http.StatusOK},
		{name: "database down", db: pingerFunc(func(context.Context) error { return errors.New("connection refused") }),
			wantStatus: http.StatusServiceUnavailable},
		{name: "no database", wantStatus: http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			h := NewHealthHandler(tc.db)

			rec, _ := serve(t, http.MethodGet, "/health", "/health", "", nil, h.Health)

			assert.Equal(t, tc.wantStatus, rec.Code)
		})
	}
}

func TestReviewHandler_ListReviews(t *testing.T) {
	t.Parallel()

	reviews := &mockReviewService{
		listFn: func(_ context.Context, userID int64) ([]*domain.ReviewHistoryEntry, error) {
			return []*domain.ReviewHistoryEntry{{ID: 3, UserID: userID}}, nil
		},
	}
	h := NewReviewHandler(reviews)

	rec, env := serve(t, http.MethodGet, "/reviews", "/reviews", "", &testUser, h.ListReviews)

	assert.Equal(t, http.StatusOK, rec.Code)
	var entries []domain.ReviewHistoryEntry
	decodeData(t, env, &entries)
	assert.Len(t, entries, 1)
}
