package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/synapse-srs/synapse-api/internal/api/shared"
	"github.com/synapse-srs/synapse-api/internal/platform/logger"
	"github.com/synapse-srs/synapse-api/internal/redact"
)

// Pinger reports whether a dependency is reachable. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler serves GET /health.
type HealthHandler struct {
	db      Pinger
	timeout time.Duration
}

// NewHealthHandler creates a HealthHandler. A nil db reports healthy
// without checking the database.
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db, timeout: 2 * time.Second}
}

type healthResponse struct {
	Database string `json:"database"`
}

// Health reports 200 when the database answers a ping and 503 otherwise.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		shared.RespondWithData(w, r, http.StatusOK, healthResponse{Database: "unchecked"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		logger.FromContext(r.Context()).Error("health check failed",
			slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE",
			"Database unavailable", nil)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, healthResponse{Database: "ok"})
}
