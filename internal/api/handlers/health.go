package handlers

import (
	"context"
	"net/http"
	"time"
	"truck-trip-service/internal/logging"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Health reports liveness, and database reachability when a Pinger is set.
type Health struct {
	DB Pinger
}

func (h *Health) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	res := map[string]string{"status": "ok"}

	if h.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := h.DB.PingContext(ctx); err != nil {
			logging.LogError(logging.FromContext(r.Context()), "health: db ping failed", err)
			res["status"] = "degraded"
			res["database"] = "unreachable"
			writeJSON(w, r, http.StatusServiceUnavailable, res)
			return
		}
		res["database"] = "ok"
	}

	writeJSON(w, r, http.StatusOK, res)
}
