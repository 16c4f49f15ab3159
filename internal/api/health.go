package api

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wishkeep/wishkeep/internal/log"
)

// health is a liveness probe. Returns 200 OK with {"status":"ok"}.
func health(logger log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, logger)
	}
}

// readiness is a readiness probe that pings the database. A nil pool reports
// ready without a database check.
func readiness(pool *pgxpool.Pool, logger log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if pool != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()

			if err := pool.Ping(ctx); err != nil {
				logger.Warn("readiness check failed", "error", err)
				writeError(w, http.StatusServiceUnavailable,
					"not_ready", "database unavailable", logger)
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"}, logger)
	}
}
