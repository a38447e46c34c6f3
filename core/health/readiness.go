package health

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/webbridge/core/logger"
)

// Check verifies one dependency.
type Check func(ctx context.Context) error

// Readiness verifies all service dependencies are functioning.
// Returns "READY" if all checks pass, 503 Service Unavailable if any fail.
//
// Example:
//
//	r.Get("/health/ready", health.Readiness(log, redis.Healthcheck(client)))
func Readiness(log *slog.Logger, checks ...Check) http.HandlerFunc {
	if log == nil {
		log = slog.Default()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		for _, check := range checks {
			if err := check(r.Context()); err != nil {
				log.ErrorContext(r.Context(), "readiness check failed",
					logger.Component("health"),
					logger.Error(err),
				)
				writeText(w, http.StatusServiceUnavailable, http.StatusText(http.StatusServiceUnavailable))
				return
			}
		}
		writeText(w, http.StatusOK, "READY")
	}
}
