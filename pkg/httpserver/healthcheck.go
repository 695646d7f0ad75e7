package httpserver

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/assesskit/assesskit/pkg/logger"
)

// HealthCheckHandler serves liveness and readiness probes. With no checks it
// is a plain liveness probe; with checks it reports 503 as soon as any
// dependency fails.
func HealthCheckHandler(log *slog.Logger, checks ...func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for _, check := range checks {
			if err := check(r.Context()); err != nil {
				log.ErrorContext(r.Context(), "readiness check failed",
					logger.Component("httpserver"),
					logger.Error(err),
				)
				http.Error(w, "unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}
}
