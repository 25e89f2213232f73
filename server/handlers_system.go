package server

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

const healthTimeout = 2 * time.Second

// HealthHandler reports 503 when the database does not answer a ping.
func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := map[string]string{"app": s.deps.Config.GetAppName(), "database": "unchecked"}
		if s.deps.Database != nil {
			ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
			defer cancel()
			if err := s.deps.Database.Ping(ctx); err != nil {
				log.Warn().Err(err).Msg("health check: database unreachable")
				writeJSON(w, http.StatusServiceUnavailable, envelope{Status: statusError, Message: "database unreachable"})
				return
			}
			status["database"] = "ok"
		}
		writeSuccess(w, http.StatusOK, "", status)
	}
}
