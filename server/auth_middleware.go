package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeyUserID stores the authenticated user ID
	ContextKeyUserID ContextKey = "user_id"
)

// RequireAuth validates the Bearer access token and stores its user id in the
// request context. Missing, malformed, foreign and expired tokens get a 401.
func (s *Server) RequireAuth() Middleware {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeFail(w, http.StatusUnauthorized, "missing authentication")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				writeFail(w, http.StatusUnauthorized, "invalid authorization header format")
				return
			}

			payload, err := s.deps.Tokens.DecodeAccessToken(strings.TrimSpace(parts[1]))
			if err != nil {
				log.Debug().Err(err).
					Str("request_id", middleware.GetReqID(r.Context())).
					Msg("access token rejected")
				writeFail(w, http.StatusUnauthorized, "access token is invalid or expired")
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUserID, payload.ID)
			next(w, r.WithContext(ctx))
		}
	}
}

// UserIDFromContext returns the id stored by RequireAuth, or "" outside
// protected routes.
func UserIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ContextKeyUserID).(string)
	return id
}
