package server

import (
	"net/http"

	"github.com/openmusic/openmusic-api/internal/validator"
)

type loginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshTokenPayload struct {
	RefreshToken string `json:"refreshToken"`
}

// PostAuthenticationHandler logs in and returns a new token pair.
func (s *Server) PostAuthenticationHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body loginPayload
		if !s.decode(w, r, validator.Login, &body) {
			return
		}
		pair, err := s.deps.Auth.Login(r.Context(), body.Username, body.Password)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeSuccess(w, http.StatusCreated, "authentication added", pair)
	}
}

// PutAuthenticationHandler exchanges a live refresh token for a new access token.
func (s *Server) PutAuthenticationHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body refreshTokenPayload
		if !s.decode(w, r, validator.RefreshToken, &body) {
			return
		}
		accessToken, err := s.deps.Auth.Refresh(r.Context(), body.RefreshToken)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeSuccess(w, http.StatusOK, "access token refreshed", map[string]string{"accessToken": accessToken})
	}
}

// DeleteAuthenticationHandler logs out by revoking the refresh token.
func (s *Server) DeleteAuthenticationHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body refreshTokenPayload
		if !s.decode(w, r, validator.RefreshToken, &body) {
			return
		}
		if err := s.deps.Auth.Logout(r.Context(), body.RefreshToken); err != nil {
			writeError(w, r, err)
			return
		}
		writeSuccess(w, http.StatusOK, "refresh token deleted", nil)
	}
}
