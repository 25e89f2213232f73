package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/openmusic/openmusic-api/internal/validator"
)

type userPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Fullname string `json:"fullname"`
}

func (s *Server) PostUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body userPayload
		if !s.decode(w, r, validator.User, &body) {
			return
		}
		user, err := s.deps.Users.Register(r.Context(), body.Username, body.Password, body.Fullname)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeSuccess(w, http.StatusCreated, "user added", map[string]string{"userId": user.ID})
	}
}

func (s *Server) GetUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := s.deps.Users.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeSuccess(w, http.StatusOK, "", map[string]any{"user": user})
	}
}
