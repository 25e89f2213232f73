package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	apperrors "github.com/openmusic/openmusic-api/internal/errors"
	"github.com/openmusic/openmusic-api/internal/validator"
	"github.com/rs/zerolog/log"
)

const (
	statusSuccess = "success"
	statusFail    = "fail"
	statusError   = "error"

	internalErrorMessage = "an internal server error occurred"
)

// envelope is the body of every API response. Client errors use "fail",
// server faults use "error".
type envelope struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, body envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Err(err).Msg("failed to encode response")
	}
}

func writeSuccess(w http.ResponseWriter, code int, message string, data any) {
	writeJSON(w, code, envelope{Status: statusSuccess, Message: message, Data: data})
}

func writeFail(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, envelope{Status: statusFail, Message: message})
}

func writeServerError(w http.ResponseWriter) {
	writeJSON(w, http.StatusInternalServerError, envelope{Status: statusError, Message: internalErrorMessage})
}

// writeError maps err to its status. Server faults are logged in full and
// reported to the caller with a generic message only.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := apperrors.StatusCode(err)
	if code >= http.StatusInternalServerError {
		log.Error().Err(err).
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
		writeServerError(w)
		return
	}
	log.Debug().Err(err).Int("status", code).Str("path", r.URL.Path).Msg("client error")
	writeFail(w, code, apperrors.ClientMessage(err))
}

// decode validates the request body against schema and decodes it into dst.
// It writes the error response itself and reports whether to continue.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, schema validator.Schema, dst any) bool {
	if err := s.deps.Validator.Decode(schema, r.Body, dst); err != nil {
		writeError(w, r, err)
		return false
	}
	return true
}
