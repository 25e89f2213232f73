package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/openmusic/openmusic-api/auth"
	"github.com/openmusic/openmusic-api/catalog"
	"github.com/openmusic/openmusic-api/internal/config"
	"github.com/openmusic/openmusic-api/internal/validator"
	"github.com/openmusic/openmusic-api/playlists"
	"github.com/openmusic/openmusic-api/token"
	"github.com/openmusic/openmusic-api/users"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

// AccessTokenDecoder verifies the bearer token of protected routes.
type AccessTokenDecoder interface {
	DecodeAccessToken(raw string) (*token.Payload, error)
}

// Pinger reports whether the database answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps holds everything the HTTP layer needs. Limiter, Gatherer and Database
// are optional.
type Deps struct {
	Config    config.Config
	Auth      *auth.AuthenticationService
	Tokens    AccessTokenDecoder
	Users     *users.Service
	Catalog   *catalog.Service
	Playlists *playlists.Service
	Validator *validator.Validator
	Limiter   *LoginLimiter
	Gatherer  prometheus.Gatherer
	Database  Pinger
}

type Server struct {
	env    string // DEV, PROD, ...
	router chi.Router
	routes []string
	deps   Deps
}

func New(deps Deps) (*Server, error) {
	switch {
	case deps.Config == nil:
		return nil, errors.New("[server.New] config is required")
	case deps.Auth == nil:
		return nil, errors.New("[server.New] authentication service is required")
	case deps.Tokens == nil:
		return nil, errors.New("[server.New] access token decoder is required")
	case deps.Users == nil:
		return nil, errors.New("[server.New] user service is required")
	case deps.Catalog == nil:
		return nil, errors.New("[server.New] catalog service is required")
	case deps.Playlists == nil:
		return nil, errors.New("[server.New] playlist service is required")
	case deps.Validator == nil:
		return nil, errors.New("[server.New] validator is required")
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}

	s := &Server{
		env:    deps.Config.GetEnv(),
		router: chi.NewRouter(),
		deps:   deps,
	}
	s.router.Use(
		middleware.RequestID,
		middleware.RealIP,
		handlerMiddleware(s.LoggingMiddleware),
		handlerMiddleware(s.RecoverMiddleware),
		handlerMiddleware(s.CorsMiddleware),
	)
	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeFail(w, http.StatusNotFound, "resource not found")
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeFail(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// RegisterRoute mounts handler behind the given per-route middleware.
func (s *Server) RegisterRoute(method, pattern string, handler http.HandlerFunc, mw ...Middleware) {
	s.routes = append(s.routes, method+" "+pattern)
	s.router.Method(method, pattern, ChainMiddleware(handler, mw...))
}

func (s *Server) RegisterRouteHandler(method, pattern string, handler http.Handler) {
	s.routes = append(s.routes, method+" "+pattern)
	s.router.Method(method, pattern, handler)
}

// Routes lists the registered "METHOD /pattern" pairs in registration order.
func (s *Server) Routes() []string {
	return append([]string(nil), s.routes...)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)
		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	log.Info().Msgf("[%-19s] %s", colourMethod(method), path)
}

func colourMethod(method string) string {
	padded := fmt.Sprintf(" %-7s", method)
	if colour, ok := methodColours[method]; ok {
		return colour + padded + ResetColour
	}
	return Gray + padded + ResetColour
}
