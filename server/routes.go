package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) initRoutes() {
	// USERS
	s.RegisterRoute(http.MethodPost, RouteUsers, s.PostUserHandler())
	s.RegisterRoute(http.MethodGet, RouteUser, s.GetUserHandler())

	// AUTHENTICATIONS
	s.RegisterRoute(http.MethodPost, RouteAuthentications, s.PostAuthenticationHandler(), s.loginMiddleware()...)
	s.RegisterRoute(http.MethodPut, RouteAuthentications, s.PutAuthenticationHandler())
	s.RegisterRoute(http.MethodDelete, RouteAuthentications, s.DeleteAuthenticationHandler())

	// ALBUMS
	s.RegisterRoute(http.MethodPost, RouteAlbums, s.PostAlbumHandler())
	s.RegisterRoute(http.MethodGet, RouteAlbum, s.GetAlbumHandler())
	s.RegisterRoute(http.MethodPut, RouteAlbum, s.PutAlbumHandler())
	s.RegisterRoute(http.MethodDelete, RouteAlbum, s.DeleteAlbumHandler())

	// SONGS
	s.RegisterRoute(http.MethodPost, RouteSongs, s.PostSongHandler())
	s.RegisterRoute(http.MethodGet, RouteSongs, s.GetSongsHandler())
	s.RegisterRoute(http.MethodGet, RouteSong, s.GetSongHandler())
	s.RegisterRoute(http.MethodPut, RouteSong, s.PutSongHandler())
	s.RegisterRoute(http.MethodDelete, RouteSong, s.DeleteSongHandler())

	// PLAYLISTS - every route requires an access token
	s.RegisterRoute(http.MethodPost, RoutePlaylists, s.PostPlaylistHandler(), s.RequireAuth())
	s.RegisterRoute(http.MethodGet, RoutePlaylists, s.GetPlaylistsHandler(), s.RequireAuth())
	s.RegisterRoute(http.MethodDelete, RoutePlaylist, s.DeletePlaylistHandler(), s.RequireAuth())
	s.RegisterRoute(http.MethodPost, RoutePlaylistSongs, s.PostPlaylistSongHandler(), s.RequireAuth())
	s.RegisterRoute(http.MethodGet, RoutePlaylistSongs, s.GetPlaylistSongsHandler(), s.RequireAuth())
	s.RegisterRoute(http.MethodDelete, RoutePlaylistSongs, s.DeletePlaylistSongHandler(), s.RequireAuth())
	s.RegisterRoute(http.MethodGet, RoutePlaylistActivities, s.GetPlaylistActivitiesHandler(), s.RequireAuth())

	// COLLABORATIONS
	s.RegisterRoute(http.MethodPost, RouteCollaborations, s.PostCollaborationHandler(), s.RequireAuth())
	s.RegisterRoute(http.MethodDelete, RouteCollaborations, s.DeleteCollaborationHandler(), s.RequireAuth())

	// OPERATIONS
	s.RegisterRoute(http.MethodGet, RouteHealth, s.HealthHandler())
	s.RegisterRouteHandler(http.MethodGet, RouteMetrics, promhttp.HandlerFor(s.deps.Gatherer, promhttp.HandlerOpts{}))
}

func (s *Server) loginMiddleware() []Middleware {
	if s.deps.Limiter == nil {
		return nil
	}
	return []Middleware{s.deps.Limiter.Middleware}
}
