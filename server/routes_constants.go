package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Users
	RouteUsers = "/users"
	RouteUser  = "/users/{id}"

	// Authentications - login, refresh and logout share one path
	RouteAuthentications = "/authentications"

	// Catalog
	RouteAlbums = "/albums"
	RouteAlbum  = "/albums/{id}"
	RouteSongs  = "/songs"
	RouteSong   = "/songs/{id}"

	// Playlists (protected)
	RoutePlaylists          = "/playlists"
	RoutePlaylist           = "/playlists/{id}"
	RoutePlaylistSongs      = "/playlists/{id}/songs"
	RoutePlaylistActivities = "/playlists/{id}/activities"
	RouteCollaborations     = "/collaborations"

	// Operations
	RouteHealth  = "/healthz"
	RouteMetrics = "/metrics"
)
