package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/openmusic/openmusic-api/internal/validator"
)

type playlistPayload struct {
	Name string `json:"name"`
}

type playlistSongPayload struct {
	SongID string `json:"songId"`
}

type collaborationPayload struct {
	PlaylistID string `json:"playlistId"`
	UserID     string `json:"userId"`
}

func (s *Server) PostPlaylistHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body playlistPayload
		if !s.decode(w, r, validator.Playlist, &body) {
			return
		}
		p, err := s.deps.Playlists.CreatePlaylist(r.Context(), UserIDFromContext(r.Context()), body.Name)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeSuccess(w, http.StatusCreated, "playlist added", map[string]string{"playlistId": p.ID})
	}
}

func (s *Server) GetPlaylistsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := s.deps.Playlists.GetPlaylists(r.Context(), UserIDFromContext(r.Context()))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeSuccess(w, http.StatusOK, "", map[string]any{"playlists": list})
	}
}

func (s *Server) DeletePlaylistHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := s.deps.Playlists.DeletePlaylist(r.Context(), chi.URLParam(r, "id"), UserIDFromContext(r.Context()))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeSuccess(w, http.StatusOK, "playlist deleted", nil)
	}
}

func (s *Server) PostPlaylistSongHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body playlistSongPayload
		if !s.decode(w, r, validator.PlaylistSong, &body) {
			return
		}
		err := s.deps.Playlists.AddSong(r.Context(), chi.URLParam(r, "id"), UserIDFromContext(r.Context()), body.SongID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeSuccess(w, http.StatusCreated, "song added to playlist", nil)
	}
}

func (s *Server) GetPlaylistSongsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		songs, err := s.deps.Playlists.GetSongs(r.Context(), chi.URLParam(r, "id"), UserIDFromContext(r.Context()))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeSuccess(w, http.StatusOK, "", map[string]any{"playlist": songs})
	}
}

func (s *Server) DeletePlaylistSongHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body playlistSongPayload
		if !s.decode(w, r, validator.PlaylistSong, &body) {
			return
		}
		err := s.deps.Playlists.RemoveSong(r.Context(), chi.URLParam(r, "id"), UserIDFromContext(r.Context()), body.SongID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeSuccess(w, http.StatusOK, "song removed from playlist", nil)
	}
}

func (s *Server) GetPlaylistActivitiesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playlistID := chi.URLParam(r, "id")
		activities, err := s.deps.Playlists.GetActivities(r.Context(), playlistID, UserIDFromContext(r.Context()))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeSuccess(w, http.StatusOK, "", map[string]any{
			"playlistId": playlistID,
			"activities": activities,
		})
	}
}

func (s *Server) PostCollaborationHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body collaborationPayload
		if !s.decode(w, r, validator.Collaboration, &body) {
			return
		}
		id, err := s.deps.Playlists.AddCollaborator(r.Context(), body.PlaylistID, UserIDFromContext(r.Context()), body.UserID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeSuccess(w, http.StatusCreated, "collaboration added", map[string]string{"collaborationId": id})
	}
}

func (s *Server) DeleteCollaborationHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body collaborationPayload
		if !s.decode(w, r, validator.Collaboration, &body) {
			return
		}
		err := s.deps.Playlists.RemoveCollaborator(r.Context(), body.PlaylistID, UserIDFromContext(r.Context()), body.UserID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeSuccess(w, http.StatusOK, "collaboration deleted", nil)
	}
}
