package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/openmusic/openmusic-api/catalog"
	"github.com/openmusic/openmusic-api/internal/validator"
)

type albumPayload struct {
	Name string `json:"name"`
	Year int    `json:"year"`
}

type songPayload struct {
	Title     string  `json:"title"`
	Year      int     `json:"year"`
	Genre     string  `json:"genre"`
	Performer string  `json:"performer"`
	Duration  *int    `json:"duration"`
	AlbumID   *string `json:"albumId"`
}

func (p songPayload) song() catalog.Song {
	return catalog.Song{
		Title:     p.Title,
		Year:      p.Year,
		Genre:     p.Genre,
		Performer: p.Performer,
		Duration:  p.Duration,
		AlbumID:   p.AlbumID,
	}
}

func (s *Server) PostAlbumHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body albumPayload
		if !s.decode(w, r, validator.Album, &body) {
			return
		}
		id, err := s.deps.Catalog.AddAlbum(r.Context(), body.Name, body.Year)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeSuccess(w, http.StatusCreated, "album added", map[string]string{"albumId": id})
	}
}

func (s *Server) GetAlbumHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		album, err := s.deps.Catalog.GetAlbum(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeSuccess(w, http.StatusOK, "", map[string]any{"album": album})
	}
}

func (s *Server) PutAlbumHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body albumPayload
		if !s.decode(w, r, validator.Album, &body) {
			return
		}
		if err := s.deps.Catalog.EditAlbum(r.Context(), chi.URLParam(r, "id"), body.Name, body.Year); err != nil {
			writeError(w, r, err)
			return
		}
		writeSuccess(w, http.StatusOK, "album updated", nil)
	}
}

func (s *Server) DeleteAlbumHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.deps.Catalog.DeleteAlbum(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeError(w, r, err)
			return
		}
		writeSuccess(w, http.StatusOK, "album deleted", nil)
	}
}

func (s *Server) PostSongHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body songPayload
		if !s.decode(w, r, validator.Song, &body) {
			return
		}
		id, err := s.deps.Catalog.AddSong(r.Context(), body.song())
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeSuccess(w, http.StatusCreated, "song added", map[string]string{"songId": id})
	}
}

// GetSongsHandler filters by the optional title and performer query parameters.
func (s *Server) GetSongsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		songs, err := s.deps.Catalog.ListSongs(r.Context(), catalog.SongFilter{
			Title:     q.Get("title"),
			Performer: q.Get("performer"),
		})
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeSuccess(w, http.StatusOK, "", map[string]any{"songs": songs})
	}
}

func (s *Server) GetSongHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		song, err := s.deps.Catalog.GetSong(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeSuccess(w, http.StatusOK, "", map[string]any{"song": song})
	}
}

func (s *Server) PutSongHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body songPayload
		if !s.decode(w, r, validator.Song, &body) {
			return
		}
		if err := s.deps.Catalog.EditSong(r.Context(), chi.URLParam(r, "id"), body.song()); err != nil {
			writeError(w, r, err)
			return
		}
		writeSuccess(w, http.StatusOK, "song updated", nil)
	}
}

func (s *Server) DeleteSongHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.deps.Catalog.DeleteSong(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeError(w, r, err)
			return
		}
		writeSuccess(w, http.StatusOK, "song deleted", nil)
	}
}
