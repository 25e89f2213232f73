// Package catalog manages the albums and songs that playlists refer to.
package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	apperrors "github.com/openmusic/openmusic-api/internal/errors"
	"github.com/openmusic/openmusic-api/internal/utils"
	"github.com/pkg/errors"
)

type Album struct {
	ID    string        `json:"id"`
	Name  string        `json:"name"`
	Year  int           `json:"year"`
	Songs []SongSummary `json:"songs"`
}

type Song struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Year      int     `json:"year"`
	Genre     string  `json:"genre"`
	Performer string  `json:"performer"`
	Duration  *int    `json:"duration"`
	AlbumID   *string `json:"albumId"`
}

// SongSummary is the shape used in listings.
type SongSummary struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Performer string `json:"performer"`
}

// SongFilter matches case-insensitive substrings; empty fields match everything.
type SongFilter struct {
	Title     string
	Performer string
}

func (f SongFilter) Match(s *Song) bool {
	return containsFold(s.Title, f.Title) && containsFold(s.Performer, f.Performer)
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

var (
	ErrAlbumNotFound = apperrors.Client(apperrors.ErrNotFound, "album not found")
	ErrSongNotFound  = apperrors.Client(apperrors.ErrNotFound, "song not found")
)

// Repo persists albums and songs. Missing rows fail with ErrAlbumNotFound or
// ErrSongNotFound; a song naming an unknown album fails with ErrAlbumNotFound.
type Repo interface {
	AddAlbum(ctx context.Context, album *Album) error
	GetAlbum(ctx context.Context, id string) (*Album, error)
	UpdateAlbum(ctx context.Context, album *Album) error
	DeleteAlbum(ctx context.Context, id string) error

	AddSong(ctx context.Context, song *Song) error
	ListSongs(ctx context.Context, filter SongFilter) ([]SongSummary, error)
	GetSong(ctx context.Context, id string) (*Song, error)
	UpdateSong(ctx context.Context, song *Song) error
	DeleteSong(ctx context.Context, id string) error
}

type Service struct {
	repo Repo
}

func NewService(repo Repo) (*Service, error) {
	if repo == nil {
		return nil, errors.New("[catalog.NewService] repo is required")
	}
	return &Service{repo: repo}, nil
}

func (s *Service) AddAlbum(ctx context.Context, name string, year int) (string, error) {
	album := &Album{ID: "album-" + uuid.New().String(), Name: name, Year: year}
	if err := validateAlbum(album); err != nil {
		return "", err
	}
	if err := s.repo.AddAlbum(ctx, album); err != nil {
		return "", errors.Wrap(err, "[catalog.Service.AddAlbum] repo.AddAlbum")
	}
	return album.ID, nil
}

func (s *Service) GetAlbum(ctx context.Context, id string) (*Album, error) {
	album, err := s.repo.GetAlbum(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "[catalog.Service.GetAlbum] repo.GetAlbum")
	}
	if album.Songs == nil {
		album.Songs = []SongSummary{}
	}
	return album, nil
}

func (s *Service) EditAlbum(ctx context.Context, id, name string, year int) error {
	album := &Album{ID: id, Name: name, Year: year}
	if err := validateAlbum(album); err != nil {
		return err
	}
	if err := s.repo.UpdateAlbum(ctx, album); err != nil {
		return errors.Wrap(err, "[catalog.Service.EditAlbum] repo.UpdateAlbum")
	}
	return nil
}

func (s *Service) DeleteAlbum(ctx context.Context, id string) error {
	if err := s.repo.DeleteAlbum(ctx, id); err != nil {
		return errors.Wrap(err, "[catalog.Service.DeleteAlbum] repo.DeleteAlbum")
	}
	return nil
}

func (s *Service) AddSong(ctx context.Context, song Song) (string, error) {
	song.ID = "song-" + uuid.New().String()
	if err := validateSong(&song); err != nil {
		return "", err
	}
	if err := s.repo.AddSong(ctx, &song); err != nil {
		return "", errors.Wrap(err, "[catalog.Service.AddSong] repo.AddSong")
	}
	return song.ID, nil
}

func (s *Service) ListSongs(ctx context.Context, filter SongFilter) ([]SongSummary, error) {
	songs, err := s.repo.ListSongs(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "[catalog.Service.ListSongs] repo.ListSongs")
	}
	if songs == nil {
		songs = []SongSummary{}
	}
	return songs, nil
}

func (s *Service) GetSong(ctx context.Context, id string) (*Song, error) {
	song, err := s.repo.GetSong(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "[catalog.Service.GetSong] repo.GetSong")
	}
	return song, nil
}

func (s *Service) EditSong(ctx context.Context, id string, song Song) error {
	song.ID = id
	if err := validateSong(&song); err != nil {
		return err
	}
	if err := s.repo.UpdateSong(ctx, &song); err != nil {
		return errors.Wrap(err, "[catalog.Service.EditSong] repo.UpdateSong")
	}
	return nil
}

func (s *Service) DeleteSong(ctx context.Context, id string) error {
	if err := s.repo.DeleteSong(ctx, id); err != nil {
		return errors.Wrap(err, "[catalog.Service.DeleteSong] repo.DeleteSong")
	}
	return nil
}

func validateAlbum(a *Album) error {
	if strings.TrimSpace(a.Name) == "" {
		return apperrors.Client(apperrors.ErrInvalidPayload, "album name is required")
	}
	if a.Year <= 0 {
		return apperrors.Client(apperrors.ErrInvalidPayload, "album year must be positive")
	}
	return nil
}

func validateSong(s *Song) error {
	switch {
	case strings.TrimSpace(s.Title) == "":
		return apperrors.Client(apperrors.ErrInvalidPayload, "song title is required")
	case strings.TrimSpace(s.Genre) == "":
		return apperrors.Client(apperrors.ErrInvalidPayload, "song genre is required")
	case strings.TrimSpace(s.Performer) == "":
		return apperrors.Client(apperrors.ErrInvalidPayload, "song performer is required")
	case s.Year <= 0:
		return apperrors.Client(apperrors.ErrInvalidPayload, "song year must be positive")
	case s.Duration != nil && *s.Duration < 0:
		return apperrors.Client(apperrors.ErrInvalidPayload, "song duration cannot be negative")
	}
	if utils.Value(s.AlbumID) == "" {
		s.AlbumID = nil
	}
	return nil
}
