package playlists

import (
	"context"
	"strings"
	"time"

	"github.com/openmusic/openmusic-api/catalog"
	"github.com/openmusic/openmusic-api/events"
	apperrors "github.com/openmusic/openmusic-api/internal/errors"
	"github.com/openmusic/openmusic-api/internal/metrics"
	"github.com/openmusic/openmusic-api/users"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// SongLookup confirms that a song exists in the catalog.
type SongLookup interface {
	GetSong(ctx context.Context, id string) (*catalog.Song, error)
}

// UserLookup confirms that a collaborator exists.
type UserLookup interface {
	FindByID(ctx context.Context, id string) (*users.User, error)
}

// Service applies the ownership and collaboration rules to every playlist
// operation. Each call loads the playlist and decides access afresh.
type Service struct {
	repo      Repo
	songs     SongLookup
	users     UserLookup
	publisher events.Publisher
	metrics   *metrics.Metrics
	nowFunc   func() time.Time
}

type ServiceOption func(*Service)

// WithPublisher sends song and collaborator changes to p.
func WithPublisher(p events.Publisher) ServiceOption {
	return func(s *Service) {
		s.publisher = p
	}
}

func WithMetrics(m *metrics.Metrics) ServiceOption {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithNowFunc(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowFunc = now
	}
}

func NewService(repo Repo, songs SongLookup, users UserLookup, options ...ServiceOption) (*Service, error) {
	if repo == nil {
		return nil, errors.New("[playlists.NewService] repo is required")
	}
	if songs == nil {
		return nil, errors.New("[playlists.NewService] song lookup is required")
	}
	if users == nil {
		return nil, errors.New("[playlists.NewService] user lookup is required")
	}
	s := &Service{
		repo:      repo,
		songs:     songs,
		users:     users,
		publisher: events.NopPublisher{},
		nowFunc:   time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

func (s *Service) CreatePlaylist(ctx context.Context, ownerID, name string) (*Playlist, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.Client(apperrors.ErrInvalidPayload, "playlist name is required")
	}
	p := &Playlist{ID: newID("playlist"), Name: name, Owner: ownerID}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, errors.Wrap(err, "[playlists.Service.CreatePlaylist] repo.Create")
	}
	return p, nil
}

// GetPlaylists lists the playlists actorID owns or collaborates on.
func (s *Service) GetPlaylists(ctx context.Context, actorID string) ([]Playlist, error) {
	list, err := s.repo.ListForUser(ctx, actorID)
	if err != nil {
		return nil, errors.Wrap(err, "[playlists.Service.GetPlaylists] repo.ListForUser")
	}
	if list == nil {
		list = []Playlist{}
	}
	return list, nil
}

// CheckAccess returns actorID's current decision on the playlist.
func (s *Service) CheckAccess(ctx context.Context, playlistID, actorID string) (Access, error) {
	p, err := s.repo.Get(ctx, playlistID)
	if err != nil {
		return NoAccess, errors.Wrap(err, "[playlists.Service.CheckAccess] repo.Get")
	}
	return p.Access(actorID), nil
}

// authorize loads the playlist and fails with ErrAccessDenied unless actorID
// holds at least the required access.
func (s *Service) authorize(ctx context.Context, playlistID, actorID string, required Access) (*Playlist, error) {
	p, err := s.repo.Get(ctx, playlistID)
	if err != nil {
		return nil, errors.Wrap(err, "repo.Get")
	}
	access := p.Access(actorID)
	s.metrics.RecordAccess(access.String())
	if access < required {
		log.Info().
			Str("playlist_id", playlistID).
			Str("user_id", actorID).
			Str("required", required.String()).
			Msg("playlist access denied")
		return nil, ErrAccessDenied
	}
	return p, nil
}

func (s *Service) DeletePlaylist(ctx context.Context, playlistID, actorID string) error {
	if _, err := s.authorize(ctx, playlistID, actorID, Owner); err != nil {
		return errors.Wrap(err, "[playlists.Service.DeletePlaylist]")
	}
	if err := s.repo.Delete(ctx, playlistID); err != nil {
		return errors.Wrap(err, "[playlists.Service.DeletePlaylist] repo.Delete")
	}
	return nil
}

func (s *Service) AddSong(ctx context.Context, playlistID, actorID, songID string) error {
	if _, err := s.authorize(ctx, playlistID, actorID, Collaborator); err != nil {
		return errors.Wrap(err, "[playlists.Service.AddSong]")
	}
	if _, err := s.songs.GetSong(ctx, songID); err != nil {
		return errors.Wrap(err, "[playlists.Service.AddSong] songs.GetSong")
	}

	now := s.nowFunc()
	entry := Entry{ID: newID("playlist_song"), PlaylistID: playlistID, SongID: songID}
	if err := s.repo.AddSong(ctx, entry, s.activity(playlistID, songID, actorID, ActionAdd, now)); err != nil {
		return errors.Wrap(err, "[playlists.Service.AddSong] repo.AddSong")
	}
	s.publish(ctx, events.Event{Type: events.SongAdded, PlaylistID: playlistID, ActorID: actorID, SubjectID: songID, Time: now})
	return nil
}

func (s *Service) GetSongs(ctx context.Context, playlistID, actorID string) (*Songs, error) {
	p, err := s.authorize(ctx, playlistID, actorID, Collaborator)
	if err != nil {
		return nil, errors.Wrap(err, "[playlists.Service.GetSongs]")
	}
	songs, err := s.repo.Songs(ctx, playlistID)
	if err != nil {
		return nil, errors.Wrap(err, "[playlists.Service.GetSongs] repo.Songs")
	}
	if songs == nil {
		songs = []catalog.SongSummary{}
	}
	return &Songs{ID: p.ID, Name: p.Name, Username: p.Username, Songs: songs}, nil
}

func (s *Service) RemoveSong(ctx context.Context, playlistID, actorID, songID string) error {
	if _, err := s.authorize(ctx, playlistID, actorID, Collaborator); err != nil {
		return errors.Wrap(err, "[playlists.Service.RemoveSong]")
	}

	now := s.nowFunc()
	removed, err := s.repo.RemoveSong(ctx, playlistID, songID, s.activity(playlistID, songID, actorID, ActionDelete, now))
	if err != nil {
		return errors.Wrap(err, "[playlists.Service.RemoveSong] repo.RemoveSong")
	}
	if !removed {
		return ErrSongNotInPlaylist
	}
	s.publish(ctx, events.Event{Type: events.SongRemoved, PlaylistID: playlistID, ActorID: actorID, SubjectID: songID, Time: now})
	return nil
}

func (s *Service) GetActivities(ctx context.Context, playlistID, actorID string) ([]Activity, error) {
	if _, err := s.authorize(ctx, playlistID, actorID, Collaborator); err != nil {
		return nil, errors.Wrap(err, "[playlists.Service.GetActivities]")
	}
	activities, err := s.repo.Activities(ctx, playlistID)
	if err != nil {
		return nil, errors.Wrap(err, "[playlists.Service.GetActivities] repo.Activities")
	}
	if activities == nil {
		activities = []Activity{}
	}
	return activities, nil
}

// AddCollaborator grants targetUserID access to the playlist. Only the owner
// may do so, the owner cannot be granted, and granting an existing
// collaborator returns the existing collaboration id.
func (s *Service) AddCollaborator(ctx context.Context, playlistID, actorID, targetUserID string) (string, error) {
	p, err := s.authorize(ctx, playlistID, actorID, Owner)
	if err != nil {
		return "", errors.Wrap(err, "[playlists.Service.AddCollaborator]")
	}
	if targetUserID == p.Owner {
		return "", ErrOwnerAsCollaborator
	}
	if _, err := s.users.FindByID(ctx, targetUserID); err != nil {
		return "", errors.Wrap(err, "[playlists.Service.AddCollaborator] users.FindByID")
	}

	newCollaborationID := newID("collaboration")
	id, err := s.repo.AddCollaborator(ctx, Collaboration{ID: newCollaborationID, PlaylistID: playlistID, UserID: targetUserID})
	if err != nil {
		return "", errors.Wrap(err, "[playlists.Service.AddCollaborator] repo.AddCollaborator")
	}
	if id == newCollaborationID {
		s.publish(ctx, events.Event{
			Type: events.CollaboratorAdded, PlaylistID: playlistID, ActorID: actorID, SubjectID: targetUserID, Time: s.nowFunc(),
		})
	}
	return id, nil
}

// RemoveCollaborator revokes targetUserID's access. Removing a user who does
// not collaborate is not an error.
func (s *Service) RemoveCollaborator(ctx context.Context, playlistID, actorID, targetUserID string) error {
	if _, err := s.authorize(ctx, playlistID, actorID, Owner); err != nil {
		return errors.Wrap(err, "[playlists.Service.RemoveCollaborator]")
	}
	removed, err := s.repo.RemoveCollaborator(ctx, playlistID, targetUserID)
	if err != nil {
		return errors.Wrap(err, "[playlists.Service.RemoveCollaborator] repo.RemoveCollaborator")
	}
	if removed {
		s.publish(ctx, events.Event{
			Type: events.CollaboratorRemoved, PlaylistID: playlistID, ActorID: actorID, SubjectID: targetUserID, Time: s.nowFunc(),
		})
	}
	return nil
}

func (s *Service) activity(playlistID, songID, userID string, action Action, at time.Time) ActivityRecord {
	return ActivityRecord{
		ID:         newID("activity"),
		PlaylistID: playlistID,
		SongID:     songID,
		UserID:     userID,
		Action:     action,
		Time:       at,
	}
}

// publish never fails the request; the change is already stored.
func (s *Service) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.Warn().Err(err).
			Str("type", string(event.Type)).
			Str("playlist_id", event.PlaylistID).
			Msg("failed to publish playlist event")
	}
}
