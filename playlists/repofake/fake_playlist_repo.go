package playlistrepofake

import (
	"context"
	"sort"
	"sync"

	"github.com/openmusic/openmusic-api/catalog"
	"github.com/openmusic/openmusic-api/playlists"
	"github.com/openmusic/openmusic-api/users"
)

var _ playlists.Repo = (*FakePlaylistRepo)(nil)

// UserDirectory resolves usernames the way the users join does in Postgres.
type UserDirectory interface {
	GetByID(ctx context.Context, id string) (*users.User, error)
}

// SongDirectory resolves song titles the way the songs join does in Postgres.
type SongDirectory interface {
	GetSong(ctx context.Context, id string) (*catalog.Song, error)
}

type FakePlaylistRepo struct {
	users UserDirectory
	songs SongDirectory

	playlists      map[string]*playlists.Playlist
	entries        map[string][]string                   // playlist id to song ids
	collaborations map[string]map[string]string          // playlist id to user id to collaboration id
	activities     map[string][]playlists.ActivityRecord // playlist id to history
	lock           sync.RWMutex
}

func NewFakePlaylistRepo(users UserDirectory, songs SongDirectory) *FakePlaylistRepo {
	return &FakePlaylistRepo{
		users:          users,
		songs:          songs,
		playlists:      make(map[string]*playlists.Playlist),
		entries:        make(map[string][]string),
		collaborations: make(map[string]map[string]string),
		activities:     make(map[string][]playlists.ActivityRecord),
	}
}

func (pr *FakePlaylistRepo) Create(_ context.Context, p *playlists.Playlist) error {
	pr.lock.Lock()
	defer pr.lock.Unlock()
	stored := playlists.Playlist{ID: p.ID, Name: p.Name, Owner: p.Owner}
	pr.playlists[p.ID] = &stored
	pr.collaborations[p.ID] = make(map[string]string)
	return nil
}

func (pr *FakePlaylistRepo) Get(ctx context.Context, id string) (*playlists.Playlist, error) {
	pr.lock.RLock()
	defer pr.lock.RUnlock()

	p, ok := pr.playlists[id]
	if !ok {
		return nil, playlists.ErrPlaylistNotFound
	}
	return pr.load(ctx, p), nil
}

func (pr *FakePlaylistRepo) ListForUser(ctx context.Context, userID string) ([]playlists.Playlist, error) {
	pr.lock.RLock()
	defer pr.lock.RUnlock()

	var list []playlists.Playlist
	for _, p := range pr.playlists {
		_, collaborates := pr.collaborations[p.ID][userID]
		if p.Owner == userID || collaborates {
			list = append(list, *pr.load(ctx, p))
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

func (pr *FakePlaylistRepo) load(ctx context.Context, p *playlists.Playlist) *playlists.Playlist {
	loaded := *p
	if u, err := pr.users.GetByID(ctx, p.Owner); err == nil {
		loaded.Username = u.Username
	}
	loaded.Collaborators = nil
	for userID := range pr.collaborations[p.ID] {
		loaded.Collaborators = append(loaded.Collaborators, userID)
	}
	sort.Strings(loaded.Collaborators)
	return &loaded
}

func (pr *FakePlaylistRepo) Delete(_ context.Context, id string) error {
	pr.lock.Lock()
	defer pr.lock.Unlock()
	if _, ok := pr.playlists[id]; !ok {
		return playlists.ErrPlaylistNotFound
	}
	delete(pr.playlists, id)
	delete(pr.entries, id)
	delete(pr.collaborations, id)
	delete(pr.activities, id)
	return nil
}

func (pr *FakePlaylistRepo) AddSong(_ context.Context, entry playlists.Entry, activity playlists.ActivityRecord) error {
	pr.lock.Lock()
	defer pr.lock.Unlock()
	if _, ok := pr.playlists[entry.PlaylistID]; !ok {
		return playlists.ErrPlaylistNotFound
	}
	for _, songID := range pr.entries[entry.PlaylistID] {
		if songID == entry.SongID {
			return playlists.ErrSongAlreadyInPlaylist
		}
	}
	pr.entries[entry.PlaylistID] = append(pr.entries[entry.PlaylistID], entry.SongID)
	pr.activities[entry.PlaylistID] = append(pr.activities[entry.PlaylistID], activity)
	return nil
}

func (pr *FakePlaylistRepo) RemoveSong(_ context.Context, playlistID, songID string, activity playlists.ActivityRecord) (bool, error) {
	pr.lock.Lock()
	defer pr.lock.Unlock()
	songIDs := pr.entries[playlistID]
	for i, id := range songIDs {
		if id == songID {
			pr.entries[playlistID] = append(songIDs[:i:i], songIDs[i+1:]...)
			pr.activities[playlistID] = append(pr.activities[playlistID], activity)
			return true, nil
		}
	}
	return false, nil
}

func (pr *FakePlaylistRepo) Songs(ctx context.Context, playlistID string) ([]catalog.SongSummary, error) {
	pr.lock.RLock()
	defer pr.lock.RUnlock()

	songs := []catalog.SongSummary{}
	for _, id := range pr.entries[playlistID] {
		s, err := pr.songs.GetSong(ctx, id)
		if err != nil {
			continue
		}
		songs = append(songs, catalog.SongSummary{ID: s.ID, Title: s.Title, Performer: s.Performer})
	}
	sort.Slice(songs, func(i, j int) bool { return songs[i].Title < songs[j].Title })
	return songs, nil
}

func (pr *FakePlaylistRepo) Activities(ctx context.Context, playlistID string) ([]playlists.Activity, error) {
	pr.lock.RLock()
	defer pr.lock.RUnlock()

	activities := []playlists.Activity{}
	for _, rec := range pr.activities[playlistID] {
		a := playlists.Activity{Action: rec.Action, Time: rec.Time}
		if u, err := pr.users.GetByID(ctx, rec.UserID); err == nil {
			a.Username = u.Username
		}
		if s, err := pr.songs.GetSong(ctx, rec.SongID); err == nil {
			a.Title = s.Title
		}
		activities = append(activities, a)
	}
	return activities, nil
}

func (pr *FakePlaylistRepo) AddCollaborator(_ context.Context, c playlists.Collaboration) (string, error) {
	pr.lock.Lock()
	defer pr.lock.Unlock()
	collaborators, ok := pr.collaborations[c.PlaylistID]
	if !ok {
		return "", playlists.ErrPlaylistNotFound
	}
	if id, ok := collaborators[c.UserID]; ok {
		return id, nil
	}
	collaborators[c.UserID] = c.ID
	return c.ID, nil
}

func (pr *FakePlaylistRepo) RemoveCollaborator(_ context.Context, playlistID, userID string) (bool, error) {
	pr.lock.Lock()
	defer pr.lock.Unlock()
	if _, ok := pr.collaborations[playlistID][userID]; !ok {
		return false, nil
	}
	delete(pr.collaborations[playlistID], userID)
	return true, nil
}
