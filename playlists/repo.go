package playlists

import (
	"context"

	"github.com/openmusic/openmusic-api/catalog"
)

// Repo persists playlists, their songs, collaborators and song history.
// Get and Delete fail with ErrPlaylistNotFound for unknown playlists.
type Repo interface {
	Create(ctx context.Context, playlist *Playlist) error
	// Get loads the playlist with its owner's username and current collaborators.
	Get(ctx context.Context, id string) (*Playlist, error)
	// ListForUser returns playlists owned by or shared with userID.
	ListForUser(ctx context.Context, userID string) ([]Playlist, error)
	Delete(ctx context.Context, id string) error

	// AddSong stores the entry and its activity atomically. A song already in
	// the playlist fails with ErrSongAlreadyInPlaylist.
	AddSong(ctx context.Context, entry Entry, activity ActivityRecord) error
	// RemoveSong deletes the entry and stores the activity atomically. It
	// reports false, and records nothing, when the song was not in the playlist.
	RemoveSong(ctx context.Context, playlistID, songID string, activity ActivityRecord) (bool, error)
	Songs(ctx context.Context, playlistID string) ([]catalog.SongSummary, error)
	Activities(ctx context.Context, playlistID string) ([]Activity, error)

	// AddCollaborator returns the id of the collaboration, which is the
	// existing one when the user already collaborates on the playlist.
	AddCollaborator(ctx context.Context, collaboration Collaboration) (string, error)
	RemoveCollaborator(ctx context.Context, playlistID, userID string) (bool, error)
}
