// Package playlists implements playlist ownership and collaboration. A
// playlist has exactly one owner, fixed at creation, and any number of
// collaborators. Both may read and change the playlist's songs; only the owner
// may delete the playlist or change who collaborates on it.
package playlists

import (
	"time"

	"github.com/google/uuid"
	"github.com/openmusic/openmusic-api/catalog"
	apperrors "github.com/openmusic/openmusic-api/internal/errors"
)

type Playlist struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Owner         string   `json:"-"`
	Username      string   `json:"username"` // owner's username
	Collaborators []string `json:"-"`
}

// Access is the decision for one actor on one playlist. Decisions are ordered
// so that a higher value grants everything a lower one does.
type Access int

const (
	NoAccess Access = iota
	Collaborator
	Owner
)

func (a Access) String() string {
	switch a {
	case Owner:
		return "owner"
	case Collaborator:
		return "collaborator"
	default:
		return "no_access"
	}
}

// Access computes actorID's decision from the playlist as loaded. It is never
// cached; callers load the playlist for every request.
func (p *Playlist) Access(actorID string) Access {
	if actorID == "" {
		return NoAccess
	}
	if actorID == p.Owner {
		return Owner
	}
	for _, c := range p.Collaborators {
		if c == actorID {
			return Collaborator
		}
	}
	return NoAccess
}

// Songs is a playlist together with its songs.
type Songs struct {
	ID       string                `json:"id"`
	Name     string                `json:"name"`
	Username string                `json:"username"`
	Songs    []catalog.SongSummary `json:"songs"`
}

type Action string

const (
	ActionAdd    Action = "add"
	ActionDelete Action = "delete"
)

// Activity is one entry of a playlist's song history as shown to users.
type Activity struct {
	Username string    `json:"username"`
	Title    string    `json:"title"`
	Action   Action    `json:"action"`
	Time     time.Time `json:"time"`
}

// ActivityRecord is the stored form of an Activity.
type ActivityRecord struct {
	ID         string
	PlaylistID string
	SongID     string
	UserID     string
	Action     Action
	Time       time.Time
}

type Entry struct {
	ID         string
	PlaylistID string
	SongID     string
}

type Collaboration struct {
	ID         string
	PlaylistID string
	UserID     string
}

var (
	ErrPlaylistNotFound      = apperrors.Client(apperrors.ErrNotFound, "playlist not found")
	ErrSongNotInPlaylist     = apperrors.Client(apperrors.ErrNotFound, "song is not in the playlist")
	ErrSongAlreadyInPlaylist = apperrors.Client(apperrors.ErrConflict, "song is already in the playlist")
	ErrAccessDenied          = apperrors.Client(apperrors.ErrForbidden, "you are not entitled to access this resource")
	ErrOwnerAsCollaborator   = apperrors.Client(apperrors.ErrInvalidOperation, "the owner cannot be added as a collaborator")
)

func newID(prefix string) string {
	return prefix + "-" + uuid.New().String()
}
