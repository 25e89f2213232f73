package playlists_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/openmusic/openmusic-api/catalog"
	catalogrepofake "github.com/openmusic/openmusic-api/catalog/repofake"
	"github.com/openmusic/openmusic-api/events"
	apperrors "github.com/openmusic/openmusic-api/internal/errors"
	"github.com/openmusic/openmusic-api/internal/metrics"
	"github.com/openmusic/openmusic-api/playlists"
	playlistrepofake "github.com/openmusic/openmusic-api/playlists/repofake"
	"github.com/openmusic/openmusic-api/users"
	fakeuserrepo "github.com/openmusic/openmusic-api/users/repofake"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type testFixture struct {
	ctx      context.Context
	users    *users.Service
	catalog  *catalog.Service
	recorder *events.Recorder
	metrics  *metrics.Metrics
	service  *playlists.Service
	userIDs  map[string]string
	songIDs  map[string]string
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()
	ctx := context.Background()

	userRepo := fakeuserrepo.NewFakeUserRepo()
	userService, err := users.NewService(userRepo, users.NewBcryptHasherWithCost(bcrypt.MinCost))
	require.NoError(t, err)

	catalogRepo := catalogrepofake.NewFakeCatalogRepo()
	catalogService, err := catalog.NewService(catalogRepo)
	require.NoError(t, err)

	recorder := &events.Recorder{}
	m := metrics.New()
	service, err := playlists.NewService(
		playlistrepofake.NewFakePlaylistRepo(userRepo, catalogRepo),
		catalogService,
		userService,
		playlists.WithPublisher(recorder),
		playlists.WithMetrics(m),
		playlists.WithNowFunc(func() time.Time { return testTime }),
	)
	require.NoError(t, err)

	f := &testFixture{
		ctx:      ctx,
		users:    userService,
		catalog:  catalogService,
		recorder: recorder,
		metrics:  m,
		service:  service,
		userIDs:  make(map[string]string),
		songIDs:  make(map[string]string),
	}
	for _, name := range []string{"bob", "carol", "dave"} {
		u, err := userService.Register(ctx, name, "password", strings.ToUpper(name[:1])+name[1:])
		require.NoError(t, err)
		f.userIDs[name] = u.ID
	}
	for _, title := range []string{"Born to Run", "Life is a Highway"} {
		id, err := catalogService.AddSong(ctx, catalog.Song{Title: title, Year: 1975, Genre: "Rock", Performer: "Various"})
		require.NoError(t, err)
		f.songIDs[title] = id
	}
	return f
}

func (f *testFixture) createPlaylist(t *testing.T, owner, name string) string {
	t.Helper()
	p, err := f.service.CreatePlaylist(f.ctx, f.userIDs[owner], name)
	require.NoError(t, err)
	return p.ID
}

func TestNewService_RequiresDependencies(t *testing.T) {
	f := setupTestFixture(t)
	_, err := playlists.NewService(nil, f.catalog, f.users)
	require.Error(t, err)
	_, err = playlists.NewService(playlistrepofake.NewFakePlaylistRepo(nil, nil), nil, f.users)
	require.Error(t, err)
	_, err = playlists.NewService(playlistrepofake.NewFakePlaylistRepo(nil, nil), f.catalog, nil)
	require.Error(t, err)
}

func TestService_CreatePlaylist(t *testing.T) {
	f := setupTestFixture(t)

	p, err := f.service.CreatePlaylist(f.ctx, f.userIDs["bob"], "Road Trip")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(p.ID, "playlist-"))
	require.Equal(t, f.userIDs["bob"], p.Owner)
	require.Empty(t, p.Collaborators)

	_, err = f.service.CreatePlaylist(f.ctx, f.userIDs["bob"], "  ")
	require.ErrorIs(t, err, apperrors.ErrInvalidPayload)
}

// Owner bob shares "Road Trip" with carol, who can use it but cannot share it
// further, until bob revokes her access.
func TestService_RoadTripScenario(t *testing.T) {
	f := setupTestFixture(t)
	bob, carol, dave := f.userIDs["bob"], f.userIDs["carol"], f.userIDs["dave"]
	song := f.songIDs["Life is a Highway"]

	playlistID := f.createPlaylist(t, "bob", "Road Trip")

	collaborationID, err := f.service.AddCollaborator(f.ctx, playlistID, bob, carol)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(collaborationID, "collaboration-"))

	require.NoError(t, f.service.AddSong(f.ctx, playlistID, carol, song))
	songs, err := f.service.GetSongs(f.ctx, playlistID, carol)
	require.NoError(t, err)
	require.Equal(t, "bob", songs.Username)
	require.Len(t, songs.Songs, 1)
	require.Equal(t, song, songs.Songs[0].ID)

	_, err = f.service.AddCollaborator(f.ctx, playlistID, carol, dave)
	require.ErrorIs(t, err, apperrors.ErrForbidden)
	require.Equal(t, 403, apperrors.StatusCode(err))

	require.NoError(t, f.service.RemoveCollaborator(f.ctx, playlistID, bob, carol))

	access, err := f.service.CheckAccess(f.ctx, playlistID, carol)
	require.NoError(t, err)
	require.Equal(t, playlists.NoAccess, access)

	_, err = f.service.GetSongs(f.ctx, playlistID, carol)
	require.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestService_AddCollaborator_Rules(t *testing.T) {
	f := setupTestFixture(t)
	bob, carol := f.userIDs["bob"], f.userIDs["carol"]
	playlistID := f.createPlaylist(t, "bob", "Road Trip")

	tests := []struct {
		name       string
		playlistID string
		actor      string
		target     string
		wantErr    error
	}{
		{name: "unknown playlist", playlistID: "playlist-missing", actor: bob, target: carol, wantErr: apperrors.ErrNotFound},
		{name: "not the owner", playlistID: playlistID, actor: carol, target: carol, wantErr: apperrors.ErrForbidden},
		{name: "owner as collaborator", playlistID: playlistID, actor: bob, target: bob, wantErr: apperrors.ErrInvalidOperation},
		{name: "unknown user", playlistID: playlistID, actor: bob, target: "user-missing", wantErr: apperrors.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.AddCollaborator(f.ctx, tt.playlistID, tt.actor, tt.target)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}

	access, err := f.service.CheckAccess(f.ctx, playlistID, carol)
	require.NoError(t, err)
	require.Equal(t, playlists.NoAccess, access)
}

func TestService_AddCollaborator_IsIdempotent(t *testing.T) {
	f := setupTestFixture(t)
	bob, carol := f.userIDs["bob"], f.userIDs["carol"]
	playlistID := f.createPlaylist(t, "bob", "Road Trip")

	first, err := f.service.AddCollaborator(f.ctx, playlistID, bob, carol)
	require.NoError(t, err)
	second, err := f.service.AddCollaborator(f.ctx, playlistID, bob, carol)
	require.NoError(t, err)
	require.Equal(t, first, second)

	added := 0
	for _, e := range f.recorder.Events() {
		if e.Type == events.CollaboratorAdded {
			added++
		}
	}
	require.Equal(t, 1, added)
}

func TestService_RemoveCollaborator(t *testing.T) {
	f := setupTestFixture(t)
	bob, carol, dave := f.userIDs["bob"], f.userIDs["carol"], f.userIDs["dave"]
	playlistID := f.createPlaylist(t, "bob", "Road Trip")

	_, err := f.service.AddCollaborator(f.ctx, playlistID, bob, carol)
	require.NoError(t, err)

	require.ErrorIs(t, f.service.RemoveCollaborator(f.ctx, playlistID, carol, carol), apperrors.ErrForbidden)
	require.NoError(t, f.service.RemoveCollaborator(f.ctx, playlistID, bob, carol))
	require.NoError(t, f.service.RemoveCollaborator(f.ctx, playlistID, bob, carol))
	require.NoError(t, f.service.RemoveCollaborator(f.ctx, playlistID, bob, dave))
	require.ErrorIs(t, f.service.RemoveCollaborator(f.ctx, "playlist-missing", bob, carol), apperrors.ErrNotFound)
}

func TestService_GetPlaylists(t *testing.T) {
	f := setupTestFixture(t)
	bob, carol, dave := f.userIDs["bob"], f.userIDs["carol"], f.userIDs["dave"]

	roadTrip := f.createPlaylist(t, "bob", "Road Trip")
	f.createPlaylist(t, "carol", "Chill")
	_, err := f.service.AddCollaborator(f.ctx, roadTrip, bob, carol)
	require.NoError(t, err)

	list, err := f.service.GetPlaylists(f.ctx, carol)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "Chill", list[0].Name)
	require.Equal(t, "carol", list[0].Username)
	require.Equal(t, "Road Trip", list[1].Name)
	require.Equal(t, "bob", list[1].Username)

	list, err = f.service.GetPlaylists(f.ctx, dave)
	require.NoError(t, err)
	require.NotNil(t, list)
	require.Empty(t, list)
}

func TestService_DeletePlaylist_OwnerOnly(t *testing.T) {
	f := setupTestFixture(t)
	bob, carol := f.userIDs["bob"], f.userIDs["carol"]
	playlistID := f.createPlaylist(t, "bob", "Road Trip")
	_, err := f.service.AddCollaborator(f.ctx, playlistID, bob, carol)
	require.NoError(t, err)

	require.ErrorIs(t, f.service.DeletePlaylist(f.ctx, playlistID, carol), apperrors.ErrForbidden)
	require.NoError(t, f.service.DeletePlaylist(f.ctx, playlistID, bob))
	require.ErrorIs(t, f.service.DeletePlaylist(f.ctx, playlistID, bob), apperrors.ErrNotFound)
}

func TestService_Songs(t *testing.T) {
	f := setupTestFixture(t)
	bob, dave := f.userIDs["bob"], f.userIDs["dave"]
	song := f.songIDs["Born to Run"]
	playlistID := f.createPlaylist(t, "bob", "Road Trip")

	require.ErrorIs(t, f.service.AddSong(f.ctx, playlistID, dave, song), apperrors.ErrForbidden)
	require.ErrorIs(t, f.service.AddSong(f.ctx, playlistID, bob, "song-missing"), apperrors.ErrNotFound)
	require.ErrorIs(t, f.service.AddSong(f.ctx, "playlist-missing", bob, song), apperrors.ErrNotFound)

	require.NoError(t, f.service.AddSong(f.ctx, playlistID, bob, song))
	err := f.service.AddSong(f.ctx, playlistID, bob, song)
	require.ErrorIs(t, err, apperrors.ErrConflict)

	require.ErrorIs(t, f.service.RemoveSong(f.ctx, playlistID, dave, song), apperrors.ErrForbidden)
	require.NoError(t, f.service.RemoveSong(f.ctx, playlistID, bob, song))
	require.ErrorIs(t, f.service.RemoveSong(f.ctx, playlistID, bob, song), apperrors.ErrNotFound)

	songs, err := f.service.GetSongs(f.ctx, playlistID, bob)
	require.NoError(t, err)
	require.NotNil(t, songs.Songs)
	require.Empty(t, songs.Songs)
}

func TestService_Activities(t *testing.T) {
	f := setupTestFixture(t)
	bob, carol, dave := f.userIDs["bob"], f.userIDs["carol"], f.userIDs["dave"]
	song := f.songIDs["Born to Run"]
	playlistID := f.createPlaylist(t, "bob", "Road Trip")
	_, err := f.service.AddCollaborator(f.ctx, playlistID, bob, carol)
	require.NoError(t, err)

	require.NoError(t, f.service.AddSong(f.ctx, playlistID, carol, song))
	require.NoError(t, f.service.RemoveSong(f.ctx, playlistID, bob, song))
	require.Error(t, f.service.RemoveSong(f.ctx, playlistID, bob, song))

	activities, err := f.service.GetActivities(f.ctx, playlistID, carol)
	require.NoError(t, err)
	require.Equal(t, []playlists.Activity{
		{Username: "carol", Title: "Born to Run", Action: playlists.ActionAdd, Time: testTime},
		{Username: "bob", Title: "Born to Run", Action: playlists.ActionDelete, Time: testTime},
	}, activities)

	_, err = f.service.GetActivities(f.ctx, playlistID, dave)
	require.ErrorIs(t, err, apperrors.ErrForbidden)

	var types []events.Type
	for _, e := range f.recorder.Events() {
		types = append(types, e.Type)
	}
	require.Equal(t, []events.Type{events.CollaboratorAdded, events.SongAdded, events.SongRemoved}, types)
}

type failingPublisher struct{}

func (failingPublisher) Publish(context.Context, events.Event) error {
	return errors.New("redis is down")
}

func TestService_PublishFailureDoesNotFailRequest(t *testing.T) {
	f := setupTestFixture(t)
	playlistID := f.createPlaylist(t, "bob", "Road Trip")

	playlists.WithPublisher(failingPublisher{})(f.service)
	require.NoError(t, f.service.AddSong(f.ctx, playlistID, f.userIDs["bob"], f.songIDs["Born to Run"]))
}

func TestService_RecordsAccessDecisions(t *testing.T) {
	f := setupTestFixture(t)
	bob, dave := f.userIDs["bob"], f.userIDs["dave"]
	playlistID := f.createPlaylist(t, "bob", "Road Trip")

	_, err := f.service.GetSongs(f.ctx, playlistID, bob)
	require.NoError(t, err)
	_, err = f.service.GetSongs(f.ctx, playlistID, dave)
	require.Error(t, err)

	require.Equal(t, 1.0, testutil.ToFloat64(f.metrics.AccessDecisions.WithLabelValues("owner")))
	require.Equal(t, 1.0, testutil.ToFloat64(f.metrics.AccessDecisions.WithLabelValues("no_access")))
}
