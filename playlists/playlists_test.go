package playlists_test

import (
	"fmt"
	"testing"

	"github.com/openmusic/openmusic-api/playlists"
	"github.com/stretchr/testify/require"
)

func TestPlaylist_Access(t *testing.T) {
	p := &playlists.Playlist{ID: "playlist-1", Owner: "user-bob", Collaborators: []string{"user-carol", "user-erin"}}

	tests := []struct {
		actor string
		want  playlists.Access
	}{
		{actor: "user-bob", want: playlists.Owner},
		{actor: "user-carol", want: playlists.Collaborator},
		{actor: "user-erin", want: playlists.Collaborator},
		{actor: "user-dave", want: playlists.NoAccess},
		{actor: "", want: playlists.NoAccess},
	}
	for _, tt := range tests {
		t.Run(tt.actor, func(t *testing.T) {
			require.Equal(t, tt.want, p.Access(tt.actor))
		})
	}
}

func TestPlaylist_Access_AllMembers(t *testing.T) {
	for n := 0; n < 5; n++ {
		collaborators := make([]string, n)
		for i := range collaborators {
			collaborators[i] = fmt.Sprintf("user-c%d", i)
		}
		p := &playlists.Playlist{Owner: "user-owner", Collaborators: collaborators}

		require.Equal(t, playlists.Owner, p.Access("user-owner"))
		for _, c := range collaborators {
			require.Equal(t, playlists.Collaborator, p.Access(c))
		}
		for i := n; i < n+3; i++ {
			require.Equal(t, playlists.NoAccess, p.Access(fmt.Sprintf("user-c%d", i)))
		}
	}
}

func TestAccess_OrderAndString(t *testing.T) {
	require.Less(t, playlists.NoAccess, playlists.Collaborator)
	require.Less(t, playlists.Collaborator, playlists.Owner)

	require.Equal(t, "owner", playlists.Owner.String())
	require.Equal(t, "collaborator", playlists.Collaborator.String())
	require.Equal(t, "no_access", playlists.NoAccess.String())
}
