package validator_test

import (
	"strings"
	"testing"

	apperrors "github.com/openmusic/openmusic-api/internal/errors"
	"github.com/openmusic/openmusic-api/internal/validator"
	"github.com/stretchr/testify/require"
)

func TestNew_CompilesEverySchema(t *testing.T) {
	v, err := validator.New()
	require.NoError(t, err)

	for _, s := range []validator.Schema{
		validator.User, validator.Login, validator.RefreshToken, validator.Album,
		validator.Song, validator.Playlist, validator.PlaylistSong, validator.Collaboration,
	} {
		var dst map[string]any
		err := v.Decode(s, strings.NewReader(`{}`), &dst)
		require.ErrorIs(t, err, apperrors.ErrInvalidPayload, "schema %s accepted an empty object", s)
	}
}

func TestDecode(t *testing.T) {
	v, err := validator.New()
	require.NoError(t, err)

	type song struct {
		Title     string  `json:"title"`
		Year      int     `json:"year"`
		Genre     string  `json:"genre"`
		Performer string  `json:"performer"`
		Duration  *int    `json:"duration"`
		AlbumID   *string `json:"albumId"`
	}

	tests := []struct {
		name    string
		body    string
		wantErr bool
		wantMsg string
	}{
		{
			name: "valid with optional fields",
			body: `{"title":"Yellow","year":2000,"genre":"Rock","performer":"Coldplay","duration":266,"albumId":"album-1"}`,
		},
		{
			name: "null optional fields",
			body: `{"title":"Yellow","year":2000,"genre":"Rock","performer":"Coldplay","duration":null,"albumId":null}`,
		},
		{
			name:    "missing performer",
			body:    `{"title":"Yellow","year":2000,"genre":"Rock"}`,
			wantErr: true,
			wantMsg: "performer",
		},
		{
			name:    "year as string",
			body:    `{"title":"Yellow","year":"2000","genre":"Rock","performer":"Coldplay"}`,
			wantErr: true,
			wantMsg: "year",
		},
		{
			name:    "not json",
			body:    `title=Yellow`,
			wantErr: true,
			wantMsg: "valid JSON",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var dst song
			err := v.Decode(validator.Song, strings.NewReader(tt.body), &dst)
			if tt.wantErr {
				require.ErrorIs(t, err, apperrors.ErrInvalidPayload)
				require.Equal(t, 400, apperrors.StatusCode(err))
				require.Contains(t, err.Error(), tt.wantMsg)
				return
			}
			require.NoError(t, err)
			require.Equal(t, "Yellow", dst.Title)
		})
	}
}

func TestDecode_UnknownSchema(t *testing.T) {
	v, err := validator.New()
	require.NoError(t, err)

	var dst map[string]any
	err = v.Decode(validator.Schema("nope"), strings.NewReader(`{}`), &dst)
	require.Error(t, err)
	require.Equal(t, 500, apperrors.StatusCode(err))
}
