package catalog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/openmusic/openmusic-api/catalog"
	apperrors "github.com/openmusic/openmusic-api/internal/errors"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (pgxmock.PgxPoolIface, *catalog.PostgresRepo) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, catalog.NewPostgresRepo(mock)
}

func TestPostgresRepo_GetAlbum(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectQuery(`SELECT id, name, year FROM albums WHERE id = \$1`).
		WithArgs("album-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "year"}).AddRow("album-1", "Parachutes", 2000))
	mock.ExpectQuery(`SELECT id, title, performer FROM songs WHERE album_id = \$1`).
		WithArgs("album-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "title", "performer"}).
			AddRow("song-1", "Shiver", "Coldplay").
			AddRow("song-2", "Yellow", "Coldplay"))

	album, err := repo.GetAlbum(context.Background(), "album-1")
	require.NoError(t, err)
	require.Equal(t, "Parachutes", album.Name)
	require.Len(t, album.Songs, 2)
	require.Equal(t, "song-2", album.Songs[1].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepo_GetAlbum_NotFound(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectQuery(`SELECT id, name, year FROM albums`).
		WithArgs("album-x").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetAlbum(context.Background(), "album-x")
	require.ErrorIs(t, err, catalog.ErrAlbumNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepo_UpdateAndDelete_NoRows(t *testing.T) {
	ctx := context.Background()
	mock, repo := newMockRepo(t)

	mock.ExpectExec(`UPDATE albums SET`).
		WithArgs("Parachutes", 2000, "album-x").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectExec(`DELETE FROM albums WHERE id = \$1`).
		WithArgs("album-x").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec(`DELETE FROM songs WHERE id = \$1`).
		WithArgs("song-x").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.ErrorIs(t, repo.UpdateAlbum(ctx, &catalog.Album{ID: "album-x", Name: "Parachutes", Year: 2000}), apperrors.ErrNotFound)
	require.ErrorIs(t, repo.DeleteAlbum(ctx, "album-x"), apperrors.ErrNotFound)
	require.ErrorIs(t, repo.DeleteSong(ctx, "song-x"), apperrors.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepo_AddSong(t *testing.T) {
	albumID := "album-missing"
	song := &catalog.Song{ID: "song-1", Title: "Yellow", Year: 2000, Genre: "Rock", Performer: "Coldplay", AlbumID: &albumID}

	tests := []struct {
		name       string
		execErr    error
		wantStatus int
	}{
		{name: "inserted", wantStatus: 200},
		{name: "unknown album", execErr: &pgconn.PgError{Code: "23503"}, wantStatus: 404},
		{name: "database down", execErr: errors.New("connection refused"), wantStatus: 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, repo := newMockRepo(t)

			exp := mock.ExpectExec(`INSERT INTO songs`).
				WithArgs(song.ID, song.Title, song.Year, song.Genre, song.Performer, pgxmock.AnyArg(), pgxmock.AnyArg())
			if tt.execErr != nil {
				exp.WillReturnError(tt.execErr)
			} else {
				exp.WillReturnResult(pgxmock.NewResult("INSERT", 1))
			}

			err := repo.AddSong(context.Background(), song)
			require.Equal(t, tt.wantStatus, apperrors.StatusCode(err))
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresRepo_ListSongs(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectQuery(`SELECT id, title, performer FROM songs\s+WHERE title ILIKE`).
		WithArgs("yel", "").
		WillReturnRows(pgxmock.NewRows([]string{"id", "title", "performer"}).AddRow("song-1", "Yellow", "Coldplay"))

	songs, err := repo.ListSongs(context.Background(), catalog.SongFilter{Title: "yel"})
	require.NoError(t, err)
	require.Equal(t, []catalog.SongSummary{{ID: "song-1", Title: "Yellow", Performer: "Coldplay"}}, songs)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepo_GetSong(t *testing.T) {
	mock, repo := newMockRepo(t)

	duration := 266
	albumID := "album-1"
	mock.ExpectQuery(`SELECT id, title, year, genre, performer, duration, album_id FROM songs`).
		WithArgs("song-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "title", "year", "genre", "performer", "duration", "album_id"}).
			AddRow("song-1", "Yellow", 2000, "Rock", "Coldplay", &duration, &albumID))
	mock.ExpectQuery(`SELECT id, title, year, genre, performer, duration, album_id FROM songs`).
		WithArgs("song-x").
		WillReturnError(pgx.ErrNoRows)

	song, err := repo.GetSong(context.Background(), "song-1")
	require.NoError(t, err)
	require.Equal(t, "Yellow", song.Title)
	require.Equal(t, 266, *song.Duration)
	require.Equal(t, "album-1", *song.AlbumID)

	_, err = repo.GetSong(context.Background(), "song-x")
	require.ErrorIs(t, err, catalog.ErrSongNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
