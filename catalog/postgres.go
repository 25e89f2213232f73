package catalog

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/openmusic/openmusic-api/internal/store"
	"github.com/pkg/errors"
)

type PostgresRepo struct {
	db store.DB
}

var _ Repo = (*PostgresRepo)(nil)

func NewPostgresRepo(db store.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) AddAlbum(ctx context.Context, album *Album) error {
	_, err := r.db.Exec(ctx, `INSERT INTO albums (id, name, year) VALUES ($1, $2, $3)`,
		album.ID, album.Name, album.Year)
	if err != nil {
		return errors.Wrap(err, "[catalog.PostgresRepo.AddAlbum]")
	}
	return nil
}

func (r *PostgresRepo) GetAlbum(ctx context.Context, id string) (*Album, error) {
	album := Album{Songs: []SongSummary{}}
	err := r.db.QueryRow(ctx, `SELECT id, name, year FROM albums WHERE id = $1`, id).
		Scan(&album.ID, &album.Name, &album.Year)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAlbumNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "[catalog.PostgresRepo.GetAlbum] album")
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, title, performer FROM songs WHERE album_id = $1 ORDER BY title`, id)
	if err != nil {
		return nil, errors.Wrap(err, "[catalog.PostgresRepo.GetAlbum] songs")
	}
	songs, err := collectSummaries(rows)
	if err != nil {
		return nil, errors.Wrap(err, "[catalog.PostgresRepo.GetAlbum] scan songs")
	}
	album.Songs = songs
	return &album, nil
}

func (r *PostgresRepo) UpdateAlbum(ctx context.Context, album *Album) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE albums SET name = $1, year = $2, updated_at = now() WHERE id = $3`,
		album.Name, album.Year, album.ID)
	if err != nil {
		return errors.Wrap(err, "[catalog.PostgresRepo.UpdateAlbum]")
	}
	if tag.RowsAffected() == 0 {
		return ErrAlbumNotFound
	}
	return nil
}

func (r *PostgresRepo) DeleteAlbum(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM albums WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "[catalog.PostgresRepo.DeleteAlbum]")
	}
	if tag.RowsAffected() == 0 {
		return ErrAlbumNotFound
	}
	return nil
}

func (r *PostgresRepo) AddSong(ctx context.Context, song *Song) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO songs (id, title, year, genre, performer, duration, album_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		song.ID, song.Title, song.Year, song.Genre, song.Performer, song.Duration, song.AlbumID)
	if store.IsForeignKeyViolation(err) {
		return ErrAlbumNotFound
	}
	if err != nil {
		return errors.Wrap(err, "[catalog.PostgresRepo.AddSong]")
	}
	return nil
}

func (r *PostgresRepo) ListSongs(ctx context.Context, filter SongFilter) ([]SongSummary, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, title, performer FROM songs
		 WHERE title ILIKE '%' || $1 || '%' AND performer ILIKE '%' || $2 || '%'
		 ORDER BY title`,
		filter.Title, filter.Performer)
	if err != nil {
		return nil, errors.Wrap(err, "[catalog.PostgresRepo.ListSongs]")
	}
	songs, err := collectSummaries(rows)
	if err != nil {
		return nil, errors.Wrap(err, "[catalog.PostgresRepo.ListSongs] scan")
	}
	return songs, nil
}

func (r *PostgresRepo) GetSong(ctx context.Context, id string) (*Song, error) {
	var s Song
	err := r.db.QueryRow(ctx,
		`SELECT id, title, year, genre, performer, duration, album_id FROM songs WHERE id = $1`, id).
		Scan(&s.ID, &s.Title, &s.Year, &s.Genre, &s.Performer, &s.Duration, &s.AlbumID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSongNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "[catalog.PostgresRepo.GetSong]")
	}
	return &s, nil
}

func (r *PostgresRepo) UpdateSong(ctx context.Context, song *Song) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE songs SET title = $1, year = $2, genre = $3, performer = $4, duration = $5,
		 album_id = $6, updated_at = now() WHERE id = $7`,
		song.Title, song.Year, song.Genre, song.Performer, song.Duration, song.AlbumID, song.ID)
	if store.IsForeignKeyViolation(err) {
		return ErrAlbumNotFound
	}
	if err != nil {
		return errors.Wrap(err, "[catalog.PostgresRepo.UpdateSong]")
	}
	if tag.RowsAffected() == 0 {
		return ErrSongNotFound
	}
	return nil
}

func (r *PostgresRepo) DeleteSong(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM songs WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "[catalog.PostgresRepo.DeleteSong]")
	}
	if tag.RowsAffected() == 0 {
		return ErrSongNotFound
	}
	return nil
}

func collectSummaries(rows pgx.Rows) ([]SongSummary, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (SongSummary, error) {
		var s SongSummary
		err := row.Scan(&s.ID, &s.Title, &s.Performer)
		return s, err
	})
}
