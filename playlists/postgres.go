package playlists

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/openmusic/openmusic-api/catalog"
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

func (r *PostgresRepo) Create(ctx context.Context, p *Playlist) error {
	_, err := r.db.Exec(ctx, `INSERT INTO playlists (id, name, owner) VALUES ($1, $2, $3)`,
		p.ID, p.Name, p.Owner)
	if err != nil {
		return errors.Wrap(err, "[playlists.PostgresRepo.Create]")
	}
	return nil
}

func (r *PostgresRepo) Get(ctx context.Context, id string) (*Playlist, error) {
	var p Playlist
	err := r.db.QueryRow(ctx,
		`SELECT p.id, p.name, p.owner, u.username
		 FROM playlists p JOIN users u ON u.id = p.owner
		 WHERE p.id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Owner, &p.Username)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPlaylistNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "[playlists.PostgresRepo.Get] playlist")
	}

	rows, err := r.db.Query(ctx, `SELECT user_id FROM collaborations WHERE playlist_id = $1`, id)
	if err != nil {
		return nil, errors.Wrap(err, "[playlists.PostgresRepo.Get] collaborators")
	}
	p.Collaborators, err = pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, errors.Wrap(err, "[playlists.PostgresRepo.Get] scan collaborators")
	}
	return &p, nil
}

func (r *PostgresRepo) ListForUser(ctx context.Context, userID string) ([]Playlist, error) {
	rows, err := r.db.Query(ctx,
		`SELECT DISTINCT p.id, p.name, p.owner, u.username
		 FROM playlists p
		 JOIN users u ON u.id = p.owner
		 LEFT JOIN collaborations c ON c.playlist_id = p.id
		 WHERE p.owner = $1 OR c.user_id = $1
		 ORDER BY p.name, p.id`, userID)
	if err != nil {
		return nil, errors.Wrap(err, "[playlists.PostgresRepo.ListForUser]")
	}
	playlists, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Playlist, error) {
		var p Playlist
		err := row.Scan(&p.ID, &p.Name, &p.Owner, &p.Username)
		return p, err
	})
	if err != nil {
		return nil, errors.Wrap(err, "[playlists.PostgresRepo.ListForUser] scan")
	}
	return playlists, nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM playlists WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "[playlists.PostgresRepo.Delete]")
	}
	if tag.RowsAffected() == 0 {
		return ErrPlaylistNotFound
	}
	return nil
}

func (r *PostgresRepo) AddSong(ctx context.Context, entry Entry, activity ActivityRecord) error {
	err := r.withTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO playlist_songs (id, playlist_id, song_id) VALUES ($1, $2, $3)`,
			entry.ID, entry.PlaylistID, entry.SongID)
		if store.IsUniqueViolation(err) {
			return ErrSongAlreadyInPlaylist
		}
		if store.IsForeignKeyViolation(err) {
			return catalog.ErrSongNotFound
		}
		if err != nil {
			return errors.Wrap(err, "insert entry")
		}
		return insertActivity(ctx, tx, activity)
	})
	if err != nil {
		return errors.Wrap(err, "[playlists.PostgresRepo.AddSong]")
	}
	return nil
}

func (r *PostgresRepo) RemoveSong(ctx context.Context, playlistID, songID string, activity ActivityRecord) (bool, error) {
	removed := false
	err := r.withTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`DELETE FROM playlist_songs WHERE playlist_id = $1 AND song_id = $2`,
			playlistID, songID)
		if err != nil {
			return errors.Wrap(err, "delete entry")
		}
		if tag.RowsAffected() == 0 {
			return nil
		}
		removed = true
		return insertActivity(ctx, tx, activity)
	})
	if err != nil {
		return false, errors.Wrap(err, "[playlists.PostgresRepo.RemoveSong]")
	}
	return removed, nil
}

// withTx commits when fn succeeds. The deferred rollback is a no-op after a
// commit.
func (r *PostgresRepo) withTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	return errors.Wrap(tx.Commit(ctx), "commit")
}

func insertActivity(ctx context.Context, tx pgx.Tx, a ActivityRecord) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO playlist_song_activities (id, playlist_id, song_id, user_id, action, time)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		a.ID, a.PlaylistID, a.SongID, a.UserID, string(a.Action), a.Time)
	if err != nil {
		return errors.Wrap(err, "insert activity")
	}
	return nil
}

func (r *PostgresRepo) Songs(ctx context.Context, playlistID string) ([]catalog.SongSummary, error) {
	rows, err := r.db.Query(ctx,
		`SELECT s.id, s.title, s.performer
		 FROM playlist_songs ps JOIN songs s ON s.id = ps.song_id
		 WHERE ps.playlist_id = $1
		 ORDER BY s.title`, playlistID)
	if err != nil {
		return nil, errors.Wrap(err, "[playlists.PostgresRepo.Songs]")
	}
	songs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (catalog.SongSummary, error) {
		var s catalog.SongSummary
		err := row.Scan(&s.ID, &s.Title, &s.Performer)
		return s, err
	})
	if err != nil {
		return nil, errors.Wrap(err, "[playlists.PostgresRepo.Songs] scan")
	}
	return songs, nil
}

// Activities keeps entries for songs and users deleted since; their title or
// username is then empty.
func (r *PostgresRepo) Activities(ctx context.Context, playlistID string) ([]Activity, error) {
	rows, err := r.db.Query(ctx,
		`SELECT COALESCE(u.username, ''), COALESCE(s.title, ''), a.action, a.time
		 FROM playlist_song_activities a
		 LEFT JOIN users u ON u.id = a.user_id
		 LEFT JOIN songs s ON s.id = a.song_id
		 WHERE a.playlist_id = $1
		 ORDER BY a.time`, playlistID)
	if err != nil {
		return nil, errors.Wrap(err, "[playlists.PostgresRepo.Activities]")
	}
	activities, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Activity, error) {
		var (
			a      Activity
			action string
		)
		err := row.Scan(&a.Username, &a.Title, &action, &a.Time)
		a.Action = Action(action)
		return a, err
	})
	if err != nil {
		return nil, errors.Wrap(err, "[playlists.PostgresRepo.Activities] scan")
	}
	return activities, nil
}

// AddCollaborator relies on the (playlist_id, user_id) unique constraint so
// concurrent grants for the same user converge on one row.
func (r *PostgresRepo) AddCollaborator(ctx context.Context, c Collaboration) (string, error) {
	var id string
	err := r.db.QueryRow(ctx,
		`INSERT INTO collaborations (id, playlist_id, user_id) VALUES ($1, $2, $3)
		 ON CONFLICT (playlist_id, user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		 RETURNING id`,
		c.ID, c.PlaylistID, c.UserID).Scan(&id)
	if store.IsForeignKeyViolation(err) {
		return "", ErrPlaylistNotFound
	}
	if err != nil {
		return "", errors.Wrap(err, "[playlists.PostgresRepo.AddCollaborator]")
	}
	return id, nil
}

func (r *PostgresRepo) RemoveCollaborator(ctx context.Context, playlistID, userID string) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM collaborations WHERE playlist_id = $1 AND user_id = $2`, playlistID, userID)
	if err != nil {
		return false, errors.Wrap(err, "[playlists.PostgresRepo.RemoveCollaborator]")
	}
	return tag.RowsAffected() > 0, nil
}
