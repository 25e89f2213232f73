package refresh

import (
	"context"

	"github.com/openmusic/openmusic-api/internal/store"
	"github.com/pkg/errors"
)

// PostgresRepo stores the ledger in the authentications table.
type PostgresRepo struct {
	db store.DB
}

var _ Repo = (*PostgresRepo)(nil)

func NewPostgresRepo(db store.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) Insert(ctx context.Context, rt *StoredRefreshToken) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`INSERT INTO authentications (token, user_id, created_at) VALUES ($1, $2, $3)
		 ON CONFLICT (token) DO NOTHING`,
		rt.Token, rt.UserID, rt.Iat)
	if err != nil {
		return false, errors.Wrap(err, "[PostgresRepo.Insert]")
	}
	return tag.RowsAffected() == 1, nil
}

func (r *PostgresRepo) Delete(ctx context.Context, token string) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM authentications WHERE token = $1`, token)
	if err != nil {
		return false, errors.Wrap(err, "[PostgresRepo.Delete]")
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PostgresRepo) Exists(ctx context.Context, token string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM authentications WHERE token = $1)`, token).Scan(&exists)
	if err != nil {
		return false, errors.Wrap(err, "[PostgresRepo.Exists]")
	}
	return exists, nil
}
