package users

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/openmusic/openmusic-api/internal/store"
	"github.com/pkg/errors"
)

type PostgresRepo struct {
	db store.DB
}

var _ UserRepo = (*PostgresRepo)(nil)

func NewPostgresRepo(db store.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) Create(ctx context.Context, user *User) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO users (id, username, password_hash, fullname) VALUES ($1, $2, $3, $4)`,
		user.ID, user.Username, user.PasswordHash, user.Fullname)
	if store.IsUniqueViolation(err) {
		return ErrUsernameTaken
	}
	if err != nil {
		return errors.Wrap(err, "[PostgresRepo.Create]")
	}
	return nil
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (*User, error) {
	return r.getOne(ctx, `SELECT id, username, password_hash, fullname FROM users WHERE id = $1`, id)
}

func (r *PostgresRepo) GetByUsername(ctx context.Context, username string) (*User, error) {
	return r.getOne(ctx, `SELECT id, username, password_hash, fullname FROM users WHERE username = $1`, username)
}

func (r *PostgresRepo) getOne(ctx context.Context, query string, arg string) (*User, error) {
	var u User
	err := r.db.QueryRow(ctx, query, arg).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Fullname)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "[PostgresRepo.getOne]")
	}
	return &u, nil
}
