package users

import (
	"context"

	apperrors "github.com/openmusic/openmusic-api/internal/errors"
)

var (
	ErrUserNotFound  = apperrors.Client(apperrors.ErrNotFound, "user not found")
	ErrUsernameTaken = apperrors.Client(apperrors.ErrConflict, "failed to add user, username already used")
)

// UserRepo is the credential store. Lookups of absent users fail with
// ErrUserNotFound; creating a taken username fails with ErrUsernameTaken.
type UserRepo interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
}
