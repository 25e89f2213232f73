package users

import (
	"context"
	"strings"

	apperrors "github.com/openmusic/openmusic-api/internal/errors"
	"github.com/pkg/errors"
)

// Service registers and looks up users.
type Service struct {
	repo   UserRepo
	hasher Hasher
}

func NewService(repo UserRepo, hasher Hasher) (*Service, error) {
	if repo == nil {
		return nil, errors.New("[NewService] user repo is required")
	}
	if hasher == nil {
		return nil, errors.New("[NewService] hasher is required")
	}
	return &Service{repo: repo, hasher: hasher}, nil
}

// Register stores a new user with a hashed password.
func (s *Service) Register(ctx context.Context, username, password, fullname string) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" || strings.TrimSpace(fullname) == "" {
		return nil, apperrors.Client(apperrors.ErrInvalidPayload, "username, password and fullname are required")
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.Register] hasher.Hash")
	}

	user := &User{
		ID:           NewID(),
		Username:     username,
		PasswordHash: hash,
		Fullname:     fullname,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, errors.Wrap(err, "[Service.Register] repo.Create")
	}
	return user, nil
}

func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.Get] repo.GetByID")
	}
	return user, nil
}

// FindByUsername is the credential store lookup used at login.
func (s *Service) FindByUsername(ctx context.Context, username string) (*User, error) {
	return s.repo.GetByUsername(ctx, username)
}

// FindByID is the credential store lookup used by collaboration checks.
func (s *Service) FindByID(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}
