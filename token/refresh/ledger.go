package refresh

import (
	"context"
	"time"

	apperrors "github.com/openmusic/openmusic-api/internal/errors"
	"github.com/openmusic/openmusic-api/token"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Decoder validates the signature and shape of a refresh token.
type Decoder interface {
	DecodeRefreshToken(raw string) (*token.Payload, error)
}

// Ledger tracks which refresh tokens are live. A refresh token is valid only
// while it is well-formed and present in the ledger.
type Ledger struct {
	repo    Repo
	decoder Decoder
}

func NewLedger(repo Repo, decoder Decoder) (*Ledger, error) {
	if repo == nil {
		return nil, errors.New("[NewLedger] repo is required")
	}
	if decoder == nil {
		return nil, errors.New("[NewLedger] decoder is required")
	}
	return &Ledger{repo: repo, decoder: decoder}, nil
}

// Add records a refresh token for userID. Adding a token that is already
// present leaves the ledger unchanged.
func (l *Ledger) Add(ctx context.Context, refreshToken, userID string) error {
	inserted, err := l.repo.Insert(ctx, &StoredRefreshToken{
		Token:  refreshToken,
		UserID: userID,
		Iat:    NowTimeFunc(),
	})
	if err != nil {
		return errors.Wrap(err, "[Ledger.Add] repo.Insert")
	}
	if !inserted {
		log.Warn().Str("user_id", userID).Msg("refresh token already present in ledger")
	}
	return nil
}

// Remove deletes a refresh token and reports whether it was present.
// Removing an absent token is not an error.
func (l *Ledger) Remove(ctx context.Context, refreshToken string) (bool, error) {
	removed, err := l.repo.Delete(ctx, refreshToken)
	if err != nil {
		return false, errors.Wrap(err, "[Ledger.Remove] repo.Delete")
	}
	return removed, nil
}

func (l *Ledger) Contains(ctx context.Context, refreshToken string) (bool, error) {
	found, err := l.repo.Exists(ctx, refreshToken)
	if err != nil {
		return false, errors.Wrap(err, "[Ledger.Contains] repo.Exists")
	}
	return found, nil
}

// Verify decodes the token and checks that it is still live.
func (l *Ledger) Verify(ctx context.Context, refreshToken string) (*token.Payload, error) {
	payload, err := l.decoder.DecodeRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}
	found, err := l.Contains(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotRecognized
	}
	return payload, nil
}

// ErrNotRecognized is returned for a well-formed token absent from the ledger.
var ErrNotRecognized = apperrors.Client(apperrors.ErrRefreshTokenNotRecognized, "refresh token is not recognized")
