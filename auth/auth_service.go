package auth

import (
	"context"

	apperrors "github.com/openmusic/openmusic-api/internal/errors"
	"github.com/openmusic/openmusic-api/internal/metrics"
	"github.com/openmusic/openmusic-api/token"
	"github.com/openmusic/openmusic-api/token/refresh"
	"github.com/openmusic/openmusic-api/users"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// ErrInvalidCredentials is returned for both an unknown username and a wrong
// password so that callers cannot enumerate usernames.
var ErrInvalidCredentials = apperrors.Client(apperrors.ErrAuthenticationFailed, "the credentials you provided are wrong")

// CredentialStore looks users up by username.
type CredentialStore interface {
	FindByUsername(ctx context.Context, username string) (*users.User, error)
}

// SecretVerifier compares a presented password with a stored hash.
type SecretVerifier interface {
	Verify(password, hash string) (bool, error)
	DummyHash() string
}

// TokenIssuer signs access and refresh tokens.
type TokenIssuer interface {
	IssueAccessToken(payload token.Payload) (string, error)
	IssueRefreshToken(payload token.Payload) (string, error)
}

// RefreshLedger is the set of live refresh tokens.
type RefreshLedger interface {
	Add(ctx context.Context, refreshToken, userID string) error
	Remove(ctx context.Context, refreshToken string) (bool, error)
	Verify(ctx context.Context, refreshToken string) (*token.Payload, error)
}

// Deps holds all dependencies for the AuthenticationService
type Deps struct {
	Users    CredentialStore
	Verifier SecretVerifier
	Tokens   TokenIssuer
	Ledger   RefreshLedger
}

// AuthenticationService logs users in, refreshes their access tokens and logs them out.
// An authenticated session exists exactly as long as its refresh token is in the ledger.
type AuthenticationService struct {
	deps    Deps
	metrics *metrics.Metrics
}

// AuthenticationServiceOption defines a function type to modify the AuthenticationService instance.
type AuthenticationServiceOption func(*AuthenticationService)

// WithMetrics records the outcome of every operation.
func WithMetrics(m *metrics.Metrics) AuthenticationServiceOption {
	return func(as *AuthenticationService) {
		as.metrics = m
	}
}

func NewAuthenticationService(deps Deps, options ...AuthenticationServiceOption) (*AuthenticationService, error) {
	if deps.Users == nil {
		return nil, errors.New("[NewAuthenticationService] credential store is required")
	}
	if deps.Verifier == nil {
		return nil, errors.New("[NewAuthenticationService] secret verifier is required")
	}
	if deps.Tokens == nil {
		return nil, errors.New("[NewAuthenticationService] token issuer is required")
	}
	if deps.Ledger == nil {
		return nil, errors.New("[NewAuthenticationService] refresh ledger is required")
	}

	as := &AuthenticationService{deps: deps}
	for _, opt := range options {
		opt(as)
	}
	return as, nil
}

// Login verifies the credentials, issues a token pair and records the refresh token.
func (as *AuthenticationService) Login(ctx context.Context, username, password string) (*token.Pair, error) {
	user, err := as.deps.Users.FindByUsername(ctx, username)
	if err != nil {
		if !apperrors.Is(err, apperrors.ErrNotFound) {
			as.metrics.RecordAuth("login", metrics.OutcomeError)
			return nil, errors.Wrap(err, "[AuthenticationService.Login] FindByUsername")
		}
		// Spend the same hashing work as a real check.
		_, _ = as.deps.Verifier.Verify(password, as.deps.Verifier.DummyHash())
		as.rejectLogin(username, metrics.OutcomeUnknownUser)
		return nil, ErrInvalidCredentials
	}

	ok, err := as.deps.Verifier.Verify(password, user.PasswordHash)
	if err != nil {
		as.metrics.RecordAuth("login", metrics.OutcomeError)
		return nil, errors.Wrapf(err, "[AuthenticationService.Login] Verify user %s", user.ID)
	}
	if !ok {
		as.rejectLogin(username, metrics.OutcomePasswordMismatch)
		return nil, ErrInvalidCredentials
	}

	payload := token.Payload{ID: user.ID}
	accessToken, err := as.deps.Tokens.IssueAccessToken(payload)
	if err != nil {
		return nil, errors.Wrap(err, "[AuthenticationService.Login] IssueAccessToken")
	}
	refreshToken, err := as.deps.Tokens.IssueRefreshToken(payload)
	if err != nil {
		return nil, errors.Wrap(err, "[AuthenticationService.Login] IssueRefreshToken")
	}
	if err := as.deps.Ledger.Add(ctx, refreshToken, user.ID); err != nil {
		as.metrics.RecordAuth("login", metrics.OutcomeError)
		return nil, errors.Wrap(err, "[AuthenticationService.Login] Ledger.Add")
	}

	as.metrics.RecordAuth("login", metrics.OutcomeSuccess)
	log.Info().Str("user_id", user.ID).Msg("user logged in")
	return &token.Pair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Refresh issues a new access token for a live refresh token. The refresh
// token itself is not rotated.
func (as *AuthenticationService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	payload, err := as.deps.Ledger.Verify(ctx, refreshToken)
	if err != nil {
		as.metrics.RecordAuth("refresh", outcomeOf(err))
		return "", errors.Wrap(err, "[AuthenticationService.Refresh] Ledger.Verify")
	}

	accessToken, err := as.deps.Tokens.IssueAccessToken(*payload)
	if err != nil {
		return "", errors.Wrap(err, "[AuthenticationService.Refresh] IssueAccessToken")
	}
	as.metrics.RecordAuth("refresh", metrics.OutcomeSuccess)
	return accessToken, nil
}

// Logout removes the refresh token from the ledger. A token that is not live,
// including one already logged out, fails with RefreshTokenNotRecognized.
func (as *AuthenticationService) Logout(ctx context.Context, refreshToken string) error {
	removed, err := as.deps.Ledger.Remove(ctx, refreshToken)
	if err != nil {
		as.metrics.RecordAuth("logout", metrics.OutcomeError)
		return errors.Wrap(err, "[AuthenticationService.Logout] Ledger.Remove")
	}
	if !removed {
		as.metrics.RecordAuth("logout", metrics.OutcomeNotRecognized)
		return refresh.ErrNotRecognized
	}
	as.metrics.RecordAuth("logout", metrics.OutcomeSuccess)
	return nil
}

func (as *AuthenticationService) rejectLogin(username, reason string) {
	as.metrics.RecordAuth("login", reason)
	log.Info().Str("username", username).Str("reason", reason).Msg("login rejected")
}

func outcomeOf(err error) string {
	switch {
	case apperrors.Is(err, apperrors.ErrTokenInvalid):
		return metrics.OutcomeTokenInvalid
	case apperrors.Is(err, apperrors.ErrRefreshTokenNotRecognized):
		return metrics.OutcomeNotRecognized
	default:
		return metrics.OutcomeError
	}
}
