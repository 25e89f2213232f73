package refresh

import (
	"context"
	"time"
)

// StoredRefreshToken is a ledger entry. The token string is the key; the
// remaining fields are server-side metadata.
type StoredRefreshToken struct {
	Token  string
	UserID string
	Iat    time.Time
}

// Repo is the durable set of currently valid refresh tokens.
type Repo interface {
	// Insert reports false when the token was already present.
	Insert(ctx context.Context, refreshToken *StoredRefreshToken) (bool, error)
	// Delete reports false when the token was not present.
	Delete(ctx context.Context, token string) (bool, error)
	Exists(ctx context.Context, token string) (bool, error)
}
