package refreshrepofake

import (
	"context"
	"sync"

	"github.com/openmusic/openmusic-api/token/refresh"
)

var _ refresh.Repo = (*FakeRefreshTokenRepo)(nil)

type FakeRefreshTokenRepo struct {
	tokens map[string]*refresh.StoredRefreshToken
	lock   sync.RWMutex
}

func NewFakeRefreshTokenRepo() *FakeRefreshTokenRepo {
	return &FakeRefreshTokenRepo{
		tokens: make(map[string]*refresh.StoredRefreshToken),
	}
}

func (tr *FakeRefreshTokenRepo) Insert(_ context.Context, refreshToken *refresh.StoredRefreshToken) (bool, error) {
	tr.lock.Lock()
	defer tr.lock.Unlock()

	if _, ok := tr.tokens[refreshToken.Token]; ok {
		return false, nil
	}
	tr.tokens[refreshToken.Token] = refreshToken
	return true, nil
}

func (tr *FakeRefreshTokenRepo) Delete(_ context.Context, token string) (bool, error) {
	tr.lock.Lock()
	defer tr.lock.Unlock()

	if _, ok := tr.tokens[token]; !ok {
		return false, nil
	}
	delete(tr.tokens, token)
	return true, nil
}

func (tr *FakeRefreshTokenRepo) Exists(_ context.Context, token string) (bool, error) {
	tr.lock.RLock()
	defer tr.lock.RUnlock()
	_, ok := tr.tokens[token]
	return ok, nil
}

// ByUser lists the live tokens of a user.
func (tr *FakeRefreshTokenRepo) ByUser(userID string) []string {
	tr.lock.RLock()
	defer tr.lock.RUnlock()

	var tokens []string
	for _, rt := range tr.tokens {
		if rt.UserID == userID {
			tokens = append(tokens, rt.Token)
		}
	}
	return tokens
}
