package users

import (
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

type User struct {
	ID           string `json:"id"`       // Unique identifier for the user
	Username     string `json:"username"` // Unique username
	PasswordHash string `json:"-"`        // Hashed version of the user's password - never serialize
	Fullname     string `json:"fullname"` // Display name
}

// NewID returns a fresh user identifier.
func NewID() string {
	return "user-" + uuid.New().String()
}

// Hasher hashes passwords and verifies presented passwords against a stored hash.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) (bool, error)
	DummyHash() string
}

// BcryptHasher implements Hasher with bcrypt, whose comparison runs in
// constant time with respect to where a mismatch occurs.
type BcryptHasher struct {
	cost int

	dummyOnce sync.Once
	dummy     string
}

var _ Hasher = (*BcryptHasher)(nil)

func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{cost: bcrypt.DefaultCost}
}

// NewBcryptHasherWithCost is intended for tests, where DefaultCost is slow.
func NewBcryptHasherWithCost(cost int) *BcryptHasher {
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", errors.Wrap(err, "[BcryptHasher.Hash]")
	}
	return string(bytes), nil
}

// Verify returns false for a plain mismatch and an error only when the
// stored hash itself is malformed.
func (h *BcryptHasher) Verify(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword), errors.Is(err, bcrypt.ErrPasswordTooLong):
		return false, nil
	default:
		return false, errors.Wrap(err, "[BcryptHasher.Verify] malformed stored hash")
	}
}

// DummyHash is a valid hash of a random secret. Verifying against it costs
// the same as a real check, so unknown usernames take as long as wrong passwords.
func (h *BcryptHasher) DummyHash() string {
	h.dummyOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte(uuid.New().String()), h.cost)
		if err != nil {
			panic(err)
		}
		h.dummy = string(hash)
	})
	return h.dummy
}
