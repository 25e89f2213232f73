package config

import (
	"time"

	"github.com/knadh/koanf/v2"
)

type TokenConfig interface {
	GetAccessTokenKey() string
	GetRefreshTokenKey() string
	GetAccessTokenAge() time.Duration
}

type SecurityConfig interface {
	GetEnableRateLimiting() bool
	GetLoginRateLimit() float64
	GetLoginRateBurst() int
}

type Tokens struct {
	k *koanf.Koanf
}

var _ TokenConfig = Tokens{}

func (t Tokens) GetAccessTokenKey() string {
	return t.k.String(keyAccessTokenKey)
}

func (t Tokens) GetRefreshTokenKey() string {
	return t.k.String(keyRefreshTokenKey)
}

// GetAccessTokenAge reads ACCESS_TOKEN_AGE, expressed in seconds.
func (t Tokens) GetAccessTokenAge() time.Duration {
	return time.Duration(t.k.Int(keyAccessTokenAge)) * time.Second
}

type Security struct {
	k *koanf.Koanf
}

var _ SecurityConfig = Security{}

func (s Security) GetEnableRateLimiting() bool {
	return s.GetLoginRateLimit() > 0
}

// GetLoginRateLimit is the number of login attempts per second allowed per client address.
func (s Security) GetLoginRateLimit() float64 {
	return s.k.Float64(keyLoginRateLimit)
}

func (s Security) GetLoginRateBurst() int {
	return s.k.Int(keyLoginRateBurst)
}
