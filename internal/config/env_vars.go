package config

import (
	"net"
	"strings"

	"github.com/knadh/koanf/v2"
)

type EnvVars struct {
	k *koanf.Koanf
}

var _ EnvConfig = EnvVars{}

func (e EnvVars) GetAddr() string {
	return net.JoinHostPort(e.k.String(keyHost), strings.TrimPrefix(e.k.String(keyPort), ":"))
}

func (e EnvVars) GetAppName() string {
	return e.k.String(keyAppName)
}

// GetEnv returns the upper-cased environment name, e.g. DEV or PROD.
func (e EnvVars) GetEnv() string {
	env := strings.ToUpper(e.k.String(keyEnv))
	if env == "" {
		return "DEV"
	}
	return env
}

func (e EnvVars) GetLogLevel() string {
	return e.k.String(keyLogLevel)
}

func (e EnvVars) GetDatabaseURL() string {
	return e.k.String(keyDatabaseURL)
}

// GetRedisURL returns an empty string when activity events are not published.
func (e EnvVars) GetRedisURL() string {
	return e.k.String(keyRedisURL)
}
