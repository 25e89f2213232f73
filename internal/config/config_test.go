package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/openmusic/openmusic-api/internal/config"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func setTokenEnv(t *testing.T, access, refresh string) {
	t.Helper()
	t.Setenv("ACCESS_TOKEN_KEY", access)
	t.Setenv("REFRESH_TOKEN_KEY", refresh)
}

func TestLoad_FromEnvironment(t *testing.T) {
	setTokenEnv(t, "access-secret", "refresh-secret")
	t.Setenv("HOST", "0.0.0.0")
	t.Setenv("PORT", "9000")
	t.Setenv("ACCESS_TOKEN_AGE", "60")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")

	c, err := config.New()
	require.NoError(t, err)
	require.NoError(t, c.Validate())

	require.Equal(t, "0.0.0.0:9000", c.GetAddr())
	require.Equal(t, "access-secret", c.GetAccessTokenKey())
	require.Equal(t, "refresh-secret", c.GetRefreshTokenKey())
	require.Equal(t, time.Minute, c.GetAccessTokenAge())
	require.True(t, c.GetAllowedOrigins().IsAllowedOrigin("https://b.example.com"))
	require.False(t, c.GetAllowedOrigins().IsAllowedOrigin("*"))
}

func TestLoad_Defaults(t *testing.T) {
	setTokenEnv(t, "a", "b")
	t.Setenv("ACCESS_TOKEN_AGE", "")
	t.Setenv("ENV", "")

	c, err := config.New()
	require.NoError(t, err)
	require.Equal(t, 30*time.Minute, c.GetAccessTokenAge())
	require.Equal(t, "DEV", c.GetEnv())
	require.True(t, c.GetEnableRateLimiting())
	require.Equal(t, 10, c.GetLoginRateBurst())
}

func TestLoad_FileThenFlags(t *testing.T) {
	setTokenEnv(t, "", "")
	t.Setenv("PORT", "")
	t.Setenv("HOST", "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := "host: 127.0.0.1\nport: 7000\naccess_token_key: file-access\nrefresh_token_key: file-refresh\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("port", "5000", "")
	require.NoError(t, flags.Parse([]string{"--port", "7100"}))

	c, err := config.Load(path, flags)
	require.NoError(t, err)
	require.NoError(t, c.Validate())
	require.Equal(t, "127.0.0.1:7100", c.GetAddr())
	require.Equal(t, "file-access", c.GetAccessTokenKey())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		access  string
		refresh string
		age     string
		wantErr bool
	}{
		{name: "valid", access: "a", refresh: "b", age: "1800"},
		{name: "missing access key", access: "", refresh: "b", age: "1800", wantErr: true},
		{name: "missing refresh key", access: "a", refresh: "", age: "1800", wantErr: true},
		{name: "same keys", access: "same", refresh: "same", age: "1800", wantErr: true},
		{name: "zero age", access: "a", refresh: "b", age: "0", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setTokenEnv(t, tt.access, tt.refresh)
			t.Setenv("ACCESS_TOKEN_AGE", tt.age)

			c, err := config.New()
			require.NoError(t, err)
			if tt.wantErr {
				require.Error(t, c.Validate())
				return
			}
			require.NoError(t, c.Validate())
		})
	}
}
