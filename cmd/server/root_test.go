package main

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Subcommands(t *testing.T) {
	cmd := NewRootCmd()

	names := make([]string, 0, len(cmd.Commands()))
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	require.Contains(t, names, "serve")
	require.Contains(t, names, "migrate")
	require.NotNil(t, cmd.PersistentFlags().Lookup("config"))
	require.NotNil(t, cmd.Flags().Lookup("port"))
}

func TestMigrateCmd_Children(t *testing.T) {
	cmd := NewMigrateCmd()

	for _, name := range []string{"up", "down", "version"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		require.Equal(t, name, sub.Name())
	}
}

func TestSetupLogging(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	setupLogging("PROD", "debug")
	require.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	setupLogging("PROD", "not-a-level")
	require.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestLoadConfig_FlagsOverrideDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	cmd := NewServeCmd()
	require.NoError(t, cmd.Flags().Set("port", "6001"))

	c, err := loadConfig(cmd)
	require.NoError(t, err)
	require.Contains(t, c.GetAddr(), ":6001")
}
