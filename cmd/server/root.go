package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/openmusic/openmusic-api/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var configFile string

// NewRootCmd creates the openmusic command. Running it without a subcommand
// starts the API server.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "openmusic",
		Short:         "OpenMusic API server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML config file path")
	addServeFlags(cmd)

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	return cmd
}

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE:  runServe,
	}
	addServeFlags(cmd)
	return cmd
}

// addServeFlags declares flags named after their config keys so that
// config.Load can layer them over env and file values.
func addServeFlags(cmd *cobra.Command) {
	cmd.Flags().String("host", "localhost", "listen host")
	cmd.Flags().String("port", "5000", "listen port")
	cmd.Flags().String("env", "DEV", "environment name (DEV enables console logging)")
	cmd.Flags().String("log_level", "info", "log level")
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	c, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return nil, err
	}
	setupLogging(c.GetEnv(), c.GetLogLevel())
	return c, nil
}

func setupLogging(env, level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	if env == "DEV" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
