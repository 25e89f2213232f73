package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/openmusic/openmusic-api/auth"
	"github.com/openmusic/openmusic-api/catalog"
	"github.com/openmusic/openmusic-api/events"
	"github.com/openmusic/openmusic-api/internal/config"
	"github.com/openmusic/openmusic-api/internal/metrics"
	"github.com/openmusic/openmusic-api/internal/store"
	"github.com/openmusic/openmusic-api/internal/validator"
	"github.com/openmusic/openmusic-api/playlists"
	"github.com/openmusic/openmusic-api/server"
	"github.com/openmusic/openmusic-api/token"
	"github.com/openmusic/openmusic-api/token/refresh"
	"github.com/openmusic/openmusic-api/users"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

// runServe restarts the server after a recovered panic and stops on a clean
// shutdown or a startup error.
func runServe(cmd *cobra.Command, _ []string) error {
	c, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := c.Validate(); err != nil {
		return err
	}
	displayAppname(c.GetAppName())

	m := metrics.New()
	if err := m.Register(prometheus.DefaultRegisterer); err != nil {
		return err
	}

	for {
		err := run(c, m)
		if err == nil {
			break
		}
		if !errors.Is(err, errPanicRecovered) {
			return err
		}
		log.Error().Err(err).Msg("restarting server")
		time.Sleep(1 * time.Second)
	}
	log.Info().Msg("server stopped")
	return nil
}

var errPanicRecovered = errors.New("panic recovered")

func run(c config.Config, m *metrics.Metrics) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("panic", fmt.Sprint(r)).Bytes("stack", debug.Stack()).Msg("recovered from panic")
			returnError = errPanicRecovered
		}
	}()

	ctx := context.Background()
	app, err := newApp(ctx, c, m)
	if err != nil {
		return err
	}
	defer app.close()

	httpServer := &http.Server{
		Addr:              c.GetAddr(),
		Handler:           app.server,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() { serveErr <- listenAndServe(httpServer) }()

	select {
	case err := <-serveErr:
		return err
	case <-waitForStopSignal():
	}
	return shutdown(httpServer)
}

// app owns the resources created for one run of the server.
type app struct {
	server  *server.Server
	closers []func()
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func newApp(ctx context.Context, c config.Config, m *metrics.Metrics) (*app, error) {
	a := &app{}
	fail := func(err error) (*app, error) {
		a.close()
		return nil, err
	}

	if err := store.Migrate(c.GetDatabaseURL()); err != nil {
		return fail(errors.Wrap(err, "[newApp] migrate"))
	}
	pool, err := store.Connect(ctx, c.GetDatabaseURL())
	if err != nil {
		return fail(err)
	}
	a.closers = append(a.closers, pool.Close)

	var publisher events.Publisher = events.NopPublisher{}
	if url := c.GetRedisURL(); url != "" {
		rdb, err := events.NewRedisClient(url)
		if err != nil {
			return fail(err)
		}
		a.closers = append(a.closers, func() { _ = rdb.Close() })
		publisher = events.NewRedisPublisher(rdb, events.DefaultChannel)
		log.Info().Msg("publishing playlist events to redis")
	}

	hasher := users.NewBcryptHasher()
	userService, err := users.NewService(users.NewPostgresRepo(pool), hasher)
	if err != nil {
		return fail(err)
	}

	codec, err := token.NewCodec(c.GetAccessTokenKey(), c.GetRefreshTokenKey(), c.GetAccessTokenAge())
	if err != nil {
		return fail(err)
	}
	ledger, err := refresh.NewLedger(refresh.NewPostgresRepo(pool), codec)
	if err != nil {
		return fail(err)
	}
	authService, err := auth.NewAuthenticationService(auth.Deps{
		Users:    userService,
		Verifier: hasher,
		Tokens:   codec,
		Ledger:   ledger,
	}, auth.WithMetrics(m))
	if err != nil {
		return fail(err)
	}

	catalogService, err := catalog.NewService(catalog.NewPostgresRepo(pool))
	if err != nil {
		return fail(err)
	}
	playlistService, err := playlists.NewService(
		playlists.NewPostgresRepo(pool),
		catalogService,
		userService,
		playlists.WithPublisher(publisher),
		playlists.WithMetrics(m),
	)
	if err != nil {
		return fail(err)
	}

	v, err := validator.New()
	if err != nil {
		return fail(err)
	}

	var limiter *server.LoginLimiter
	if c.GetEnableRateLimiting() {
		limiter = server.NewLoginLimiter(c.GetLoginRateLimit(), c.GetLoginRateBurst(), server.DefaultLimiterCleanupInterval)
		a.closers = append(a.closers, limiter.Stop)
	}

	a.server, err = server.New(server.Deps{
		Config:    c,
		Auth:      authService,
		Tokens:    codec,
		Users:     userService,
		Catalog:   catalogService,
		Playlists: playlistService,
		Validator: v,
		Limiter:   limiter,
		Gatherer:  prometheus.DefaultGatherer,
		Database:  pool,
	})
	if err != nil {
		return fail(err)
	}
	return a, nil
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return errors.Wrap(err, "server.ListenAndServe")
	}
	return nil
}

func waitForStopSignal() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "server.Shutdown")
	}
	return nil
}
