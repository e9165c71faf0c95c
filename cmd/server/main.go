package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/lexora/lexora-server/access"
	"github.com/lexora/lexora-server/ai"
	"github.com/lexora/lexora-server/auth"
	"github.com/lexora/lexora-server/forms"
	"github.com/lexora/lexora-server/idp"
	"github.com/lexora/lexora-server/internal/config"
	"github.com/lexora/lexora-server/internal/logging"
	"github.com/lexora/lexora-server/internal/metrics"
	"github.com/lexora/lexora-server/server"
	"github.com/lexora/lexora-server/server/authflowrepo"
	"github.com/lexora/lexora-server/server/loginsession"
	"github.com/lexora/lexora-server/store"
	"github.com/lexora/lexora-server/token/jwt"
	"github.com/lexora/lexora-server/token/keys"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newRootCommand().Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var cfg config.Config

	root := &cobra.Command{
		Use:           "lexora",
		Short:         "Lexora law-firm platform backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load()
			if err != nil {
				return err
			}
			cfg = loaded
			logging.Setup(cfg.GetLogLevel(), cfg.GetLogPretty())
			return nil
		},
	}

	configFn := func() config.Config { return cfg }
	root.AddCommand(
		newServeCommand(configFn),
		newMigrateCommand(configFn),
		newSubscriptionsCommand(configFn),
		newUsersCommand(configFn),
		newAICommand(configFn),
	)
	return root
}

func newServeCommand(configFn func() config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), configFn())
		},
	}
}

func run(ctx context.Context, c config.Config) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("Recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()
	if ctx == nil {
		ctx = context.Background()
	}

	displayAppname(c.GetAppName())

	db, err := openStore(ctx, c)
	if err != nil {
		return err
	}
	defer db.Close()

	handler, closeFn, err := buildServer(ctx, c, db)
	if err != nil {
		return err
	}
	defer closeFn()

	httpServer := &http.Server{
		Addr:              c.GetPort(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- listenAndServe(httpServer)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-waitForStopSignal():
	}
	return shutdown(httpServer)
}

func openStore(ctx context.Context, c config.Config) (*store.Store, error) {
	db, err := store.Open(ctx, c.GetDBDriver(), c.GetDBDSN())
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// sessionRepos picks the flow and session stores for STORE_BACKEND.
func sessionRepos(c config.Config) (authflowrepo.Repo, loginsession.Repo, func(), error) {
	switch c.GetStoreBackend() {
	case config.StoreBackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     c.GetRedisAddr(),
			Password: c.GetRedisPassword(),
			DB:       c.GetRedisDB(),
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, nil, fmt.Errorf("[sessionRepos] redis ping %s: %w", c.GetRedisAddr(), err)
		}
		return authflowrepo.NewRedisRepo(client), loginsession.NewRedisLoginSessionRepo(client), func() { _ = client.Close() }, nil
	default:
		flows := authflowrepo.NewInMemoryRepo(c.GetStateTTL())
		sessions := loginsession.NewInMemoryLoginSessionRepo(c.GetMaxSessionAge())
		return flows, sessions, func() {
			flows.Close()
			sessions.Close()
		}, nil
	}
}

func buildServer(ctx context.Context, c config.Config, db *store.Store) (*server.Server, func(), error) {
	flows, sessions, closeRepos, err := sessionRepos(c)
	if err != nil {
		return nil, nil, err
	}

	provider, err := idp.NewGoogleProvider(ctx, c, idp.GoogleEndpoints())
	if err != nil {
		closeRepos()
		return nil, nil, err
	}
	signer, err := keys.NewHMACSigner(c.GetSessionSecret())
	if err != nil {
		closeRepos()
		return nil, nil, err
	}
	authService, err := auth.NewService(
		auth.Repos{Users: db.Users(), Flows: flows, Sessions: sessions},
		provider,
		jwt.NewCreator(signer),
		jwt.NewInspector(signer),
		c,
	)
	if err != nil {
		closeRepos()
		return nil, nil, err
	}

	policy, err := access.New(c.GetFeaturePolicy(), db.Plans())
	if err != nil {
		closeRepos()
		return nil, nil, err
	}

	files, err := forms.NewDiskStore(c.GetUploadDir())
	if err != nil {
		closeRepos()
		return nil, nil, err
	}

	completer, err := ai.NewCompleter(c)
	if err != nil {
		closeRepos()
		return nil, nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	srv, err := server.New(c, server.Deps{
		Auth:     authService,
		Forms:    forms.NewService(db.Forms(), files),
		Files:    files,
		AI:       ai.NewService(completer, m),
		Policy:   policy,
		Metrics:  m,
		Gatherer: registry,
		Database: db,
	})
	if err != nil {
		closeRepos()
		return nil, nil, err
	}

	log.Info().
		Str("store_backend", c.GetStoreBackend()).
		Str("db_driver", c.GetDBDriver()).
		Str("feature_policy", c.GetFeaturePolicy()).
		Str("ai_provider", completer.Name()).
		Msg("services initialised")

	return srv, func() {
		srv.Close()
		closeRepos()
	}, nil
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("Server listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.ListenAndServe %w", err)
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
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	log.Info().Msg("Server stopped")
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
