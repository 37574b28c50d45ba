// Package main is the entry point for the recipebook API server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/prn-tf/recipebook/internal/auth"
	"github.com/prn-tf/recipebook/internal/cache/memory"
	"github.com/prn-tf/recipebook/internal/cache/redis"
	"github.com/prn-tf/recipebook/internal/config"
	"github.com/prn-tf/recipebook/internal/handler"
	"github.com/prn-tf/recipebook/internal/lock"
	"github.com/prn-tf/recipebook/internal/logging"
	"github.com/prn-tf/recipebook/internal/pkg/password"
	"github.com/prn-tf/recipebook/internal/repository"
	"github.com/prn-tf/recipebook/internal/repository/sqlstore"
	"github.com/prn-tf/recipebook/internal/service"
)

// Version information (set at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to the configuration file")
	showVersion := flag.Bool("version", false, "print version information and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("recipebook server\nVersion: %s\nBuild Time: %s\nGit Commit: %s\n", Version, BuildTime, GitCommit)
		return
	}

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "recipebook-server: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, closer, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer closer.Close()

	logger.Info().
		Str("version", Version).
		Str("build_time", BuildTime).
		Str("git_commit", GitCommit).
		Msg("starting recipebook server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqlstore.Open(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	store := sqlstore.NewStore(db)
	defer store.Close()

	if cfg.Database.AutoMigrate {
		applied, err := db.Migrate(ctx)
		if err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		logger.Info().Int("applied", applied).Msg("database migrations applied")
	}

	cache, locker, closeCache, err := newCache(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeCache()

	hasher := password.NewHasherFromConfig(cfg.Auth)
	issuer := auth.NewTokenIssuer(cfg.Auth)
	verifier := auth.NewVerifier(issuer, cache, logger)

	authn := service.NewAuthenticationService(store, hasher, issuer, verifier, logger)
	services := handler.Services{
		Auth:          authn,
		Users:         service.NewUsersService(store, authn, hasher, logger),
		Categories:    service.NewCategoryService(store, authn, logger),
		Difficulties:  service.NewDifficultyService(store, authn, logger),
		CategoryTypes: service.NewCategoryTypeService(store, authn, logger),
		Ingredients:   service.NewIngredientService(store, authn, logger),
		Recipes:       service.NewRecipeService(store, authn, logger),
		Comments:      service.NewCommentService(store, authn, logger),
		Ratings:       service.NewRatingService(store, authn, cache, locker, cfg.Cache.RatingStatsTTL, logger),
		Favorites:     service.NewFavoritesService(store, authn, logger),
		Settings:      service.NewUserSettingsService(store, authn, logger),
	}

	var metrics *handler.Metrics
	if cfg.Metrics.Enabled {
		metrics = handler.NewMetrics()
	}

	var limiter *handler.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = handler.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.BurstSize)
		defer limiter.Stop()
	}

	router := handler.NewRouter(handler.RouterConfig{
		Services:       services,
		Verifier:       verifier,
		Health:         store,
		Metrics:        metrics,
		MetricsPath:    cfg.Metrics.Path,
		RateLimiter:    limiter,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		MaxBodySize:    cfg.Server.MaxBodySize,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info().Msg("server stopped")
	return nil
}

// newCache connects to Redis when enabled and falls back to the in-process
// cache and locker otherwise.
func newCache(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (repository.Cache, lock.Locker, func(), error) {
	if !cfg.Redis.Enabled {
		c := memory.NewCache(time.Minute)
		l := lock.NewMemoryLocker(30 * time.Second)
		return c, l, func() { c.Stop(); l.Stop() }, nil
	}

	client, err := redis.NewClient(ctx, cfg.Redis, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	return redis.NewCache(client, logger), lock.NewRedisLocker(client), func() { _ = client.Close() }, nil
}
