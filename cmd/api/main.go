package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/api"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/server"
	"github.com/pageza/foodgram/backend/internal/service"
)

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Open(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.RunMigrations(db, cfg.MigrationsDir); err != nil {
		logging.Fatal().Err(err).Msg("failed to run migrations")
	}

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	if redisClient == nil {
		logging.Warn().Msg("Redis not configured; token revocation and rate limiting are disabled")
	}

	store, err := newImageStore(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to initialize image storage")
	}

	opts := api.Options{
		Paginator:     api.Paginator{DefaultSize: cfg.DefaultPageSize, MaxSize: cfg.MaxPageSize},
		PublicBaseURL: cfg.PublicBaseURL,
		RecipeLimiter: middleware.NewRecipeCreationRateLimiter(redisClient, cfg.RecipeCreationLimit),
		HealthCheck: func(ctx context.Context) error {
			return database.HealthCheck(ctx, db)
		},
	}
	if cfg.ImageBackend == "local" {
		opts.MediaDir = cfg.MediaDir
		opts.MediaURL = cfg.MediaURL
	}

	srv := server.New(cfg, api.NewServices(db, cfg, redisClient, store), opts)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			logging.Fatal().Err(err).Msg("server error")
		}
	case sig := <-quit:
		logging.Info().Str("signal", sig.String()).Msg("received signal")
	}

	logging.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logging.Error().Err(err).Msg("server shutdown error")
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logging.Info().Msg("server stopped")
}

func newImageStore(cfg *config.Config) (service.ImageStore, error) {
	if cfg.ImageBackend == "s3" {
		s3cfg, err := config.NewS3Config(context.Background(), cfg)
		if err != nil {
			return nil, err
		}
		return service.NewS3ImageStore(s3cfg), nil
	}
	if err := os.MkdirAll(cfg.MediaDir, 0o755); err != nil {
		return nil, err
	}
	return service.NewLocalImageStore(cfg.MediaDir, cfg.MediaURL), nil
}
