package main

import (
	"context"
	"flag"
	"time"

	"github.com/joho/godotenv"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/service"
)

func main() {
	ingredientsPath := flag.String("ingredients", "fixtures/ingredients.json", "Ingredient fixture file (JSON or YAML); empty to skip")
	tagsPath := flag.String("tags", "fixtures/tags.yaml", "Tag fixture file (JSON or YAML); empty to skip")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	db, err := database.Open(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.RunMigrations(db, cfg.MigrationsDir); err != nil {
		logging.Fatal().Err(err).Msg("failed to run migrations")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if *ingredientsPath != "" {
		ingredients, err := loadIngredients(*ingredientsPath)
		if err != nil {
			logging.Fatal().Err(err).Msg("failed to load ingredients")
		}
		inserted, err := service.NewIngredientService(db).Import(ctx, ingredients)
		if err != nil {
			logging.Fatal().Err(err).Msg("failed to import ingredients")
		}
		logging.Info().Int("read", len(ingredients)).Int64("inserted", inserted).Msg("ingredients imported")
	}

	if *tagsPath != "" {
		tags, err := loadTags(*tagsPath)
		if err != nil {
			logging.Fatal().Err(err).Msg("failed to load tags")
		}
		inserted, err := service.NewTagService(db).Import(ctx, tags)
		if err != nil {
			logging.Fatal().Err(err).Msg("failed to import tags")
		}
		logging.Info().Int("read", len(tags)).Int64("inserted", inserted).Msg("tags imported")
	}
}
