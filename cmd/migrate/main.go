package main

import (
	"github.com/deskbook/deskbook/internal/config"
	"github.com/deskbook/deskbook/internal/repository/postgres"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	log.Info().
		Str("host", cfg.Database.Host).
		Int("port", cfg.Database.Port).
		Msg("Running migrations")

	if err := postgres.RunMigrations(cfg.Database.DSN(), cfg.Database.Migrations); err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}
}
