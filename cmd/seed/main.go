// Command seed populates the database with demo catalog data.
package main

import (
	"flag"
	"os"

	"bestmods/internal/config"
	"bestmods/internal/database"
	"bestmods/internal/seed"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func main() {
	numMods := flag.Int("mods", 50, "number of mods to create")
	clean := flag.Bool("clean", false, "delete existing catalog data first")
	flag.Parse()

	_ = godotenv.Load()
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := database.Connect(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}

	if err := seed.Run(db, seed.Options{NumMods: *numMods, ShouldClean: *clean}); err != nil {
		logger.Fatal().Err(err).Msg("seeding failed")
	}
	logger.Info().Int("mods", *numMods).Msg("seeding complete")
}
