package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/noah-isme/pydays-api/internal/config"
	"github.com/noah-isme/pydays-api/internal/curriculum"
	"github.com/noah-isme/pydays-api/internal/database"
	"github.com/noah-isme/pydays-api/internal/repository"
	"github.com/noah-isme/pydays-api/internal/service"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

// run seeds the curriculum once and returns the process exit code.
func run(args []string, out io.Writer) int {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: out}).With().Timestamp().Str("service", "pydays-seed").Logger()

	flags := flag.NewFlagSet("seed", flag.ContinueOnError)
	flags.SetOutput(out)
	contentDir := flags.String("content", "", "lesson directory, overrides PYDAYS_CONTENT_DIR")
	legacyDir := flags.String("legacy", "", "legacy lesson directory, overrides PYDAYS_CONTENT_LEGACY_DIR")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error().Err(err).Msg("failed to load configuration")
		return 1
	}
	if *contentDir != "" {
		cfg.ContentDir = *contentDir
	}
	if *legacyDir != "" {
		cfg.LegacyDir = *legacyDir
	}

	db, err := database.Connect(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		logger.Error().Err(err).Msg("failed to connect to database")
		return 1
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Warn().Err(err).Msg("failed to close database")
		}
	}()

	if err := database.Migrate(db); err != nil {
		logger.Error().Err(err).Msg("failed to migrate database")
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loader := curriculum.NewLoader(os.DirFS(cfg.ContentDir), os.DirFS(cfg.LegacyDir), logger)
	seeder := service.NewSeedService(loader, repository.NewCurriculumRepository(db), cfg.SeedEnabled, cfg.SeedToken, logger)

	report, err := seeder.Run(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("seed failed")
		return 1
	}

	logger.Info().
		Int("lessons", report.Lessons).
		Int("challenges", report.Challenges).
		Int("badges", report.Badges).
		Msg("seed complete")
	return 0
}
