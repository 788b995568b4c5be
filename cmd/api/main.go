package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/pydays-api/internal/config"
	"github.com/noah-isme/pydays-api/internal/curriculum"
	"github.com/noah-isme/pydays-api/internal/database"
	"github.com/noah-isme/pydays-api/internal/handler"
	"github.com/noah-isme/pydays-api/internal/middleware"
	"github.com/noah-isme/pydays-api/internal/repository"
	"github.com/noah-isme/pydays-api/internal/router"
	"github.com/noah-isme/pydays-api/internal/service"
	"github.com/noah-isme/pydays-api/pkg/ai"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "pydays-api").Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := database.Connect(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Warn().Err(err).Msg("failed to close database")
		}
	}()

	if err := database.Migrate(db); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()
	} else {
		logger.Warn().Msg("redis url not set, leaderboard cache disabled")
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL, cfg.AppName)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to nats")
		}
		defer natsConn.Drain()
	}

	grader := newGrader(cfg, logger)
	validate := validator.New(validator.WithRequiredStructEnabled())

	lessonRepo := repository.NewLessonRepository(db)
	challengeRepo := repository.NewChallengeRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	badgeRepo := repository.NewBadgeRepository(db)
	curriculumRepo := repository.NewCurriculumRepository(db)

	loader := curriculum.NewLoader(os.DirFS(cfg.ContentDir), os.DirFS(cfg.LegacyDir), logger)
	seedService := service.NewSeedService(loader, curriculumRepo, cfg.SeedEnabled, cfg.SeedToken, logger)
	leaderboardService := service.NewLeaderboardService(progressRepo, redisClient, cfg.CacheTTL, logger)
	progressService := service.NewProgressService(progressRepo, lessonRepo, challengeRepo, submissionRepo, badgeRepo, leaderboardService, logger)
	lessonService := service.NewLessonService(lessonRepo, challengeRepo, logger)
	publisher := service.NewEventPublisher(natsConn, cfg.EventSubject, logger)
	challengeService := service.NewChallengeService(challengeRepo, submissionRepo, progressRepo, progressService, grader, publisher, logger)

	if cfg.SeedOnStart {
		if _, err := seedService.Run(context.Background()); err != nil {
			logger.Fatal().Err(err).Msg("failed to seed curriculum on start")
		}
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger, AllowedOrigins: cfg.AllowedOrigins})
	router.Register(app, cfg, router.Dependencies{
		Database:           db,
		LessonHandler:      handler.NewLessonHandler(lessonService, validate, logger),
		ChallengeHandler:   handler.NewChallengeHandler(challengeService, validate, logger, middleware.RateLimit("submit", cfg.SubmitRateLimit, cfg.SubmitWindow)),
		ProgressHandler:    handler.NewProgressHandler(progressService, validate, logger),
		LeaderboardHandler: handler.NewLeaderboardHandler(leaderboardService, validate, logger),
		SeedHandler:        handler.NewSeedHandler(seedService, logger),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	waitForShutdown(app, cfg, logger)
}

func newGrader(cfg config.Config, logger zerolog.Logger) ai.Grader {
	if cfg.OpenAIAPIKey == "" {
		logger.Warn().Msg("openai api key not set, grading with the rule based fallback")
		return ai.FallbackGrader{}
	}

	grader, err := ai.NewOpenAIGrader(ai.OpenAIConfig{
		APIKey:    cfg.OpenAIAPIKey,
		BaseURL:   cfg.AIBaseURL,
		Model:     cfg.AIModel,
		MaxTokens: cfg.AIMaxTokens,
		Timeout:   cfg.AITimeout,
		Logger:    logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create grader")
	}
	return grader
}

func waitForShutdown(app *fiber.App, cfg config.Config, logger zerolog.Logger) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	logger.Info().Msg("server stopped")
}
