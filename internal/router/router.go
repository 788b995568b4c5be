package router

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/noah-isme/pydays-api/internal/config"
	"github.com/noah-isme/pydays-api/internal/handler"
	"github.com/noah-isme/pydays-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	Database           *gorm.DB
	LessonHandler      *handler.LessonHandler
	ChallengeHandler   *handler.ChallengeHandler
	ProgressHandler    *handler.ProgressHandler
	LeaderboardHandler *handler.LeaderboardHandler
	SeedHandler        *handler.SeedHandler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg, deps.Database))

	if deps.LessonHandler != nil {
		deps.LessonHandler.Register(api.Group("/lessons"))
	}
	if deps.ChallengeHandler != nil {
		deps.ChallengeHandler.Register(api.Group("/challenges"))
	}
	if deps.ProgressHandler != nil {
		deps.ProgressHandler.Register(api.Group("/progress"))
	}
	if deps.LeaderboardHandler != nil {
		deps.LeaderboardHandler.Register(api.Group("/leaderboard"))
	}
	if deps.SeedHandler != nil {
		deps.SeedHandler.Register(api.Group("/seed"))
	}
}
