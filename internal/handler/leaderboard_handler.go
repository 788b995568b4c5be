package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/pydays-api/internal/dto"
	"github.com/noah-isme/pydays-api/internal/service"
	"github.com/noah-isme/pydays-api/internal/utils"
)

// LeaderboardHandler exposes the score ranking.
type LeaderboardHandler struct {
	service   service.LeaderboardService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewLeaderboardHandler constructs the handler.
func NewLeaderboardHandler(service service.LeaderboardService, validator *validator.Validate, logger zerolog.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{
		service:   service,
		validator: validator,
		logger:    logger.With().Str("component", "leaderboard_handler").Logger(),
	}
}

// Register wires leaderboard routes.
func (h *LeaderboardHandler) Register(router fiber.Router) {
	router.Get("", h.top)
}

func (h *LeaderboardHandler) top(c *fiber.Ctx) error {
	var query dto.LeaderboardRequest
	if err := c.QueryParser(&query); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid query parameters")
	}
	if err := h.validator.Struct(query); err != nil {
		return sendValidationError(c, err)
	}

	board, err := h.service.Top(withRequestContext(c), query.Limit)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("leaderboard lookup failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
	return utils.SendSuccess(c, "leaderboard retrieved", board)
}
