package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/pydays-api/internal/dto"
	"github.com/noah-isme/pydays-api/internal/middleware"
	"github.com/noah-isme/pydays-api/internal/service"
	"github.com/noah-isme/pydays-api/internal/utils"
)

// ProgressHandler exposes a user's learning progress.
type ProgressHandler struct {
	service   service.ProgressService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewProgressHandler constructs the handler.
func NewProgressHandler(service service.ProgressService, validator *validator.Validate, logger zerolog.Logger) *ProgressHandler {
	return &ProgressHandler{
		service:   service,
		validator: validator,
		logger:    logger.With().Str("component", "progress_handler").Logger(),
	}
}

// Register wires progress routes. Every route requires a user.
func (h *ProgressHandler) Register(router fiber.Router) {
	router.Use(middleware.RequireUser())
	router.Get("", h.overview)
	router.Get("/submissions", h.submissions)
	router.Post("/lessons/:id/learned", h.markLearned)
}

func (h *ProgressHandler) overview(c *fiber.Ctx) error {
	overview, err := h.service.Overview(withRequestContext(c), userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "progress retrieved", overview)
}

func (h *ProgressHandler) submissions(c *fiber.Ctx) error {
	var query dto.SubmissionListRequest
	if err := c.QueryParser(&query); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid query parameters")
	}
	if err := h.validator.Struct(query); err != nil {
		return h.handleError(c, err)
	}

	items, err := h.service.Submissions(withRequestContext(c), userIDFromContext(c), query)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "submissions retrieved", items)
}

func (h *ProgressHandler) markLearned(c *fiber.Ctx) error {
	lessonID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	progress, err := h.service.MarkLearned(withRequestContext(c), userIDFromContext(c), lessonID)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "lesson marked as learned", progress)
}

func (h *ProgressHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrLessonNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "lesson not found")
	case isValidationError(err):
		return sendValidationError(c, err)
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("progress operation failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
