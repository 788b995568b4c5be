package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/pydays-api/internal/dto"
	"github.com/noah-isme/pydays-api/internal/service"
	"github.com/noah-isme/pydays-api/internal/utils"
)

// LessonHandler exposes the curriculum content.
type LessonHandler struct {
	service   service.LessonService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewLessonHandler constructs the handler.
func NewLessonHandler(service service.LessonService, validator *validator.Validate, logger zerolog.Logger) *LessonHandler {
	return &LessonHandler{
		service:   service,
		validator: validator,
		logger:    logger.With().Str("component", "lesson_handler").Logger(),
	}
}

// Register wires lesson routes.
func (h *LessonHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Get("/:id/challenges", h.challenges)
}

func (h *LessonHandler) list(c *fiber.Ctx) error {
	lessons, err := h.service.List(withRequestContext(c))
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "lessons retrieved", lessons)
}

func (h *LessonHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	lesson, err := h.service.Get(withRequestContext(c), id)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "lesson retrieved", lesson)
}

func (h *LessonHandler) challenges(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var query dto.ChallengeListRequest
	if err := c.QueryParser(&query); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid query parameters")
	}
	if err := h.validator.Struct(query); err != nil {
		return h.handleError(c, err)
	}

	challenges, err := h.service.ListChallenges(withRequestContext(c), id, query.Level)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "challenges retrieved", challenges)
}

func (h *LessonHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrLessonNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "lesson not found")
	case errors.Is(err, service.ErrInvalidLevel):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case isValidationError(err):
		return sendValidationError(c, err)
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("lesson operation failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
