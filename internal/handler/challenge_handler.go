package handler

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/pydays-api/internal/dto"
	"github.com/noah-isme/pydays-api/internal/middleware"
	"github.com/noah-isme/pydays-api/internal/service"
	"github.com/noah-isme/pydays-api/internal/utils"
)

// ChallengeHandler exposes challenge retrieval and grading.
type ChallengeHandler struct {
	service      service.ChallengeService
	validator    *validator.Validate
	logger       zerolog.Logger
	submitGuards []fiber.Handler
}

// NewChallengeHandler constructs the handler. Guards run before the submit
// endpoint, typically a rate limiter.
func NewChallengeHandler(service service.ChallengeService, validator *validator.Validate, logger zerolog.Logger, submitGuards ...fiber.Handler) *ChallengeHandler {
	return &ChallengeHandler{
		service:      service,
		validator:    validator,
		logger:       logger.With().Str("component", "challenge_handler").Logger(),
		submitGuards: submitGuards,
	}
}

// Register wires challenge routes.
func (h *ChallengeHandler) Register(router fiber.Router) {
	router.Get("/:id", h.get)
	router.Get("/:id/solution", middleware.RequireUser(), h.solution)

	submit := append([]fiber.Handler{middleware.RequireUser()}, h.submitGuards...)
	submit = append(submit, h.submit)
	router.Post("/:id/submit", submit...)
}

func challengeIDParam(c *fiber.Ctx) (string, error) {
	id := strings.TrimSpace(c.Params("id"))
	if id == "" || len(id) > 100 {
		return "", errors.New("invalid challenge id")
	}
	return id, nil
}

func (h *ChallengeHandler) get(c *fiber.Ctx) error {
	id, err := challengeIDParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	challenge, err := h.service.Get(withRequestContext(c), id)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "challenge retrieved", challenge)
}

func (h *ChallengeHandler) solution(c *fiber.Ctx) error {
	id, err := challengeIDParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	solution, err := h.service.Solution(withRequestContext(c), userIDFromContext(c), id)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "solution retrieved", solution)
}

func (h *ChallengeHandler) submit(c *fiber.Ctx) error {
	id, err := challengeIDParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.SubmitChallengeRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validator.Struct(payload); err != nil {
		return h.handleError(c, err)
	}

	result, err := h.service.Submit(withRequestContext(c), userIDFromContext(c), id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	message := "submission graded"
	if result.SyntaxError != "" {
		message = "submission has a syntax error"
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, message, result)
}

func (h *ChallengeHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrChallengeNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "challenge not found")
	case errors.Is(err, service.ErrSolutionLocked):
		return utils.SendError(c, fiber.StatusForbidden, "solve the challenge to unlock its solution")
	case isValidationError(err):
		return sendValidationError(c, err)
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("challenge operation failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
