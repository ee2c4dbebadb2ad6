package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/hagwonlab/hagwon-api/internal/dto"
	"github.com/hagwonlab/hagwon-api/internal/service"
	"github.com/hagwonlab/hagwon-api/internal/utils"
)

// ClassHandler wires class endpoints.
type ClassHandler struct {
	service service.ClassService
	logger  zerolog.Logger
}

// NewClassHandler constructs the handler.
func NewClassHandler(service service.ClassService, logger zerolog.Logger) *ClassHandler {
	return &ClassHandler{
		service: service,
		logger:  logger.With().Str("component", "class_handler").Logger(),
	}
}

// Register attaches class routes to the router group.
func (h *ClassHandler) Register(router fiber.Router, staffOnly fiber.Handler) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Post("", staffOnly, h.create)
	router.Patch("/:id", staffOnly, h.update)
	router.Delete("/:id", staffOnly, h.remove)
	router.Post("/:id/students", staffOnly, h.enroll)
}

func (h *ClassHandler) list(c *fiber.Ctx) error {
	page, pageSize, err := parsePagination(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	req := dto.ClassListRequest{
		Page:       page,
		PageSize:   pageSize,
		Search:     c.Query("search"),
		ActiveOnly: strings.EqualFold(c.Query("active"), "true"),
	}

	response, err := h.service.List(c.Context(), req)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list classes")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list classes")
	}

	return utils.SendSuccess(c, "classes retrieved", response)
}

func (h *ClassHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	class, err := h.service.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrClassNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "class not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to fetch class")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch class")
	}

	return utils.SendSuccess(c, "class retrieved", class)
}

func (h *ClassHandler) create(c *fiber.Ctx) error {
	var payload dto.ClassCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	actor := activityActorFromContext(c)
	class, err := h.service.Create(c.Context(), payload, actor)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to create class")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to create class")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "class created", class)
}

func (h *ClassHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	var payload dto.ClassUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	actor := activityActorFromContext(c)
	class, err := h.service.Update(c.Context(), id, payload, actor)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClassNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "class not found")
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to update class")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to update class")
		}
	}

	return utils.SendSuccess(c, "class updated", class)
}

func (h *ClassHandler) remove(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	actor := activityActorFromContext(c)
	outcome, err := h.service.Remove(c.Context(), id, actor)
	if err != nil {
		if errors.Is(err, service.ErrClassNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "class not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to remove class")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to remove class")
	}

	return utils.SendSuccess(c, outcome.Message, outcome)
}

func (h *ClassHandler) enroll(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	var payload dto.ClassEnrollRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	actor := activityActorFromContext(c)
	class, err := h.service.Enroll(c.Context(), id, payload, actor)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClassNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "class not found")
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to update enrollments")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to update enrollments")
		}
	}

	return utils.SendSuccess(c, "enrollments updated", class)
}
