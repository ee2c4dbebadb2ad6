package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/hagwonlab/hagwon-api/internal/dto"
	"github.com/hagwonlab/hagwon-api/internal/service"
	"github.com/hagwonlab/hagwon-api/internal/utils"
)

// SessionHandler wires session and attendance endpoints.
type SessionHandler struct {
	service service.SessionService
	logger  zerolog.Logger
}

// NewSessionHandler constructs the handler.
func NewSessionHandler(service service.SessionService, logger zerolog.Logger) *SessionHandler {
	return &SessionHandler{
		service: service,
		logger:  logger.With().Str("component", "session_handler").Logger(),
	}
}

// Register attaches session routes to the router group. Attendance
// recording admits assistants; structural changes need teacher rank.
func (h *SessionHandler) Register(router fiber.Router, mutate, attendance fiber.Handler) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Post("", mutate, h.create)
	router.Patch("/:id", mutate, h.update)
	router.Delete("/:id", mutate, h.remove)
	router.Post("/:id/attendance", attendance, h.recordAttendance)
	router.Get("/:id/attendance", h.listAttendance)
}

func (h *SessionHandler) list(c *fiber.Ctx) error {
	page, pageSize, err := parsePagination(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	classID, err := parseQueryUint(c, "class_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid class identifier")
	}

	req := dto.SessionListRequest{
		Page:     page,
		PageSize: pageSize,
		ClassID:  classID,
		Status:   c.Query("status"),
	}

	response, err := h.service.List(c.Context(), req)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list sessions")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list sessions")
	}

	return utils.SendSuccess(c, "sessions retrieved", response)
}

func (h *SessionHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	session, err := h.service.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "session not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to fetch session")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch session")
	}

	return utils.SendSuccess(c, "session retrieved", session)
}

func (h *SessionHandler) create(c *fiber.Ctx) error {
	var payload dto.SessionCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	actor := activityActorFromContext(c)
	session, err := h.service.Create(c.Context(), payload, actor)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to create session")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to create session")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "session created", session)
}

func (h *SessionHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	var payload dto.SessionUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	actor := activityActorFromContext(c)
	session, err := h.service.Update(c.Context(), id, payload, actor)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "session not found")
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to update session")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to update session")
		}
	}

	return utils.SendSuccess(c, "session updated", session)
}

func (h *SessionHandler) remove(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	actor := activityActorFromContext(c)
	outcome, err := h.service.Remove(c.Context(), id, actor)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "session not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to remove session")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to remove session")
	}

	return utils.SendSuccess(c, outcome.Message, outcome)
}

func (h *SessionHandler) recordAttendance(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	var payload dto.AttendanceRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	actor := activityActorFromContext(c)
	records, err := h.service.RecordAttendance(c.Context(), id, payload, actor)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "session not found")
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to record attendance")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to record attendance")
		}
	}

	return utils.SendSuccess(c, "attendance recorded", records)
}

func (h *SessionHandler) listAttendance(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	records, err := h.service.ListAttendance(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "session not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list attendance")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list attendance")
	}

	return utils.SendSuccess(c, "attendance retrieved", records)
}
