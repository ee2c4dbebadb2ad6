package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/hagwonlab/hagwon-api/internal/dto"
	"github.com/hagwonlab/hagwon-api/internal/service"
	"github.com/hagwonlab/hagwon-api/internal/utils"
)

// AssignmentHandler wires assignment and submission endpoints.
type AssignmentHandler struct {
	service service.AssignmentService
	logger  zerolog.Logger
}

// NewAssignmentHandler constructs the handler.
func NewAssignmentHandler(service service.AssignmentService, logger zerolog.Logger) *AssignmentHandler {
	return &AssignmentHandler{
		service: service,
		logger:  logger.With().Str("component", "assignment_handler").Logger(),
	}
}

// Register attaches assignment routes to the router group.
func (h *AssignmentHandler) Register(router fiber.Router, staffOnly fiber.Handler) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Post("", staffOnly, h.create)
	router.Patch("/:id", staffOnly, h.update)
	router.Delete("/:id", staffOnly, h.delete)
	router.Post("/:id/submissions", h.submit)
	router.Get("/:id/submissions", staffOnly, h.listSubmissions)
	router.Post("/submissions/:id/grade", staffOnly, h.grade)
}

func (h *AssignmentHandler) list(c *fiber.Ctx) error {
	page, pageSize, err := parsePagination(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	sessionID, err := parseQueryUint(c, "session_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid session identifier")
	}

	items, pagination, err := h.service.List(c.Context(), sessionID, page, pageSize)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list assignments")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list assignments")
	}

	return utils.SendSuccess(c, "assignments retrieved", fiber.Map{
		"items":      items,
		"pagination": pagination,
	})
}

func (h *AssignmentHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	assignment, err := h.service.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrAssignmentNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "assignment not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to fetch assignment")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch assignment")
	}

	return utils.SendSuccess(c, "assignment retrieved", assignment)
}

func (h *AssignmentHandler) create(c *fiber.Ctx) error {
	var payload dto.AssignmentCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	actor := activityActorFromContext(c)
	assignment, err := h.service.Create(c.Context(), payload, actor)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to create assignment")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to create assignment")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "assignment created", assignment)
}

func (h *AssignmentHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	var payload dto.AssignmentUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	actor := activityActorFromContext(c)
	assignment, err := h.service.Update(c.Context(), id, payload, actor)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAssignmentNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "assignment not found")
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to update assignment")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to update assignment")
		}
	}

	return utils.SendSuccess(c, "assignment updated", assignment)
}

func (h *AssignmentHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	actor := activityActorFromContext(c)
	if err := h.service.Delete(c.Context(), id, actor); err != nil {
		if errors.Is(err, service.ErrAssignmentNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "assignment not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to delete assignment")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete assignment")
	}

	return utils.SendSuccess(c, "assignment deleted", fiber.Map{"id": id})
}

func (h *AssignmentHandler) submit(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	var payload dto.SubmissionCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	submission, err := h.service.Submit(c.Context(), id, payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAssignmentNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "assignment not found")
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to submit assignment")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to submit assignment")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "submission recorded", submission)
}

func (h *AssignmentHandler) listSubmissions(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	submissions, err := h.service.ListSubmissions(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrAssignmentNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "assignment not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list submissions")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list submissions")
	}

	return utils.SendSuccess(c, "submissions retrieved", submissions)
}

func (h *AssignmentHandler) grade(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	var payload dto.SubmissionGradeRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	actor := activityActorFromContext(c)
	submission, err := h.service.Grade(c.Context(), id, payload, actor)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSubmissionNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "submission not found")
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to grade submission")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to grade submission")
		}
	}

	return utils.SendSuccess(c, "submission graded", submission)
}
