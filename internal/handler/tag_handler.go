package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/hagwonlab/hagwon-api/internal/dto"
	"github.com/hagwonlab/hagwon-api/internal/service"
	"github.com/hagwonlab/hagwon-api/internal/utils"
)

// TagHandler wires tag endpoints.
type TagHandler struct {
	service service.TagService
	logger  zerolog.Logger
}

// NewTagHandler constructs the handler.
func NewTagHandler(service service.TagService, logger zerolog.Logger) *TagHandler {
	return &TagHandler{
		service: service,
		logger:  logger.With().Str("component", "tag_handler").Logger(),
	}
}

// Register attaches tag routes to the router group.
func (h *TagHandler) Register(router fiber.Router, staffOnly fiber.Handler) {
	router.Get("", h.list)
	router.Get("/stats", h.stats)
	router.Get("/:id", h.get)
	router.Post("", staffOnly, h.create)
	router.Patch("/:id", staffOnly, h.update)
	router.Delete("/:id", staffOnly, h.delete)
}

func (h *TagHandler) list(c *fiber.Ctx) error {
	tags, err := h.service.List(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list tags")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list tags")
	}

	return utils.SendSuccess(c, "tags retrieved", tags)
}

func (h *TagHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	tag, err := h.service.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrTagNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "tag not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to fetch tag")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch tag")
	}

	return utils.SendSuccess(c, "tag retrieved", tag)
}

func (h *TagHandler) create(c *fiber.Ctx) error {
	var payload dto.TagCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	actor := activityActorFromContext(c)
	tag, err := h.service.Create(c.Context(), payload, actor)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTagNameTaken):
			return utils.SendErrorCode(c, fiber.StatusConflict, utils.CodeConflict, "tag name already in use")
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to create tag")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to create tag")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "tag created", tag)
}

func (h *TagHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	var payload dto.TagUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	actor := activityActorFromContext(c)
	tag, err := h.service.Update(c.Context(), id, payload, actor)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTagNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "tag not found")
		case errors.Is(err, service.ErrTagNameTaken):
			return utils.SendErrorCode(c, fiber.StatusConflict, utils.CodeConflict, "tag name already in use")
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to update tag")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to update tag")
		}
	}

	return utils.SendSuccess(c, "tag updated", tag)
}

func (h *TagHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	actor := activityActorFromContext(c)
	if err := h.service.Delete(c.Context(), id, actor); err != nil {
		var inUse *service.TagInUseError
		switch {
		case errors.Is(err, service.ErrTagNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "tag not found")
		case errors.As(err, &inUse):
			return c.Status(fiber.StatusConflict).JSON(utils.APIResponse{
				Success: false,
				Message: "tag is still referenced and cannot be deleted",
				Code:    utils.CodeConflict,
				Data:    inUse.Breakdown,
			})
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to delete tag")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete tag")
		}
	}

	return utils.SendSuccess(c, "tag deleted", fiber.Map{"id": id})
}

func (h *TagHandler) stats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to compute tag statistics")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to compute tag statistics")
	}

	return utils.SendSuccess(c, "tag statistics retrieved", stats)
}
