package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/hagwonlab/hagwon-api/internal/dto"
	"github.com/hagwonlab/hagwon-api/internal/service"
	"github.com/hagwonlab/hagwon-api/internal/utils"
)

// MaterialHandler wires learning material endpoints.
type MaterialHandler struct {
	service service.MaterialService
	logger  zerolog.Logger
}

// NewMaterialHandler constructs the handler.
func NewMaterialHandler(service service.MaterialService, logger zerolog.Logger) *MaterialHandler {
	return &MaterialHandler{
		service: service,
		logger:  logger.With().Str("component", "material_handler").Logger(),
	}
}

// Register attaches material routes to the router group.
func (h *MaterialHandler) Register(router fiber.Router, staffOnly fiber.Handler) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Post("", staffOnly, h.create)
	router.Patch("/:id", staffOnly, h.update)
	router.Delete("/:id", staffOnly, h.delete)
}

func (h *MaterialHandler) list(c *fiber.Ctx) error {
	page, pageSize, err := parsePagination(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	ownerID, err := parseQueryUint(c, "owner_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid owner identifier")
	}

	req := dto.MaterialListRequest{
		Page:     page,
		PageSize: pageSize,
		Search:   c.Query("search"),
		OwnerID:  ownerID,
	}

	response, err := h.service.List(c.Context(), req)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list materials")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list materials")
	}

	return utils.SendSuccess(c, "materials retrieved", response)
}

func (h *MaterialHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	material, err := h.service.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrMaterialNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "material not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to fetch material")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch material")
	}

	return utils.SendSuccess(c, "material retrieved", material)
}

func (h *MaterialHandler) create(c *fiber.Ctx) error {
	var payload dto.MaterialCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	actor := activityActorFromContext(c)
	material, err := h.service.Create(c.Context(), actor.ID, payload, actor)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to create material")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to create material")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "material created", material)
}

func (h *MaterialHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	var payload dto.MaterialUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	actor := activityActorFromContext(c)
	material, err := h.service.Update(c.Context(), id, payload, actor)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMaterialNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "material not found")
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to update material")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to update material")
		}
	}

	return utils.SendSuccess(c, "material updated", material)
}

func (h *MaterialHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	actor := activityActorFromContext(c)
	if err := h.service.Delete(c.Context(), id, actor); err != nil {
		if errors.Is(err, service.ErrMaterialNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "material not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to delete material")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete material")
	}

	return utils.SendSuccess(c, "material deleted", fiber.Map{"id": id})
}
