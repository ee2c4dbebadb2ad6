package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/hagwonlab/hagwon-api/internal/dto"
	"github.com/hagwonlab/hagwon-api/internal/service"
	"github.com/hagwonlab/hagwon-api/internal/utils"
)

// ActivityHandler wires the audit trail endpoint.
type ActivityHandler struct {
	service service.ActivityService
	logger  zerolog.Logger
}

// NewActivityHandler constructs the handler.
func NewActivityHandler(service service.ActivityService, logger zerolog.Logger) *ActivityHandler {
	return &ActivityHandler{
		service: service,
		logger:  logger.With().Str("component", "activity_handler").Logger(),
	}
}

// Register attaches activity routes to the router group.
func (h *ActivityHandler) Register(router fiber.Router) {
	router.Get("", h.list)
}

func (h *ActivityHandler) list(c *fiber.Ctx) error {
	page, pageSize, err := parsePagination(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	actorID, err := parseQueryUint(c, "actor_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid actor identifier")
	}

	req := dto.ActivityListRequest{
		Page:       page,
		PageSize:   pageSize,
		ActorID:    actorID,
		Action:     c.Query("action"),
		EntityType: c.Query("entity_type"),
	}

	response, err := h.service.List(c.Context(), req)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list activity")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list activity")
	}

	return utils.SendSuccess(c, "activity retrieved", response)
}
