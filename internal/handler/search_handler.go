package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/hagwonlab/hagwon-api/internal/dto"
	"github.com/hagwonlab/hagwon-api/internal/service"
	"github.com/hagwonlab/hagwon-api/internal/utils"
)

// SearchHandler wires the tag search endpoint.
type SearchHandler struct {
	service service.SearchService
	logger  zerolog.Logger
}

// NewSearchHandler constructs the handler.
func NewSearchHandler(service service.SearchService, logger zerolog.Logger) *SearchHandler {
	return &SearchHandler{
		service: service,
		logger:  logger.With().Str("component", "search_handler").Logger(),
	}
}

// Register attaches search routes to the router group.
func (h *SearchHandler) Register(router fiber.Router) {
	router.Post("/by-tags", h.byTags)
}

func (h *SearchHandler) byTags(c *fiber.Ctx) error {
	var payload dto.SearchByTagsRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.ByTags(c.Context(), payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to search by tags")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to search by tags")
	}

	return utils.SendSuccess(c, "search completed", response)
}
