package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/hagwonlab/hagwon-api/internal/service"
	"github.com/hagwonlab/hagwon-api/internal/utils"
)

// StaffHandler wires staff directory endpoints.
type StaffHandler struct {
	service service.StaffService
	logger  zerolog.Logger
}

// NewStaffHandler constructs the handler.
func NewStaffHandler(service service.StaffService, logger zerolog.Logger) *StaffHandler {
	return &StaffHandler{
		service: service,
		logger:  logger.With().Str("component", "staff_handler").Logger(),
	}
}

// Register attaches staff routes to the router group.
func (h *StaffHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
}

func (h *StaffHandler) list(c *fiber.Ctx) error {
	staff, err := h.service.List(c.Context(), c.Query("role"), c.Query("search"))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list staff")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list staff")
	}

	return utils.SendSuccess(c, "staff retrieved", staff)
}

func (h *StaffHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	member, err := h.service.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrStaffNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "staff member not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to fetch staff member")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch staff member")
	}

	return utils.SendSuccess(c, "staff member retrieved", member)
}
