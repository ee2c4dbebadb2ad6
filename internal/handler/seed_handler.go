package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/hagwonlab/hagwon-api/internal/service"
	"github.com/hagwonlab/hagwon-api/internal/utils"
)

// SeedHandler exposes the bootstrap endpoint for fresh deployments.
type SeedHandler struct {
	service service.SeedService
	logger  zerolog.Logger
}

// NewSeedHandler constructs a seed handler.
func NewSeedHandler(service service.SeedService, logger zerolog.Logger) *SeedHandler {
	return &SeedHandler{
		service: service,
		logger:  logger.With().Str("component", "seed_handler").Logger(),
	}
}

// Register wires seed routes.
func (h *SeedHandler) Register(router fiber.Router) {
	router.Post("/bootstrap", h.bootstrap)
}

type seedBootstrapRequest struct {
	AdminEmail    string `json:"admin_email"`
	AdminPassword string `json:"admin_password"`
	AdminName     string `json:"admin_name"`
}

func (h *SeedHandler) bootstrap(c *fiber.Ctx) error {
	token := c.Get("X-Seed-Token")
	var payload seedBootstrapRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	result, err := h.service.Bootstrap(c.Context(), token, payload.AdminEmail, payload.AdminPassword, payload.AdminName)
	if err != nil {
		switch err {
		case service.ErrSeedDisabled:
			return utils.SendError(c, fiber.StatusForbidden, "seeding disabled")
		case service.ErrSeedUnauthorized:
			return utils.SendError(c, fiber.StatusForbidden, "invalid token")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("bootstrap failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "bootstrap failed")
		}
	}

	return utils.SendSuccess(c, "bootstrap completed", result)
}
