package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/hagwonlab/hagwon-api/internal/dto"
	"github.com/hagwonlab/hagwon-api/internal/service"
	"github.com/hagwonlab/hagwon-api/internal/utils"
)

// AuthHandler wires the login endpoint.
type AuthHandler struct {
	service service.AuthService
	logger  zerolog.Logger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(service service.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register attaches the public auth routes to the router group.
func (h *AuthHandler) Register(router fiber.Router) {
	router.Post("/login", h.login)
}

// RegisterProtected attaches routes that require a resolved principal.
func (h *AuthHandler) RegisterProtected(router fiber.Router) {
	router.Get("/me", h.me)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.Login(c.Context(), payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid credentials")
		case errors.Is(err, service.ErrIdentityUnavailable):
			requestLogger(h.logger, c).Error().Err(err).Msg("identity provider unavailable")
			return utils.SendErrorCode(c, fiber.StatusBadGateway, utils.CodeDependencyFailure, "identity provider unavailable")
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to log in")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to log in")
		}
	}

	return utils.SendSuccess(c, "login successful", response)
}

func (h *AuthHandler) me(c *fiber.Ctx) error {
	principal := principalFromContext(c)
	if principal.ID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	return utils.SendSuccess(c, "principal retrieved", fiber.Map{
		"id":    principal.ID,
		"email": principal.Email,
		"name":  principal.Name,
		"role":  principal.Role,
	})
}
