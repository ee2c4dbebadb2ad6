package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hagwonlab/hagwon-api/internal/auth"
	"github.com/hagwonlab/hagwon-api/internal/utils"
)

// RequireAuthenticated rejects requests without a resolved principal.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := auth.RequireAuthenticated(PrincipalFromContext(c)); err != nil {
			return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
		}
		return c.Next()
	}
}

// RequireMinRole admits principals at least as privileged as the required
// role level.
func RequireMinRole(required auth.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return admit(c, func(p *auth.Principal) error {
			_, err := auth.RequireMinRole(p, required)
			return err
		})
	}
}

// RequireRole admits principals whose role is in the allowed set.
func RequireRole(allowed ...auth.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return admit(c, func(p *auth.Principal) error {
			_, err := auth.RequireAnyRole(p, allowed...)
			return err
		})
	}
}

func admit(c *fiber.Ctx, check func(*auth.Principal) error) error {
	switch err := check(PrincipalFromContext(c)); err {
	case nil:
		return c.Next()
	case auth.ErrUnauthenticated:
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	default:
		return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
	}
}
