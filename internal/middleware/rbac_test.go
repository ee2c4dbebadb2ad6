package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/hagwonlab/hagwon-api/internal/auth"
)

func newGuardedApp(principal *auth.Principal, guard fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if principal != nil {
			c.Locals(LocalsPrincipal, principal)
		}
		return c.Next()
	})
	app.Get("/guarded", guard, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestRequireMinRoleUnauthenticated(t *testing.T) {
	app := newGuardedApp(nil, RequireMinRole(auth.RoleTeacher))
	resp, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireMinRoleForbidden(t *testing.T) {
	principal := &auth.Principal{ID: 1, Role: auth.RoleParent}
	app := newGuardedApp(principal, RequireMinRole(auth.RoleTeacher))
	resp, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRequireMinRoleAdmitsHigherRank(t *testing.T) {
	principal := &auth.Principal{ID: 1, Role: auth.RoleAdmin}
	app := newGuardedApp(principal, RequireMinRole(auth.RoleTeacher))
	resp, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireRoleSetMembership(t *testing.T) {
	principal := &auth.Principal{ID: 1, Role: auth.RoleTeacher}
	app := newGuardedApp(principal, RequireRole(auth.RoleAdmin, auth.RoleSeniorTeacher))
	resp, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	app = newGuardedApp(principal, RequireRole(auth.RoleAdmin, auth.RoleSeniorTeacher, auth.RoleTeacher))
	resp, err = app.Test(httptest.NewRequest("GET", "/guarded", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}
