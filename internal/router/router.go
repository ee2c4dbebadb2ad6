package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/hagwonlab/hagwon-api/internal/auth"
	"github.com/hagwonlab/hagwon-api/internal/config"
	"github.com/hagwonlab/hagwon-api/internal/handler"
	"github.com/hagwonlab/hagwon-api/internal/middleware"
	"github.com/hagwonlab/hagwon-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler       *handler.AuthHandler
	StudentHandler    *handler.StudentHandler
	StaffHandler      *handler.StaffHandler
	ClassHandler      *handler.ClassHandler
	SessionHandler    *handler.SessionHandler
	MaterialHandler   *handler.MaterialHandler
	AssignmentHandler *handler.AssignmentHandler
	TagHandler        *handler.TagHandler
	SearchHandler     *handler.SearchHandler
	ActivityHandler   *handler.ActivityHandler
	SeedHandler       *handler.SeedHandler
	JWTMiddleware     fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	if deps.SeedHandler != nil {
		deps.SeedHandler.Register(api.Group("/seed"))
	}

	if deps.AuthHandler != nil {
		deps.AuthHandler.Register(api.Group("/auth", middleware.RateLimit("auth", 10, time.Minute)))
	}

	// Everything below requires a resolved principal.
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}
	protected := api.Group("", jwtMiddleware, middleware.RequireAuthenticated())

	manage := middleware.RequireRole(auth.RoleAdmin, auth.RoleSeniorTeacher)
	adminOnly := middleware.RequireRole(auth.RoleAdmin)
	teacherUp := middleware.RequireMinRole(auth.RoleTeacher)
	assistantUp := middleware.RequireMinRole(auth.RoleAssistant)

	if deps.AuthHandler != nil {
		deps.AuthHandler.RegisterProtected(protected.Group("/auth"))
	}

	if deps.StudentHandler != nil {
		deps.StudentHandler.Register(protected.Group("/students"), manage, adminOnly)
	}

	if deps.StaffHandler != nil {
		deps.StaffHandler.Register(protected.Group("/staff", teacherUp))
	}

	if deps.ClassHandler != nil {
		deps.ClassHandler.Register(protected.Group("/classes", teacherUp), manage)
	}

	if deps.SessionHandler != nil {
		deps.SessionHandler.Register(protected.Group("/sessions", assistantUp), teacherUp, assistantUp)
	}

	if deps.MaterialHandler != nil {
		deps.MaterialHandler.Register(protected.Group("/materials"), teacherUp)
	}

	if deps.AssignmentHandler != nil {
		deps.AssignmentHandler.Register(protected.Group("/assignments"), teacherUp)
	}

	if deps.TagHandler != nil {
		deps.TagHandler.Register(protected.Group("/tags", teacherUp), manage)
	}

	if deps.SearchHandler != nil {
		deps.SearchHandler.Register(protected.Group("/search", teacherUp))
	}

	if deps.ActivityHandler != nil {
		deps.ActivityHandler.Register(protected.Group("/activity", manage))
	}
}
