package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/hagwonlab/hagwon-api/internal/config"
	"github.com/hagwonlab/hagwon-api/internal/database"
	"github.com/hagwonlab/hagwon-api/internal/handler"
	"github.com/hagwonlab/hagwon-api/internal/middleware"
	"github.com/hagwonlab/hagwon-api/internal/models"
	"github.com/hagwonlab/hagwon-api/internal/repository"
	"github.com/hagwonlab/hagwon-api/internal/router"
	"github.com/hagwonlab/hagwon-api/internal/service"
	"github.com/hagwonlab/hagwon-api/pkg/identity"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{}, &models.Staff{}, &models.Student{}, &models.StatusLog{},
		&models.Class{}, &models.Session{}, &models.Attendance{},
		&models.Material{}, &models.Assignment{}, &models.Submission{},
		&models.Tag{}, &models.ActivityLog{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	directory, err := buildDirectory(cfg, logger)
	if err != nil {
		log.Fatalf("failed to create identity client: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	staffRepo := repository.NewStaffRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	classRepo := repository.NewClassRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	materialRepo := repository.NewMaterialRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	tagRepo := repository.NewTagRepository(db)
	searchRepo := repository.NewSearchRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)

	activityService := service.NewActivityService(activityRepo, logger)
	authService := service.NewAuthService(userRepo, directory, validate, cfg.JWTSecret, cfg.TokenTTL, logger)
	studentService := service.NewStudentService(studentRepo, directory, validate, activityService, logger)
	staffService := service.NewStaffService(staffRepo, logger)
	classService := service.NewClassService(classRepo, validate, activityService, logger)
	sessionService := service.NewSessionService(sessionRepo, validate, activityService, logger)
	materialService := service.NewMaterialService(materialRepo, validate, activityService, logger)
	assignmentService := service.NewAssignmentService(assignmentRepo, submissionRepo, validate, activityService, logger)
	tagService := service.NewTagService(tagRepo, redisClient, cfg.TagStatsCacheTTL, validate, activityService, logger)
	searchService := service.NewSearchService(searchRepo, classRepo, validate, logger)
	seedService := service.NewSeedService(userRepo, staffRepo, tagRepo, directory, cfg.SeedEnabled, cfg.SeedToken, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:       handler.NewAuthHandler(authService, logger),
		StudentHandler:    handler.NewStudentHandler(studentService, logger),
		StaffHandler:      handler.NewStaffHandler(staffService, logger),
		ClassHandler:      handler.NewClassHandler(classService, logger),
		SessionHandler:    handler.NewSessionHandler(sessionService, logger),
		MaterialHandler:   handler.NewMaterialHandler(materialService, logger),
		AssignmentHandler: handler.NewAssignmentHandler(assignmentService, logger),
		TagHandler:        handler.NewTagHandler(tagService, logger),
		SearchHandler:     handler.NewSearchHandler(searchService, logger),
		ActivityHandler:   handler.NewActivityHandler(activityService, logger),
		SeedHandler:       handler.NewSeedHandler(seedService, logger),
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

// buildDirectory selects the identity backend: the remote provider when a
// base URL is configured, otherwise an in-process directory suitable for
// development and tests.
func buildDirectory(cfg config.Config, logger zerolog.Logger) (identity.Client, error) {
	if cfg.IdentityBaseURL == "" {
		logger.Warn().Msg("no identity base URL configured, using local directory")
		return identity.NewLocalDirectory(), nil
	}

	return identity.NewHTTPClient(identity.Config{
		BaseURL: cfg.IdentityBaseURL,
		APIKey:  cfg.IdentityAPIKey,
		Timeout: 10 * time.Second,
	}, logger)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
