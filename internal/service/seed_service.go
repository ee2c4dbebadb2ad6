package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/hagwonlab/hagwon-api/internal/auth"
	"github.com/hagwonlab/hagwon-api/internal/models"
	"github.com/hagwonlab/hagwon-api/internal/repository"
	"github.com/hagwonlab/hagwon-api/pkg/identity"
)

var (
	// ErrSeedDisabled indicates the seeding tools are disabled by configuration.
	ErrSeedDisabled = errors.New("seeding is disabled")
	// ErrSeedUnauthorized indicates the provided seed token is invalid.
	ErrSeedUnauthorized = errors.New("invalid seed token")
)

// SeedResult reports what a bootstrap run created.
type SeedResult struct {
	AdminCreated bool  `json:"admin_created"`
	TagsCreated  int64 `json:"tags_created"`
}

// SeedService bootstraps an empty deployment: an initial admin account and
// the default tag set.
type SeedService interface {
	Bootstrap(ctx context.Context, token, adminEmail, adminPassword, adminName string) (SeedResult, error)
}

type seedService struct {
	users     repository.UserRepository
	staff     repository.StaffRepository
	tags      repository.TagRepository
	directory identity.Client
	enabled   bool
	token     string
	logger    zerolog.Logger
}

// NewSeedService constructs the seeding service.
func NewSeedService(users repository.UserRepository, staff repository.StaffRepository, tags repository.TagRepository, directory identity.Client, enabled bool, token string, logger zerolog.Logger) SeedService {
	return &seedService{
		users:     users,
		staff:     staff,
		tags:      tags,
		directory: directory,
		enabled:   enabled,
		token:     token,
		logger:    logger.With().Str("component", "seed_service").Logger(),
	}
}

var defaultTags = []models.Tag{
	{Name: "수학", Category: "과목", Color: "#2563eb"},
	{Name: "영어", Category: "과목", Color: "#16a34a"},
	{Name: "국어", Category: "과목", Color: "#dc2626"},
	{Name: "과학", Category: "과목", Color: "#9333ea"},
	{Name: "특강", Category: "운영", Color: "#f59e0b"},
	{Name: "집중관리", Category: "운영", Color: "#ef4444"},
}

func (s *seedService) Bootstrap(ctx context.Context, token, adminEmail, adminPassword, adminName string) (SeedResult, error) {
	if !s.enabled {
		return SeedResult{}, ErrSeedDisabled
	}
	if !s.validateToken(token) {
		return SeedResult{}, ErrSeedUnauthorized
	}

	var result SeedResult

	admins, err := s.users.CountByRole(ctx, string(auth.RoleAdmin))
	if err != nil {
		return SeedResult{}, err
	}

	if admins == 0 && adminEmail != "" {
		if _, err := s.directory.CreateUser(ctx, adminEmail, adminPassword, adminName, string(auth.RoleAdmin)); err != nil && !errors.Is(err, identity.ErrDuplicate) {
			return SeedResult{}, err
		}

		user := models.User{Email: adminEmail, Name: adminName, RoleLevel: string(auth.RoleAdmin)}
		if err := s.users.Create(ctx, &user); err != nil {
			return SeedResult{}, err
		}
		if err := s.staff.Create(ctx, &models.Staff{UserID: user.ID, Name: adminName}); err != nil {
			return SeedResult{}, err
		}

		result.AdminCreated = true
		s.logger.Info().Str("email", adminEmail).Msg("initial admin account created")
	}

	for _, tag := range defaultTags {
		if _, err := s.tags.GetByName(ctx, tag.Name); err == nil {
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return SeedResult{}, err
		}

		seed := tag
		if err := s.tags.Create(ctx, &seed); err != nil {
			return SeedResult{}, err
		}
		result.TagsCreated++
	}

	s.logger.Info().Int64("tags", result.TagsCreated).Bool("admin", result.AdminCreated).Msg("bootstrap finished")

	return result, nil
}

func (s *seedService) validateToken(token string) bool {
	expected := strings.TrimSpace(s.token)
	if expected == "" {
		return false
	}
	provided := strings.TrimSpace(token)
	if len(expected) != len(provided) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(provided)) == 1
}
