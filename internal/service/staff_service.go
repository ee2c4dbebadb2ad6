package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/hagwonlab/hagwon-api/internal/dto"
	"github.com/hagwonlab/hagwon-api/internal/repository"
)

// ErrStaffNotFound indicates the teaching profile does not exist.
var ErrStaffNotFound = errors.New("staff member not found")

// StaffService exposes teaching profiles.
type StaffService interface {
	List(ctx context.Context, roleLevel, search string) ([]dto.StaffResponse, error)
	Get(ctx context.Context, id uint) (dto.StaffResponse, error)
}

type staffService struct {
	repo   repository.StaffRepository
	logger zerolog.Logger
}

// NewStaffService constructs the staff service.
func NewStaffService(repo repository.StaffRepository, logger zerolog.Logger) StaffService {
	return &staffService{
		repo:   repo,
		logger: logger.With().Str("component", "staff_service").Logger(),
	}
}

func (s *staffService) List(ctx context.Context, roleLevel, search string) ([]dto.StaffResponse, error) {
	staff, err := s.repo.List(ctx, repository.StaffFilter{
		RoleLevel: strings.TrimSpace(roleLevel),
		Search:    strings.TrimSpace(search),
	})
	if err != nil {
		return nil, err
	}

	responses := make([]dto.StaffResponse, 0, len(staff))
	for _, member := range staff {
		responses = append(responses, dto.NewStaffResponse(member))
	}
	return responses, nil
}

func (s *staffService) Get(ctx context.Context, id uint) (dto.StaffResponse, error) {
	member, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StaffResponse{}, ErrStaffNotFound
		}
		return dto.StaffResponse{}, err
	}
	return dto.NewStaffResponse(member), nil
}
