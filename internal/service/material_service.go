package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/hagwonlab/hagwon-api/internal/dto"
	"github.com/hagwonlab/hagwon-api/internal/models"
	"github.com/hagwonlab/hagwon-api/internal/repository"
)

// ErrMaterialNotFound indicates the material does not exist.
var ErrMaterialNotFound = errors.New("material not found")

// MaterialService orchestrates learning material use cases.
type MaterialService interface {
	List(ctx context.Context, req dto.MaterialListRequest) (dto.MaterialListResponse, error)
	Get(ctx context.Context, id uint) (dto.MaterialResponse, error)
	Create(ctx context.Context, ownerID uint, payload dto.MaterialCreateRequest, actor ActivityActor) (dto.MaterialResponse, error)
	Update(ctx context.Context, id uint, payload dto.MaterialUpdateRequest, actor ActivityActor) (dto.MaterialResponse, error)
	Delete(ctx context.Context, id uint, actor ActivityActor) error
}

type materialService struct {
	repo      repository.MaterialRepository
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	activity  ActivityRecorder
	logger    zerolog.Logger
}

// NewMaterialService constructs the material service.
func NewMaterialService(repo repository.MaterialRepository, validator *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) MaterialService {
	return &materialService{
		repo:      repo,
		validator: validator,
		sanitizer: bluemonday.UGCPolicy(),
		activity:  activity,
		logger:    logger.With().Str("component", "material_service").Logger(),
	}
}

func (s *materialService) List(ctx context.Context, req dto.MaterialListRequest) (dto.MaterialListResponse, error) {
	materials, total, err := s.repo.List(ctx, strings.TrimSpace(req.Search), req.OwnerID, req.Page, req.PageSize)
	if err != nil {
		return dto.MaterialListResponse{}, err
	}

	responses := make([]dto.MaterialResponse, 0, len(materials))
	for _, material := range materials {
		responses = append(responses, dto.NewMaterialResponse(material))
	}

	return dto.MaterialListResponse{
		Items:      responses,
		Pagination: paginationMeta(req.Page, req.PageSize, total),
	}, nil
}

func (s *materialService) Get(ctx context.Context, id uint) (dto.MaterialResponse, error) {
	material, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.MaterialResponse{}, ErrMaterialNotFound
		}
		return dto.MaterialResponse{}, err
	}
	return dto.NewMaterialResponse(material), nil
}

func (s *materialService) Create(ctx context.Context, ownerID uint, payload dto.MaterialCreateRequest, actor ActivityActor) (dto.MaterialResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.MaterialResponse{}, err
	}

	material := models.Material{
		Title:   strings.TrimSpace(payload.Title),
		Content: s.sanitizer.Sanitize(payload.Content),
		FileURL: strings.TrimSpace(payload.FileURL),
		OwnerID: ownerID,
	}

	if err := s.repo.Create(ctx, &material, payload.TagIDs); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.MaterialResponse{}, errors.New("unknown tag reference")
		}
		return dto.MaterialResponse{}, err
	}

	s.recordMaterialActivity(ctx, actor, "material.created", material.ID)

	created, err := s.repo.GetByID(ctx, material.ID)
	if err != nil {
		return dto.MaterialResponse{}, err
	}
	return dto.NewMaterialResponse(created), nil
}

func (s *materialService) Update(ctx context.Context, id uint, payload dto.MaterialUpdateRequest, actor ActivityActor) (dto.MaterialResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.MaterialResponse{}, err
	}

	updates := make(map[string]interface{})
	if payload.Title != nil {
		updates["title"] = strings.TrimSpace(*payload.Title)
	}
	if payload.Content != nil {
		updates["content"] = s.sanitizer.Sanitize(*payload.Content)
	}
	if payload.FileURL != nil {
		updates["file_url"] = strings.TrimSpace(*payload.FileURL)
	}

	material, err := s.repo.Update(ctx, id, updates, payload.TagIDs)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.MaterialResponse{}, ErrMaterialNotFound
		}
		return dto.MaterialResponse{}, err
	}

	s.recordMaterialActivity(ctx, actor, "material.updated", id)

	return dto.NewMaterialResponse(material), nil
}

func (s *materialService) Delete(ctx context.Context, id uint, actor ActivityActor) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMaterialNotFound
		}
		return err
	}

	s.recordMaterialActivity(ctx, actor, "material.deleted", id)
	return nil
}

func (s *materialService) recordMaterialActivity(ctx context.Context, actor ActivityActor, action string, id uint) {
	if s.activity == nil {
		return
	}
	_, _ = s.activity.Record(ctx, ActivityEntry{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     action,
		EntityType: "material",
		EntityID:   &id,
	})
}
