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

// ErrClassNotFound indicates the class does not exist.
var ErrClassNotFound = errors.New("class not found")

// ClassService orchestrates class management use cases.
type ClassService interface {
	List(ctx context.Context, req dto.ClassListRequest) (dto.ClassListResponse, error)
	Get(ctx context.Context, id uint) (dto.ClassResponse, error)
	Create(ctx context.Context, payload dto.ClassCreateRequest, actor ActivityActor) (dto.ClassResponse, error)
	Update(ctx context.Context, id uint, payload dto.ClassUpdateRequest, actor ActivityActor) (dto.ClassResponse, error)
	Remove(ctx context.Context, id uint, actor ActivityActor) (dto.DeleteOutcome, error)
	Enroll(ctx context.Context, id uint, payload dto.ClassEnrollRequest, actor ActivityActor) (dto.ClassResponse, error)
}

type classService struct {
	repo      repository.ClassRepository
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	activity  ActivityRecorder
	logger    zerolog.Logger
}

// NewClassService constructs the class service.
func NewClassService(repo repository.ClassRepository, validator *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) ClassService {
	return &classService{
		repo:      repo,
		validator: validator,
		sanitizer: bluemonday.UGCPolicy(),
		activity:  activity,
		logger:    logger.With().Str("component", "class_service").Logger(),
	}
}

func (s *classService) List(ctx context.Context, req dto.ClassListRequest) (dto.ClassListResponse, error) {
	classes, total, err := s.repo.List(ctx, repository.ClassFilter{
		Search:     strings.TrimSpace(req.Search),
		ActiveOnly: req.ActiveOnly,
		Page:       req.Page,
		PageSize:   req.PageSize,
	})
	if err != nil {
		return dto.ClassListResponse{}, err
	}

	ids := make([]uint, 0, len(classes))
	for _, class := range classes {
		ids = append(ids, class.ID)
	}

	enrollments, err := s.repo.EnrollmentCounts(ctx, ids)
	if err != nil {
		return dto.ClassListResponse{}, err
	}
	sessions, err := s.repo.SessionCounts(ctx, ids)
	if err != nil {
		return dto.ClassListResponse{}, err
	}

	responses := make([]dto.ClassResponse, 0, len(classes))
	for _, class := range classes {
		responses = append(responses, dto.NewClassResponse(class, enrollments[class.ID], sessions[class.ID]))
	}

	return dto.ClassListResponse{
		Items:      responses,
		Pagination: paginationMeta(req.Page, req.PageSize, total),
	}, nil
}

func (s *classService) Get(ctx context.Context, id uint) (dto.ClassResponse, error) {
	class, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ClassResponse{}, ErrClassNotFound
		}
		return dto.ClassResponse{}, err
	}

	return s.withCounts(ctx, class)
}

func (s *classService) Create(ctx context.Context, payload dto.ClassCreateRequest, actor ActivityActor) (dto.ClassResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ClassResponse{}, err
	}

	class := models.Class{
		Name:          strings.TrimSpace(payload.Name),
		Description:   s.sanitizer.Sanitize(payload.Description),
		Cost:          payload.Cost,
		IsActive:      true,
		MainTeacherID: payload.MainTeacherID,
	}

	if err := s.repo.Create(ctx, &class, payload.AssistantIDs, payload.TagIDs); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ClassResponse{}, errors.New("unknown assistant or tag reference")
		}
		return dto.ClassResponse{}, err
	}

	s.recordClassActivity(ctx, actor, "class.created", class.ID, nil)

	created, err := s.repo.GetByID(ctx, class.ID)
	if err != nil {
		return dto.ClassResponse{}, err
	}
	return s.withCounts(ctx, created)
}

func (s *classService) Update(ctx context.Context, id uint, payload dto.ClassUpdateRequest, actor ActivityActor) (dto.ClassResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ClassResponse{}, err
	}

	updates := make(map[string]interface{})
	changed := make([]string, 0)

	if payload.Name != nil {
		updates["name"] = strings.TrimSpace(*payload.Name)
		changed = append(changed, "name")
	}
	if payload.Description != nil {
		updates["description"] = s.sanitizer.Sanitize(*payload.Description)
		changed = append(changed, "description")
	}
	if payload.Cost != nil {
		updates["cost"] = *payload.Cost
		changed = append(changed, "cost")
	}
	if payload.IsActive != nil {
		updates["is_active"] = *payload.IsActive
		changed = append(changed, "is_active")
	}
	if payload.MainTeacherID != nil {
		updates["main_teacher_id"] = *payload.MainTeacherID
		changed = append(changed, "main_teacher_id")
	}
	if payload.AssistantIDs != nil {
		changed = append(changed, "assistants")
	}
	if payload.TagIDs != nil {
		changed = append(changed, "tags")
	}

	class, err := s.repo.Update(ctx, id, updates, payload.AssistantIDs, payload.TagIDs)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ClassResponse{}, ErrClassNotFound
		}
		return dto.ClassResponse{}, err
	}

	if len(changed) > 0 {
		s.recordClassActivity(ctx, actor, "class.updated", id, map[string]interface{}{"fields": changed})
	}

	return s.withCounts(ctx, class)
}

// Remove hard-deletes a class without enrollments or sessions; otherwise it
// deactivates the class so history stays intact.
func (s *classService) Remove(ctx context.Context, id uint, actor ActivityActor) (dto.DeleteOutcome, error) {
	dependents, err := s.repo.Dependents(ctx, id)
	if err != nil {
		return dto.DeleteOutcome{}, err
	}

	if dependents.Any() {
		if err := s.repo.Deactivate(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.DeleteOutcome{}, ErrClassNotFound
			}
			return dto.DeleteOutcome{}, err
		}

		s.recordClassActivity(ctx, actor, "class.deactivated", id, map[string]interface{}{
			"enrollments": dependents.Enrollments,
			"sessions":    dependents.Sessions,
		})

		return dto.DeleteOutcome{
			ID:          id,
			Deactivated: true,
			Message:     "class has enrollments or sessions and was deactivated instead of deleted",
		}, nil
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.DeleteOutcome{}, ErrClassNotFound
		}
		return dto.DeleteOutcome{}, err
	}

	s.recordClassActivity(ctx, actor, "class.deleted", id, nil)

	return dto.DeleteOutcome{ID: id, Deleted: true, Message: "class deleted"}, nil
}

func (s *classService) Enroll(ctx context.Context, id uint, payload dto.ClassEnrollRequest, actor ActivityActor) (dto.ClassResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ClassResponse{}, err
	}

	if err := s.repo.ReplaceEnrollments(ctx, id, payload.StudentIDs); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ClassResponse{}, ErrClassNotFound
		}
		return dto.ClassResponse{}, err
	}

	s.recordClassActivity(ctx, actor, "class.enrollment_changed", id, map[string]interface{}{
		"student_count": len(payload.StudentIDs),
	})

	class, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.ClassResponse{}, err
	}
	return s.withCounts(ctx, class)
}

func (s *classService) withCounts(ctx context.Context, class models.Class) (dto.ClassResponse, error) {
	enrollments, err := s.repo.EnrollmentCounts(ctx, []uint{class.ID})
	if err != nil {
		return dto.ClassResponse{}, err
	}
	sessions, err := s.repo.SessionCounts(ctx, []uint{class.ID})
	if err != nil {
		return dto.ClassResponse{}, err
	}
	return dto.NewClassResponse(class, enrollments[class.ID], sessions[class.ID]), nil
}

func (s *classService) recordClassActivity(ctx context.Context, actor ActivityActor, action string, id uint, metadata map[string]interface{}) {
	if s.activity == nil {
		return
	}
	_, _ = s.activity.Record(ctx, ActivityEntry{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     action,
		EntityType: "class",
		EntityID:   &id,
		Metadata:   metadata,
	})
}
