package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/hagwonlab/hagwon-api/internal/dto"
	"github.com/hagwonlab/hagwon-api/internal/models"
	"github.com/hagwonlab/hagwon-api/internal/repository"
)

// ErrSessionNotFound indicates the session does not exist.
var ErrSessionNotFound = errors.New("session not found")

// SessionService orchestrates session and attendance use cases.
type SessionService interface {
	List(ctx context.Context, req dto.SessionListRequest) (dto.SessionListResponse, error)
	Get(ctx context.Context, id uint) (dto.SessionResponse, error)
	Create(ctx context.Context, payload dto.SessionCreateRequest, actor ActivityActor) (dto.SessionResponse, error)
	Update(ctx context.Context, id uint, payload dto.SessionUpdateRequest, actor ActivityActor) (dto.SessionResponse, error)
	Remove(ctx context.Context, id uint, actor ActivityActor) (dto.DeleteOutcome, error)
	RecordAttendance(ctx context.Context, id uint, payload dto.AttendanceRequest, actor ActivityActor) ([]dto.AttendanceResponse, error)
	ListAttendance(ctx context.Context, id uint) ([]dto.AttendanceResponse, error)
}

type sessionService struct {
	repo      repository.SessionRepository
	validator *validator.Validate
	activity  ActivityRecorder
	logger    zerolog.Logger
}

// NewSessionService constructs the session service.
func NewSessionService(repo repository.SessionRepository, validator *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) SessionService {
	return &sessionService{
		repo:      repo,
		validator: validator,
		activity:  activity,
		logger:    logger.With().Str("component", "session_service").Logger(),
	}
}

func (s *sessionService) List(ctx context.Context, req dto.SessionListRequest) (dto.SessionListResponse, error) {
	sessions, total, err := s.repo.List(ctx, repository.SessionFilter{
		ClassID:  req.ClassID,
		Status:   strings.TrimSpace(req.Status),
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		return dto.SessionListResponse{}, err
	}

	responses := make([]dto.SessionResponse, 0, len(sessions))
	for _, session := range sessions {
		responses = append(responses, dto.NewSessionResponse(session))
	}

	return dto.SessionListResponse{
		Items:      responses,
		Pagination: paginationMeta(req.Page, req.PageSize, total),
	}, nil
}

func (s *sessionService) Get(ctx context.Context, id uint) (dto.SessionResponse, error) {
	session, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SessionResponse{}, ErrSessionNotFound
		}
		return dto.SessionResponse{}, err
	}
	return dto.NewSessionResponse(session), nil
}

func (s *sessionService) Create(ctx context.Context, payload dto.SessionCreateRequest, actor ActivityActor) (dto.SessionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SessionResponse{}, err
	}

	session := models.Session{
		ClassID:  payload.ClassID,
		Title:    strings.TrimSpace(payload.Title),
		Room:     strings.TrimSpace(payload.Room),
		StartsAt: payload.StartsAt,
		EndsAt:   payload.EndsAt,
		Status:   models.SessionScheduled,
	}

	if err := s.repo.Create(ctx, &session, payload.TagIDs); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SessionResponse{}, errors.New("unknown tag reference")
		}
		return dto.SessionResponse{}, err
	}

	s.recordSessionActivity(ctx, actor, "session.created", session.ID, nil)

	created, err := s.repo.GetByID(ctx, session.ID)
	if err != nil {
		return dto.SessionResponse{}, err
	}
	return dto.NewSessionResponse(created), nil
}

func (s *sessionService) Update(ctx context.Context, id uint, payload dto.SessionUpdateRequest, actor ActivityActor) (dto.SessionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SessionResponse{}, err
	}

	updates := make(map[string]interface{})
	changed := make([]string, 0)

	if payload.Title != nil {
		updates["title"] = strings.TrimSpace(*payload.Title)
		changed = append(changed, "title")
	}
	if payload.Room != nil {
		updates["room"] = strings.TrimSpace(*payload.Room)
		changed = append(changed, "room")
	}
	if payload.StartsAt != nil {
		updates["starts_at"] = *payload.StartsAt
		changed = append(changed, "starts_at")
	}
	if payload.EndsAt != nil {
		updates["ends_at"] = *payload.EndsAt
		changed = append(changed, "ends_at")
	}
	if payload.Status != nil {
		updates["status"] = *payload.Status
		changed = append(changed, "status")
	}
	if payload.TagIDs != nil {
		changed = append(changed, "tags")
	}

	session, err := s.repo.Update(ctx, id, updates, payload.TagIDs)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SessionResponse{}, ErrSessionNotFound
		}
		return dto.SessionResponse{}, err
	}

	if len(changed) > 0 {
		s.recordSessionActivity(ctx, actor, "session.updated", id, map[string]interface{}{"fields": changed})
	}

	return dto.NewSessionResponse(session), nil
}

// Remove hard-deletes a session without attendance or assignments;
// otherwise it cancels the session so the records keep their anchor.
func (s *sessionService) Remove(ctx context.Context, id uint, actor ActivityActor) (dto.DeleteOutcome, error) {
	dependents, err := s.repo.Dependents(ctx, id)
	if err != nil {
		return dto.DeleteOutcome{}, err
	}

	if dependents.Any() {
		if err := s.repo.Cancel(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.DeleteOutcome{}, ErrSessionNotFound
			}
			return dto.DeleteOutcome{}, err
		}

		s.recordSessionActivity(ctx, actor, "session.cancelled", id, map[string]interface{}{
			"attendances": dependents.Attendances,
			"assignments": dependents.Assignments,
		})

		return dto.DeleteOutcome{
			ID:          id,
			Deactivated: true,
			Message:     "session has attendance or assignments and was cancelled instead of deleted",
		}, nil
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.DeleteOutcome{}, ErrSessionNotFound
		}
		return dto.DeleteOutcome{}, err
	}

	s.recordSessionActivity(ctx, actor, "session.deleted", id, nil)

	return dto.DeleteOutcome{ID: id, Deleted: true, Message: "session deleted"}, nil
}

func (s *sessionService) RecordAttendance(ctx context.Context, id uint, payload dto.AttendanceRequest, actor ActivityActor) ([]dto.AttendanceResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	now := time.Now()
	records := make([]models.Attendance, 0, len(payload.Entries))
	for _, entry := range payload.Entries {
		records = append(records, models.Attendance{
			SessionID:   id,
			StudentID:   entry.StudentID,
			Status:      entry.Status,
			Note:        strings.TrimSpace(entry.Note),
			CheckedByID: actor.ID,
			CheckedAt:   now,
		})
	}

	saved, err := s.repo.UpsertAttendance(ctx, records)
	if err != nil {
		return nil, err
	}

	s.recordSessionActivity(ctx, actor, "session.attendance_recorded", id, map[string]interface{}{
		"entries": len(payload.Entries),
	})

	responses := make([]dto.AttendanceResponse, 0, len(saved))
	for _, record := range saved {
		responses = append(responses, dto.NewAttendanceResponse(record))
	}
	return responses, nil
}

func (s *sessionService) ListAttendance(ctx context.Context, id uint) ([]dto.AttendanceResponse, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	records, err := s.repo.ListAttendance(ctx, id)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.AttendanceResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, dto.NewAttendanceResponse(record))
	}
	return responses, nil
}

func (s *sessionService) recordSessionActivity(ctx context.Context, actor ActivityActor, action string, id uint, metadata map[string]interface{}) {
	if s.activity == nil {
		return
	}
	_, _ = s.activity.Record(ctx, ActivityEntry{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     action,
		EntityType: "session",
		EntityID:   &id,
		Metadata:   metadata,
	})
}
