package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/hagwonlab/hagwon-api/internal/auth"
	"github.com/hagwonlab/hagwon-api/internal/dto"
	"github.com/hagwonlab/hagwon-api/internal/models"
	"github.com/hagwonlab/hagwon-api/internal/repository"
	"github.com/hagwonlab/hagwon-api/internal/schooling"
	"github.com/hagwonlab/hagwon-api/pkg/identity"
)

var (
	// ErrStudentNotFound indicates the student does not exist or is not
	// visible to the caller.
	ErrStudentNotFound = errors.New("student not found")
	// ErrLoginIDTaken indicates the derived login identifier collides with
	// an existing student.
	ErrLoginIDTaken = errors.New("login identifier already in use")
	// ErrStatusUnchanged indicates a transition to the student's current
	// management status.
	ErrStatusUnchanged = errors.New("student already in the requested status")
)

// StudentService orchestrates student management use cases.
type StudentService interface {
	List(ctx context.Context, principal auth.Principal, req dto.StudentListRequest) (dto.StudentListResponse, error)
	Get(ctx context.Context, principal auth.Principal, id uint) (dto.StudentResponse, error)
	Create(ctx context.Context, payload dto.StudentCreateRequest, actor ActivityActor) (dto.StudentCreateResponse, error)
	Update(ctx context.Context, id uint, payload dto.StudentUpdateRequest, actor ActivityActor) (dto.StudentResponse, error)
	Delete(ctx context.Context, id uint, actor ActivityActor) error
	ChangeStatus(ctx context.Context, id uint, payload dto.StudentStatusRequest, actor ActivityActor) (dto.StudentStatusResponse, error)
	StatusLogs(ctx context.Context, id uint) ([]dto.StatusLogResponse, error)
}

type studentService struct {
	repo      repository.StudentRepository
	directory identity.Client
	validator *validator.Validate
	activity  ActivityRecorder
	logger    zerolog.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(repo repository.StudentRepository, directory identity.Client, validator *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) StudentService {
	return &studentService{
		repo:      repo,
		directory: directory,
		validator: validator,
		activity:  activity,
		logger:    logger.With().Str("component", "student_service").Logger(),
	}
}

func (s *studentService) List(ctx context.Context, principal auth.Principal, req dto.StudentListRequest) (dto.StudentListResponse, error) {
	filter := repository.StudentFilter{
		Search:   strings.TrimSpace(req.Search),
		Status:   strings.TrimSpace(req.Status),
		TagIDs:   req.TagIDs,
		Page:     req.Page,
		PageSize: req.PageSize,
	}

	// lower roles see a narrowed listing instead of a refusal
	switch principal.Role {
	case auth.RoleStudent:
		filter.OwnerUserID = principal.ID
	case auth.RoleParent:
		filter.ParentUserID = principal.ID
	case auth.RoleAssistant:
		filter.AssistantUserID = principal.ID
	}

	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.StudentListResponse{}, err
	}

	responses := make([]dto.StudentResponse, 0, len(students))
	for _, student := range students {
		responses = append(responses, dto.NewStudentResponse(student, schooling.GradeNow(student.BirthDate)))
	}

	return dto.StudentListResponse{
		Items:      responses,
		Pagination: paginationMeta(req.Page, req.PageSize, total),
	}, nil
}

func (s *studentService) Get(ctx context.Context, principal auth.Principal, id uint) (dto.StudentResponse, error) {
	student, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentResponse{}, ErrStudentNotFound
		}
		return dto.StudentResponse{}, err
	}

	scope := auth.StudentScope{OwnerUserID: student.UserID, ParentUserID: student.ParentID}
	if !auth.CanReadStudent(principal, scope) {
		// invisible rather than forbidden: do not confirm the record exists
		return dto.StudentResponse{}, ErrStudentNotFound
	}

	return dto.NewStudentResponse(student, schooling.GradeNow(student.BirthDate)), nil
}

// Create registers a student in two phases: a directory account first, then
// the local user and profile. When the local write fails the directory
// account is deleted again so the two systems stay reconciled.
func (s *studentService) Create(ctx context.Context, payload dto.StudentCreateRequest, actor ActivityActor) (dto.StudentCreateResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.StudentCreateResponse{}, err
	}

	birthDate, err := time.Parse("2006-01-02", payload.BirthDate)
	if err != nil {
		return dto.StudentCreateResponse{}, fmt.Errorf("invalid birth date: %w", err)
	}

	credentials, err := schooling.GenerateCredentials(payload.Name, payload.Phone, birthDate, schooling.Gender(payload.Gender))
	if err != nil {
		return dto.StudentCreateResponse{}, err
	}

	taken, err := s.repo.ExistsByLoginID(ctx, credentials.LoginID)
	if err != nil {
		return dto.StudentCreateResponse{}, err
	}
	if taken {
		return dto.StudentCreateResponse{}, ErrLoginIDTaken
	}

	email := credentials.LoginID + "@students.hagwon.local"
	account, err := s.directory.CreateUser(ctx, email, credentials.Password, payload.Name, string(auth.RoleStudent))
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrDuplicate):
			return dto.StudentCreateResponse{}, ErrLoginIDTaken
		case errors.Is(err, identity.ErrUnavailable):
			return dto.StudentCreateResponse{}, ErrIdentityUnavailable
		default:
			return dto.StudentCreateResponse{}, err
		}
	}

	user := models.User{
		Email:     email,
		Name:      strings.TrimSpace(payload.Name),
		RoleLevel: string(auth.RoleStudent),
	}
	student := models.Student{
		LoginID:          credentials.LoginID,
		Name:             strings.TrimSpace(payload.Name),
		BirthDate:        birthDate,
		Gender:           payload.Gender,
		School:           strings.TrimSpace(payload.School),
		Phone:            strings.TrimSpace(payload.Phone),
		EnrollmentStatus: models.EnrollmentEnrolled,
		ManagementStatus: models.ManagementNormal,
		ParentID:         payload.ParentID,
	}

	if err := s.repo.CreateWithUser(ctx, &user, &student, payload.TagIDs); err != nil {
		// compensate: the directory account must not outlive the failed
		// local write
		if delErr := s.directory.DeleteUser(ctx, account.ID); delErr != nil {
			s.logger.Error().Err(delErr).Str("account_id", account.ID).
				Msg("compensating directory delete failed; account is orphaned")
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentCreateResponse{}, fmt.Errorf("unknown tag in initial tag set: %w", err)
		}
		return dto.StudentCreateResponse{}, err
	}

	s.logger.Info().Uint("student_id", student.ID).Str("login_id", student.LoginID).Msg("student registered")

	if s.activity != nil {
		id := student.ID
		_, _ = s.activity.Record(ctx, ActivityEntry{
			ActorID:    actor.ID,
			ActorRole:  actor.Role,
			Action:     "student.created",
			EntityType: "student",
			EntityID:   &id,
			Metadata:   map[string]interface{}{"login_id": student.LoginID},
		})
	}

	created, err := s.repo.GetByID(ctx, student.ID)
	if err != nil {
		return dto.StudentCreateResponse{}, err
	}

	return dto.StudentCreateResponse{
		Student:         dto.NewStudentResponse(created, schooling.GradeNow(created.BirthDate)),
		InitialPassword: credentials.Password,
	}, nil
}

func (s *studentService) Update(ctx context.Context, id uint, payload dto.StudentUpdateRequest, actor ActivityActor) (dto.StudentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.StudentResponse{}, err
	}

	updates := make(map[string]interface{})
	changed := make([]string, 0)

	if payload.Name != nil {
		updates["name"] = strings.TrimSpace(*payload.Name)
		changed = append(changed, "name")
	}
	if payload.School != nil {
		updates["school"] = strings.TrimSpace(*payload.School)
		changed = append(changed, "school")
	}
	if payload.Phone != nil {
		updates["phone"] = strings.TrimSpace(*payload.Phone)
		changed = append(changed, "phone")
	}
	if payload.EnrollmentStatus != nil {
		updates["enrollment_status"] = *payload.EnrollmentStatus
		changed = append(changed, "enrollment_status")
	}
	if payload.ParentID != nil {
		updates["parent_id"] = *payload.ParentID
		changed = append(changed, "parent_id")
	}
	if payload.TagIDs != nil {
		changed = append(changed, "tags")
	}

	student, err := s.repo.Update(ctx, id, updates, payload.TagIDs)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentResponse{}, ErrStudentNotFound
		}
		return dto.StudentResponse{}, err
	}

	if s.activity != nil && len(changed) > 0 {
		_, _ = s.activity.Record(ctx, ActivityEntry{
			ActorID:    actor.ID,
			ActorRole:  actor.Role,
			Action:     "student.updated",
			EntityType: "student",
			EntityID:   &id,
			Metadata:   map[string]interface{}{"fields": changed},
		})
	}

	return dto.NewStudentResponse(student, schooling.GradeNow(student.BirthDate)), nil
}

func (s *studentService) Delete(ctx context.Context, id uint, actor ActivityActor) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentNotFound
		}
		return err
	}

	if s.activity != nil {
		_, _ = s.activity.Record(ctx, ActivityEntry{
			ActorID:    actor.ID,
			ActorRole:  actor.Role,
			Action:     "student.deleted",
			EntityType: "student",
			EntityID:   &id,
		})
	}

	return nil
}

func (s *studentService) ChangeStatus(ctx context.Context, id uint, payload dto.StudentStatusRequest, actor ActivityActor) (dto.StudentStatusResponse, error) {
	// a padded reason must not slip past the required check
	payload.Reason = strings.TrimSpace(payload.Reason)
	if err := s.validator.Struct(payload); err != nil {
		return dto.StudentStatusResponse{}, err
	}

	student, log, err := s.repo.TransitionStatus(ctx, id, payload.NewStatus, payload.Reason, actor.ID)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return dto.StudentStatusResponse{}, ErrStudentNotFound
		case errors.Is(err, repository.ErrStatusUnchanged):
			return dto.StudentStatusResponse{}, ErrStatusUnchanged
		default:
			return dto.StudentStatusResponse{}, err
		}
	}

	s.logger.Info().Uint("student_id", id).
		Str("from", log.PreviousStatus).
		Str("to", log.NewStatus).
		Msg("management status changed")

	if s.activity != nil {
		_, _ = s.activity.Record(ctx, ActivityEntry{
			ActorID:    actor.ID,
			ActorRole:  actor.Role,
			Action:     "student.status_changed",
			EntityType: "student",
			EntityID:   &id,
			Metadata: map[string]interface{}{
				"from": log.PreviousStatus,
				"to":   log.NewStatus,
			},
		})
	}

	return dto.StudentStatusResponse{
		Student:   dto.NewStudentResponse(student, schooling.GradeNow(student.BirthDate)),
		StatusLog: dto.NewStatusLogResponse(log),
	}, nil
}

func (s *studentService) StatusLogs(ctx context.Context, id uint) ([]dto.StatusLogResponse, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}

	logs, err := s.repo.ListStatusLogs(ctx, id)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.StatusLogResponse, 0, len(logs))
	for _, log := range logs {
		responses = append(responses, dto.NewStatusLogResponse(log))
	}
	return responses, nil
}
