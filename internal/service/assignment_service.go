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

var (
	// ErrAssignmentNotFound indicates the assignment does not exist.
	ErrAssignmentNotFound = errors.New("assignment not found")
	// ErrSubmissionNotFound indicates the submission does not exist.
	ErrSubmissionNotFound = errors.New("submission not found")
)

// AssignmentService orchestrates assignments and their submissions.
type AssignmentService interface {
	List(ctx context.Context, sessionID uint, page, pageSize int) ([]dto.AssignmentResponse, dto.PaginationMeta, error)
	Get(ctx context.Context, id uint) (dto.AssignmentResponse, error)
	Create(ctx context.Context, payload dto.AssignmentCreateRequest, actor ActivityActor) (dto.AssignmentResponse, error)
	Update(ctx context.Context, id uint, payload dto.AssignmentUpdateRequest, actor ActivityActor) (dto.AssignmentResponse, error)
	Delete(ctx context.Context, id uint, actor ActivityActor) error
	Submit(ctx context.Context, assignmentID uint, payload dto.SubmissionCreateRequest) (dto.SubmissionResponse, error)
	Grade(ctx context.Context, submissionID uint, payload dto.SubmissionGradeRequest, actor ActivityActor) (dto.SubmissionResponse, error)
	ListSubmissions(ctx context.Context, assignmentID uint) ([]dto.SubmissionResponse, error)
}

type assignmentService struct {
	assignments repository.AssignmentRepository
	submissions repository.SubmissionRepository
	validator   *validator.Validate
	activity    ActivityRecorder
	logger      zerolog.Logger
}

// NewAssignmentService constructs the assignment service.
func NewAssignmentService(assignments repository.AssignmentRepository, submissions repository.SubmissionRepository, validator *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) AssignmentService {
	return &assignmentService{
		assignments: assignments,
		submissions: submissions,
		validator:   validator,
		activity:    activity,
		logger:      logger.With().Str("component", "assignment_service").Logger(),
	}
}

func (s *assignmentService) List(ctx context.Context, sessionID uint, page, pageSize int) ([]dto.AssignmentResponse, dto.PaginationMeta, error) {
	assignments, total, err := s.assignments.List(ctx, sessionID, page, pageSize)
	if err != nil {
		return nil, dto.PaginationMeta{}, err
	}

	now := time.Now()
	responses := make([]dto.AssignmentResponse, 0, len(assignments))
	for _, assignment := range assignments {
		responses = append(responses, dto.NewAssignmentResponse(assignment, now))
	}

	return responses, paginationMeta(page, pageSize, total), nil
}

func (s *assignmentService) Get(ctx context.Context, id uint) (dto.AssignmentResponse, error) {
	assignment, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssignmentResponse{}, ErrAssignmentNotFound
		}
		return dto.AssignmentResponse{}, err
	}
	return dto.NewAssignmentResponse(assignment, time.Now()), nil
}

func (s *assignmentService) Create(ctx context.Context, payload dto.AssignmentCreateRequest, actor ActivityActor) (dto.AssignmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	assignment := models.Assignment{
		SessionID:   payload.SessionID,
		Title:       strings.TrimSpace(payload.Title),
		Description: payload.Description,
		DueDate:     payload.DueDate,
	}

	if err := s.assignments.Create(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	s.recordAssignmentActivity(ctx, actor, "assignment.created", assignment.ID)

	return dto.NewAssignmentResponse(assignment, time.Now()), nil
}

func (s *assignmentService) Update(ctx context.Context, id uint, payload dto.AssignmentUpdateRequest, actor ActivityActor) (dto.AssignmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	updates := make(map[string]interface{})
	if payload.Title != nil {
		updates["title"] = strings.TrimSpace(*payload.Title)
	}
	if payload.Description != nil {
		updates["description"] = *payload.Description
	}
	if payload.DueDate != nil {
		updates["due_date"] = *payload.DueDate
	}

	assignment, err := s.assignments.Update(ctx, id, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssignmentResponse{}, ErrAssignmentNotFound
		}
		return dto.AssignmentResponse{}, err
	}

	s.recordAssignmentActivity(ctx, actor, "assignment.updated", id)

	return dto.NewAssignmentResponse(assignment, time.Now()), nil
}

func (s *assignmentService) Delete(ctx context.Context, id uint, actor ActivityActor) error {
	if err := s.assignments.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssignmentNotFound
		}
		return err
	}

	s.recordAssignmentActivity(ctx, actor, "assignment.deleted", id)
	return nil
}

// Submit stores the student's answer. Resubmission overwrites the previous
// answer and resets any grading.
func (s *assignmentService) Submit(ctx context.Context, assignmentID uint, payload dto.SubmissionCreateRequest) (dto.SubmissionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, err
	}

	if _, err := s.assignments.GetByID(ctx, assignmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrAssignmentNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	submission := models.Submission{
		AssignmentID: assignmentID,
		StudentID:    payload.StudentID,
		Content:      payload.Content,
		Status:       models.SubmissionSubmitted,
		SubmittedAt:  time.Now(),
	}

	saved, err := s.submissions.Upsert(ctx, &submission)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	s.logger.Info().Uint("assignment_id", assignmentID).Uint("student_id", payload.StudentID).Msg("submission received")

	return dto.NewSubmissionResponse(saved), nil
}

func (s *assignmentService) Grade(ctx context.Context, submissionID uint, payload dto.SubmissionGradeRequest, actor ActivityActor) (dto.SubmissionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, err
	}

	submission, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	now := time.Now()
	submission.Status = models.SubmissionGraded
	submission.Score = payload.Score
	submission.Feedback = payload.Feedback
	submission.GradedByID = &actor.ID
	submission.GradedAt = &now

	if err := s.submissions.Update(ctx, &submission); err != nil {
		return dto.SubmissionResponse{}, err
	}

	s.recordAssignmentActivity(ctx, actor, "submission.graded", submission.AssignmentID)

	return dto.NewSubmissionResponse(submission), nil
}

func (s *assignmentService) ListSubmissions(ctx context.Context, assignmentID uint) ([]dto.SubmissionResponse, error) {
	if _, err := s.assignments.GetByID(ctx, assignmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}

	submissions, err := s.submissions.ListByAssignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.SubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		responses = append(responses, dto.NewSubmissionResponse(submission))
	}
	return responses, nil
}

func (s *assignmentService) recordAssignmentActivity(ctx context.Context, actor ActivityActor, action string, id uint) {
	if s.activity == nil {
		return
	}
	_, _ = s.activity.Record(ctx, ActivityEntry{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     action,
		EntityType: "assignment",
		EntityID:   &id,
	})
}
