package dto

import (
	"time"

	"github.com/hagwonlab/hagwon-api/internal/models"
)

// AssignmentCreateRequest carries fields for a new assignment.
type AssignmentCreateRequest struct {
	SessionID   uint      `json:"session_id" validate:"required"`
	Title       string    `json:"title" validate:"required,max=255"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"due_date" validate:"required"`
}

// AssignmentUpdateRequest carries optional assignment field updates.
type AssignmentUpdateRequest struct {
	Title       *string    `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"due_date"`
}

// AssignmentResponse is the public view of an assignment.
type AssignmentResponse struct {
	ID          uint      `json:"id"`
	SessionID   uint      `json:"session_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"due_date"`
	PastDue     bool      `json:"past_due"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewAssignmentResponse maps an assignment model to its public view.
func NewAssignmentResponse(assignment models.Assignment, reference time.Time) AssignmentResponse {
	return AssignmentResponse{
		ID:          assignment.ID,
		SessionID:   assignment.SessionID,
		Title:       assignment.Title,
		Description: assignment.Description,
		DueDate:     assignment.DueDate,
		PastDue:     assignment.IsPastDue(reference),
		CreatedAt:   assignment.CreatedAt,
	}
}

// SubmissionCreateRequest carries a student answer.
type SubmissionCreateRequest struct {
	StudentID uint   `json:"student_id" validate:"required"`
	Content   string `json:"content" validate:"required"`
}

// SubmissionGradeRequest carries a staff grading action.
type SubmissionGradeRequest struct {
	Score    *int   `json:"score" validate:"required,gte=0,lte=100"`
	Feedback string `json:"feedback"`
}

// SubmissionResponse is the public view of a submission.
type SubmissionResponse struct {
	ID           uint       `json:"id"`
	AssignmentID uint       `json:"assignment_id"`
	StudentID    uint       `json:"student_id"`
	Content      string     `json:"content"`
	Status       string     `json:"status"`
	SubmittedAt  time.Time  `json:"submitted_at"`
	Score        *int       `json:"score"`
	Feedback     string     `json:"feedback,omitempty"`
	GradedByID   *uint      `json:"graded_by_id"`
	GradedAt     *time.Time `json:"graded_at"`
}

// NewSubmissionResponse maps a submission model to its public view.
func NewSubmissionResponse(submission models.Submission) SubmissionResponse {
	return SubmissionResponse{
		ID:           submission.ID,
		AssignmentID: submission.AssignmentID,
		StudentID:    submission.StudentID,
		Content:      submission.Content,
		Status:       submission.Status,
		SubmittedAt:  submission.SubmittedAt,
		Score:        submission.Score,
		Feedback:     submission.Feedback,
		GradedByID:   submission.GradedByID,
		GradedAt:     submission.GradedAt,
	}
}
