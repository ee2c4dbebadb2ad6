package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hagwonlab/hagwon-api/internal/models"
)

// SubmissionRepository exposes persistence for assignment submissions.
type SubmissionRepository interface {
	GetByID(ctx context.Context, id uint) (models.Submission, error)
	ListByAssignment(ctx context.Context, assignmentID uint) ([]models.Submission, error)
	Upsert(ctx context.Context, submission *models.Submission) (models.Submission, error)
	Update(ctx context.Context, submission *models.Submission) error
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository constructs a submission repository.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) GetByID(ctx context.Context, id uint) (models.Submission, error) {
	var submission models.Submission
	err := r.db.WithContext(ctx).Preload("Assignment").First(&submission, id).Error
	if err != nil {
		return models.Submission{}, err
	}
	return submission, nil
}

func (r *submissionRepository) ListByAssignment(ctx context.Context, assignmentID uint) ([]models.Submission, error) {
	var submissions []models.Submission
	err := r.db.WithContext(ctx).
		Where("assignment_id = ?", assignmentID).
		Order("submitted_at DESC").
		Find(&submissions).Error
	return submissions, err
}

// Upsert writes the submission; a resubmission for the same
// assignment/student pair replaces the answer and resets grading.
func (r *submissionRepository) Upsert(ctx context.Context, submission *models.Submission) (models.Submission, error) {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "assignment_id"}, {Name: "student_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"content", "status", "submitted_at", "score", "feedback",
			"graded_by_id", "graded_at", "updated_at",
		}),
	}).Create(submission).Error
	if err != nil {
		return models.Submission{}, err
	}

	var stored models.Submission
	err = r.db.WithContext(ctx).
		Where("assignment_id = ? AND student_id = ?", submission.AssignmentID, submission.StudentID).
		First(&stored).Error
	if err != nil {
		return models.Submission{}, err
	}
	return stored, nil
}

func (r *submissionRepository) Update(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Save(submission).Error
}
