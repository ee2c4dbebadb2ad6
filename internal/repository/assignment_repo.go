package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/hagwonlab/hagwon-api/internal/models"
)

// AssignmentRepository exposes persistence for assignments.
type AssignmentRepository interface {
	List(ctx context.Context, sessionID uint, page, pageSize int) ([]models.Assignment, int64, error)
	GetByID(ctx context.Context, id uint) (models.Assignment, error)
	Create(ctx context.Context, assignment *models.Assignment) error
	Update(ctx context.Context, id uint, updates map[string]interface{}) (models.Assignment, error)
	Delete(ctx context.Context, id uint) error
	SubmissionCount(ctx context.Context, id uint) (int64, error)
}

type assignmentRepository struct {
	db *gorm.DB
}

// NewAssignmentRepository constructs an assignment repository.
func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) List(ctx context.Context, sessionID uint, page, pageSize int) ([]models.Assignment, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Assignment{})

	if sessionID > 0 {
		query = query.Where("session_id = ?", sessionID)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("due_date")
	if pageSize > 0 {
		if page <= 0 {
			page = 1
		}
		query = query.Limit(pageSize).Offset((page - 1) * pageSize)
	}

	var assignments []models.Assignment
	if err := query.Find(&assignments).Error; err != nil {
		return nil, 0, err
	}

	return assignments, total, nil
}

func (r *assignmentRepository) GetByID(ctx context.Context, id uint) (models.Assignment, error) {
	var assignment models.Assignment
	if err := r.db.WithContext(ctx).First(&assignment, id).Error; err != nil {
		return models.Assignment{}, err
	}
	return assignment, nil
}

func (r *assignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *assignmentRepository) Update(ctx context.Context, id uint, updates map[string]interface{}) (models.Assignment, error) {
	tx := r.db.WithContext(ctx).Model(&models.Assignment{}).Where("id = ?", id)
	result := tx.Updates(updates)
	if result.Error != nil {
		return models.Assignment{}, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Assignment{}, gorm.ErrRecordNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *assignmentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("assignment_id = ?", id).Delete(&models.Submission{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Assignment{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *assignmentRepository) SubmissionCount(ctx context.Context, id uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Submission{}).
		Where("assignment_id = ?", id).
		Count(&count).Error
	return count, err
}
