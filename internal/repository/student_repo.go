package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/hagwonlab/hagwon-api/internal/models"
)

// ErrStatusUnchanged indicates a status transition targeting the student's
// current status.
var ErrStatusUnchanged = errors.New("student already in that status")

// StudentFilter narrows student listings. Scope fields restrict visibility
// for self, parent, and assistant principals.
type StudentFilter struct {
	Search          string
	Status          string
	TagIDs          []uint
	OwnerUserID     uint
	ParentUserID    uint
	AssistantUserID uint
	Page            int
	PageSize        int
}

// StudentRepository exposes persistence for students and their audit trail.
type StudentRepository interface {
	List(ctx context.Context, filter StudentFilter) ([]models.Student, int64, error)
	GetByID(ctx context.Context, id uint) (models.Student, error)
	ExistsByLoginID(ctx context.Context, loginID string) (bool, error)
	CreateWithUser(ctx context.Context, user *models.User, student *models.Student, tagIDs []uint) error
	Update(ctx context.Context, id uint, updates map[string]interface{}, tagIDs *[]uint) (models.Student, error)
	Delete(ctx context.Context, id uint) error
	TransitionStatus(ctx context.Context, id uint, newStatus, reason string, actorID uint) (models.Student, models.StatusLog, error)
	ListStatusLogs(ctx context.Context, studentID uint) ([]models.StatusLog, error)
}

type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository constructs a student repository.
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) List(ctx context.Context, filter StudentFilter) ([]models.Student, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Student{})

	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(school) LIKE ?", like, like)
	}

	if filter.Status != "" {
		query = query.Where("enrollment_status = ?", filter.Status)
	}

	if len(filter.TagIDs) > 0 {
		tagged := r.db.Table("student_tags").
			Select("student_id").
			Where("tag_id IN ?", filter.TagIDs)
		query = query.Where("id IN (?)", tagged)
	}

	if filter.OwnerUserID > 0 {
		query = query.Where("user_id = ?", filter.OwnerUserID)
	}

	if filter.ParentUserID > 0 {
		query = query.Where("parent_id = ?", filter.ParentUserID)
	}

	if filter.AssistantUserID > 0 {
		assisted := r.db.Table("class_enrollments").
			Select("class_enrollments.student_id").
			Joins("JOIN class_assistants ON class_assistants.class_id = class_enrollments.class_id").
			Joins("JOIN staff ON staff.id = class_assistants.staff_id").
			Where("staff.user_id = ?", filter.AssistantUserID)
		query = query.Where("id IN (?)", assisted)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at DESC")
	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		query = query.Limit(filter.PageSize).Offset((page - 1) * filter.PageSize)
	}

	var students []models.Student
	if err := query.Preload("Tags").Preload("User").Find(&students).Error; err != nil {
		return nil, 0, err
	}

	return students, total, nil
}

func (r *studentRepository) GetByID(ctx context.Context, id uint) (models.Student, error) {
	var student models.Student
	err := r.db.WithContext(ctx).
		Preload("Tags").
		Preload("User").
		First(&student, id).Error
	if err != nil {
		return models.Student{}, err
	}
	return student, nil
}

func (r *studentRepository) ExistsByLoginID(ctx context.Context, loginID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Student{}).
		Where("login_id = ?", loginID).
		Count(&count).Error
	return count > 0, err
}

// CreateWithUser persists the principal and the student profile atomically
// and attaches the initial tag set.
func (r *studentRepository) CreateWithUser(ctx context.Context, user *models.User, student *models.Student, tagIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}

		student.UserID = user.ID
		if err := tx.Create(student).Error; err != nil {
			return err
		}

		if len(tagIDs) > 0 {
			tags, err := tagsByIDs(tx, tagIDs)
			if err != nil {
				return err
			}
			if err := tx.Model(student).Association("Tags").Append(&tags); err != nil {
				return err
			}
		}

		return nil
	})
}

// Update applies field updates and, when tagIDs is non-nil, replaces the
// tag associations in the same transaction.
func (r *studentRepository) Update(ctx context.Context, id uint, updates map[string]interface{}, tagIDs *[]uint) (models.Student, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var student models.Student
		if err := tx.First(&student, id).Error; err != nil {
			return err
		}

		if len(updates) > 0 {
			if err := tx.Model(&student).Updates(updates).Error; err != nil {
				return err
			}
		}

		if tagIDs != nil {
			tags, err := tagsByIDs(tx, *tagIDs)
			if err != nil {
				return err
			}
			if err := tx.Model(&student).Association("Tags").Replace(&tags); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return models.Student{}, err
	}

	return r.GetByID(ctx, id)
}

// Delete removes the student and every dependent record. Reserved for the
// top administrative role; ordinary removal happens through enrollment
// status changes.
func (r *studentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var student models.Student
		if err := tx.First(&student, id).Error; err != nil {
			return err
		}

		if err := tx.Model(&student).Association("Tags").Clear(); err != nil {
			return err
		}
		if err := tx.Where("student_id = ?", id).Delete(&models.StatusLog{}).Error; err != nil {
			return err
		}
		if err := tx.Where("student_id = ?", id).Delete(&models.Attendance{}).Error; err != nil {
			return err
		}
		if err := tx.Where("student_id = ?", id).Delete(&models.Submission{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM class_enrollments WHERE student_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Student{}, id).Error; err != nil {
			return err
		}

		return tx.Delete(&models.User{}, student.UserID).Error
	})
}

// TransitionStatus flips the management status and appends the audit row in
// one transaction. The previous status is read inside the transaction so
// the pair is always consistent.
func (r *studentRepository) TransitionStatus(ctx context.Context, id uint, newStatus, reason string, actorID uint) (models.Student, models.StatusLog, error) {
	var log models.StatusLog

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var student models.Student
		if err := tx.First(&student, id).Error; err != nil {
			return err
		}

		if student.ManagementStatus == newStatus {
			return ErrStatusUnchanged
		}

		log = models.StatusLog{
			StudentID:      id,
			PreviousStatus: student.ManagementStatus,
			NewStatus:      newStatus,
			Reason:         reason,
			ChangedByID:    actorID,
		}

		if err := tx.Model(&student).Update("management_status", newStatus).Error; err != nil {
			return err
		}

		return tx.Create(&log).Error
	})
	if err != nil {
		return models.Student{}, models.StatusLog{}, err
	}

	student, err := r.GetByID(ctx, id)
	if err != nil {
		return models.Student{}, models.StatusLog{}, err
	}

	return student, log, nil
}

func (r *studentRepository) ListStatusLogs(ctx context.Context, studentID uint) ([]models.StatusLog, error) {
	var logs []models.StatusLog
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&logs).Error
	return logs, err
}

func tagsByIDs(tx *gorm.DB, ids []uint) ([]models.Tag, error) {
	var tags []models.Tag
	if len(ids) == 0 {
		return tags, nil
	}
	if err := tx.Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, err
	}
	if len(tags) != len(ids) {
		return nil, gorm.ErrRecordNotFound
	}
	return tags, nil
}
