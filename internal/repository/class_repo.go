package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/hagwonlab/hagwon-api/internal/models"
)

// ClassFilter narrows class listings.
type ClassFilter struct {
	Search     string
	ActiveOnly bool
	Page       int
	PageSize   int
}

// ClassDependents counts the records that block a hard delete.
type ClassDependents struct {
	Enrollments int64
	Sessions    int64
}

// Any reports whether any dependent record exists.
func (d ClassDependents) Any() bool {
	return d.Enrollments > 0 || d.Sessions > 0
}

// ClassRepository exposes persistence for classes and their enrollments.
type ClassRepository interface {
	List(ctx context.Context, filter ClassFilter) ([]models.Class, int64, error)
	GetByID(ctx context.Context, id uint) (models.Class, error)
	Create(ctx context.Context, class *models.Class, assistantIDs, tagIDs []uint) error
	Update(ctx context.Context, id uint, updates map[string]interface{}, assistantIDs, tagIDs *[]uint) (models.Class, error)
	Dependents(ctx context.Context, id uint) (ClassDependents, error)
	Deactivate(ctx context.Context, id uint) error
	Delete(ctx context.Context, id uint) error
	ReplaceEnrollments(ctx context.Context, id uint, studentIDs []uint) error
	EnrollmentCounts(ctx context.Context, ids []uint) (map[uint]int64, error)
	SessionCounts(ctx context.Context, ids []uint) (map[uint]int64, error)
}

type classRepository struct {
	db *gorm.DB
}

// NewClassRepository constructs a class repository.
func NewClassRepository(db *gorm.DB) ClassRepository {
	return &classRepository{db: db}
}

func (r *classRepository) List(ctx context.Context, filter ClassFilter) ([]models.Class, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Class{})

	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(name) LIKE ?", like)
	}

	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
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

	var classes []models.Class
	err := query.
		Preload("Tags").
		Preload("MainTeacher").
		Preload("Assistants").
		Find(&classes).Error
	if err != nil {
		return nil, 0, err
	}

	return classes, total, nil
}

func (r *classRepository) GetByID(ctx context.Context, id uint) (models.Class, error) {
	var class models.Class
	err := r.db.WithContext(ctx).
		Preload("Tags").
		Preload("MainTeacher").
		Preload("Assistants").
		First(&class, id).Error
	if err != nil {
		return models.Class{}, err
	}
	return class, nil
}

func (r *classRepository) Create(ctx context.Context, class *models.Class, assistantIDs, tagIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(class).Error; err != nil {
			return err
		}

		if len(assistantIDs) > 0 {
			assistants, err := staffByIDs(tx, assistantIDs)
			if err != nil {
				return err
			}
			if err := tx.Model(class).Association("Assistants").Append(&assistants); err != nil {
				return err
			}
		}

		if len(tagIDs) > 0 {
			tags, err := tagsByIDs(tx, tagIDs)
			if err != nil {
				return err
			}
			if err := tx.Model(class).Association("Tags").Append(&tags); err != nil {
				return err
			}
		}

		return nil
	})
}

func (r *classRepository) Update(ctx context.Context, id uint, updates map[string]interface{}, assistantIDs, tagIDs *[]uint) (models.Class, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var class models.Class
		if err := tx.First(&class, id).Error; err != nil {
			return err
		}

		if len(updates) > 0 {
			if err := tx.Model(&class).Updates(updates).Error; err != nil {
				return err
			}
		}

		if assistantIDs != nil {
			assistants, err := staffByIDs(tx, *assistantIDs)
			if err != nil {
				return err
			}
			if err := tx.Model(&class).Association("Assistants").Replace(&assistants); err != nil {
				return err
			}
		}

		if tagIDs != nil {
			tags, err := tagsByIDs(tx, *tagIDs)
			if err != nil {
				return err
			}
			if err := tx.Model(&class).Association("Tags").Replace(&tags); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return models.Class{}, err
	}

	return r.GetByID(ctx, id)
}

func (r *classRepository) Dependents(ctx context.Context, id uint) (ClassDependents, error) {
	var dependents ClassDependents

	err := r.db.WithContext(ctx).Table("class_enrollments").
		Where("class_id = ?", id).
		Count(&dependents.Enrollments).Error
	if err != nil {
		return ClassDependents{}, err
	}

	err = r.db.WithContext(ctx).Model(&models.Session{}).
		Where("class_id = ?", id).
		Count(&dependents.Sessions).Error
	if err != nil {
		return ClassDependents{}, err
	}

	return dependents, nil
}

func (r *classRepository) Deactivate(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Model(&models.Class{}).
		Where("id = ?", id).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *classRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var class models.Class
		if err := tx.First(&class, id).Error; err != nil {
			return err
		}

		if err := tx.Model(&class).Association("Tags").Clear(); err != nil {
			return err
		}
		if err := tx.Model(&class).Association("Assistants").Clear(); err != nil {
			return err
		}

		return tx.Delete(&models.Class{}, id).Error
	})
}

func (r *classRepository) ReplaceEnrollments(ctx context.Context, id uint, studentIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var class models.Class
		if err := tx.First(&class, id).Error; err != nil {
			return err
		}

		var students []models.Student
		if len(studentIDs) > 0 {
			if err := tx.Where("id IN ?", studentIDs).Find(&students).Error; err != nil {
				return err
			}
			if len(students) != len(studentIDs) {
				return gorm.ErrRecordNotFound
			}
		}

		return tx.Model(&class).Association("Students").Replace(&students)
	})
}

func (r *classRepository) EnrollmentCounts(ctx context.Context, ids []uint) (map[uint]int64, error) {
	return r.countByClass(ctx, "class_enrollments", ids)
}

func (r *classRepository) SessionCounts(ctx context.Context, ids []uint) (map[uint]int64, error) {
	return r.countByClass(ctx, "sessions", ids)
}

func (r *classRepository) countByClass(ctx context.Context, table string, ids []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}

	var rows []struct {
		ClassID uint
		Total   int64
	}
	err := r.db.WithContext(ctx).Table(table).
		Select("class_id, COUNT(*) AS total").
		Where("class_id IN ?", ids).
		Group("class_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.ClassID] = row.Total
	}
	return counts, nil
}

func staffByIDs(tx *gorm.DB, ids []uint) ([]models.Staff, error) {
	var staff []models.Staff
	if len(ids) == 0 {
		return staff, nil
	}
	if err := tx.Where("id IN ?", ids).Find(&staff).Error; err != nil {
		return nil, err
	}
	if len(staff) != len(ids) {
		return nil, gorm.ErrRecordNotFound
	}
	return staff, nil
}
