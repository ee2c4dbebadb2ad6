package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hagwonlab/hagwon-api/internal/models"
)

// SessionFilter narrows session listings.
type SessionFilter struct {
	ClassID  uint
	Status   string
	Page     int
	PageSize int
}

// SessionDependents counts the records that block a hard delete.
type SessionDependents struct {
	Attendances int64
	Assignments int64
}

// Any reports whether any dependent record exists.
func (d SessionDependents) Any() bool {
	return d.Attendances > 0 || d.Assignments > 0
}

// SessionRepository exposes persistence for sessions and attendance.
type SessionRepository interface {
	List(ctx context.Context, filter SessionFilter) ([]models.Session, int64, error)
	GetByID(ctx context.Context, id uint) (models.Session, error)
	Create(ctx context.Context, session *models.Session, tagIDs []uint) error
	Update(ctx context.Context, id uint, updates map[string]interface{}, tagIDs *[]uint) (models.Session, error)
	Dependents(ctx context.Context, id uint) (SessionDependents, error)
	Cancel(ctx context.Context, id uint) error
	Delete(ctx context.Context, id uint) error
	UpsertAttendance(ctx context.Context, records []models.Attendance) ([]models.Attendance, error)
	ListAttendance(ctx context.Context, sessionID uint) ([]models.Attendance, error)
}

type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository constructs a session repository.
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) List(ctx context.Context, filter SessionFilter) ([]models.Session, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Session{})

	if filter.ClassID > 0 {
		query = query.Where("class_id = ?", filter.ClassID)
	}

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("starts_at DESC")
	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		query = query.Limit(filter.PageSize).Offset((page - 1) * filter.PageSize)
	}

	var sessions []models.Session
	if err := query.Preload("Tags").Find(&sessions).Error; err != nil {
		return nil, 0, err
	}

	return sessions, total, nil
}

func (r *sessionRepository) GetByID(ctx context.Context, id uint) (models.Session, error) {
	var session models.Session
	if err := r.db.WithContext(ctx).Preload("Tags").First(&session, id).Error; err != nil {
		return models.Session{}, err
	}
	return session, nil
}

func (r *sessionRepository) Create(ctx context.Context, session *models.Session, tagIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(session).Error; err != nil {
			return err
		}

		if len(tagIDs) > 0 {
			tags, err := tagsByIDs(tx, tagIDs)
			if err != nil {
				return err
			}
			if err := tx.Model(session).Association("Tags").Append(&tags); err != nil {
				return err
			}
		}

		return nil
	})
}

func (r *sessionRepository) Update(ctx context.Context, id uint, updates map[string]interface{}, tagIDs *[]uint) (models.Session, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var session models.Session
		if err := tx.First(&session, id).Error; err != nil {
			return err
		}

		if len(updates) > 0 {
			if err := tx.Model(&session).Updates(updates).Error; err != nil {
				return err
			}
		}

		if tagIDs != nil {
			tags, err := tagsByIDs(tx, *tagIDs)
			if err != nil {
				return err
			}
			if err := tx.Model(&session).Association("Tags").Replace(&tags); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return models.Session{}, err
	}

	return r.GetByID(ctx, id)
}

func (r *sessionRepository) Dependents(ctx context.Context, id uint) (SessionDependents, error) {
	var dependents SessionDependents

	err := r.db.WithContext(ctx).Model(&models.Attendance{}).
		Where("session_id = ?", id).
		Count(&dependents.Attendances).Error
	if err != nil {
		return SessionDependents{}, err
	}

	err = r.db.WithContext(ctx).Model(&models.Assignment{}).
		Where("session_id = ?", id).
		Count(&dependents.Assignments).Error
	if err != nil {
		return SessionDependents{}, err
	}

	return dependents, nil
}

func (r *sessionRepository) Cancel(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Model(&models.Session{}).
		Where("id = ?", id).
		Update("status", models.SessionCancelled)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *sessionRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var session models.Session
		if err := tx.First(&session, id).Error; err != nil {
			return err
		}

		if err := tx.Model(&session).Association("Tags").Clear(); err != nil {
			return err
		}

		return tx.Delete(&models.Session{}, id).Error
	})
}

// UpsertAttendance writes the batch in one transaction; a second check for
// the same session/student pair updates the previous row.
func (r *sessionRepository) UpsertAttendance(ctx context.Context, records []models.Attendance) ([]models.Attendance, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range records {
			err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "session_id"}, {Name: "student_id"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"status", "note", "checked_by_id", "checked_at", "updated_at",
				}),
			}).Create(&records[i]).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return records, nil
	}
	return r.ListAttendance(ctx, records[0].SessionID)
}

func (r *sessionRepository) ListAttendance(ctx context.Context, sessionID uint) ([]models.Attendance, error) {
	var records []models.Attendance
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("student_id").
		Find(&records).Error
	return records, err
}
