package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/hagwonlab/hagwon-api/internal/models"
)

// StaffFilter narrows staff listings.
type StaffFilter struct {
	RoleLevel string
	Search    string
}

// StaffRepository provides access to teaching profiles.
type StaffRepository interface {
	List(ctx context.Context, filter StaffFilter) ([]models.Staff, error)
	GetByID(ctx context.Context, id uint) (models.Staff, error)
	GetByUserID(ctx context.Context, userID uint) (models.Staff, error)
	Create(ctx context.Context, staff *models.Staff) error
}

type staffRepository struct {
	db *gorm.DB
}

// NewStaffRepository constructs a staff repository.
func NewStaffRepository(db *gorm.DB) StaffRepository {
	return &staffRepository{db: db}
}

func (r *staffRepository) List(ctx context.Context, filter StaffFilter) ([]models.Staff, error) {
	query := r.db.WithContext(ctx).Model(&models.Staff{}).Preload("User")

	if filter.RoleLevel != "" {
		query = query.Joins("JOIN users ON users.id = staff.user_id").
			Where("users.role_level = ?", filter.RoleLevel)
	}

	if filter.Search != "" {
		query = query.Where("staff.name LIKE ?", "%"+filter.Search+"%")
	}

	var staff []models.Staff
	if err := query.Order("staff.name").Find(&staff).Error; err != nil {
		return nil, err
	}
	return staff, nil
}

func (r *staffRepository) GetByID(ctx context.Context, id uint) (models.Staff, error) {
	var staff models.Staff
	if err := r.db.WithContext(ctx).Preload("User").First(&staff, id).Error; err != nil {
		return models.Staff{}, err
	}
	return staff, nil
}

func (r *staffRepository) GetByUserID(ctx context.Context, userID uint) (models.Staff, error) {
	var staff models.Staff
	err := r.db.WithContext(ctx).Preload("User").
		Where("user_id = ?", userID).
		First(&staff).Error
	if err != nil {
		return models.Staff{}, err
	}
	return staff, nil
}

func (r *staffRepository) Create(ctx context.Context, staff *models.Staff) error {
	return r.db.WithContext(ctx).Create(staff).Error
}
