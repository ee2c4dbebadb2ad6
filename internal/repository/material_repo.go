package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/hagwonlab/hagwon-api/internal/models"
)

// MaterialRepository exposes persistence for learning materials.
type MaterialRepository interface {
	List(ctx context.Context, search string, ownerID uint, page, pageSize int) ([]models.Material, int64, error)
	GetByID(ctx context.Context, id uint) (models.Material, error)
	Create(ctx context.Context, material *models.Material, tagIDs []uint) error
	Update(ctx context.Context, id uint, updates map[string]interface{}, tagIDs *[]uint) (models.Material, error)
	Delete(ctx context.Context, id uint) error
}

type materialRepository struct {
	db *gorm.DB
}

// NewMaterialRepository constructs a material repository.
func NewMaterialRepository(db *gorm.DB) MaterialRepository {
	return &materialRepository{db: db}
}

func (r *materialRepository) List(ctx context.Context, search string, ownerID uint, page, pageSize int) ([]models.Material, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Material{})

	if search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(title) LIKE ?", like)
	}

	if ownerID > 0 {
		query = query.Where("owner_id = ?", ownerID)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at DESC")
	if pageSize > 0 {
		if page <= 0 {
			page = 1
		}
		query = query.Limit(pageSize).Offset((page - 1) * pageSize)
	}

	var materials []models.Material
	if err := query.Preload("Tags").Find(&materials).Error; err != nil {
		return nil, 0, err
	}

	return materials, total, nil
}

func (r *materialRepository) GetByID(ctx context.Context, id uint) (models.Material, error) {
	var material models.Material
	if err := r.db.WithContext(ctx).Preload("Tags").First(&material, id).Error; err != nil {
		return models.Material{}, err
	}
	return material, nil
}

func (r *materialRepository) Create(ctx context.Context, material *models.Material, tagIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(material).Error; err != nil {
			return err
		}

		if len(tagIDs) > 0 {
			tags, err := tagsByIDs(tx, tagIDs)
			if err != nil {
				return err
			}
			if err := tx.Model(material).Association("Tags").Append(&tags); err != nil {
				return err
			}
		}

		return nil
	})
}

func (r *materialRepository) Update(ctx context.Context, id uint, updates map[string]interface{}, tagIDs *[]uint) (models.Material, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var material models.Material
		if err := tx.First(&material, id).Error; err != nil {
			return err
		}

		if len(updates) > 0 {
			if err := tx.Model(&material).Updates(updates).Error; err != nil {
				return err
			}
		}

		if tagIDs != nil {
			tags, err := tagsByIDs(tx, *tagIDs)
			if err != nil {
				return err
			}
			if err := tx.Model(&material).Association("Tags").Replace(&tags); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return models.Material{}, err
	}

	return r.GetByID(ctx, id)
}

func (r *materialRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var material models.Material
		if err := tx.First(&material, id).Error; err != nil {
			return err
		}

		if err := tx.Model(&material).Association("Tags").Clear(); err != nil {
			return err
		}

		return tx.Delete(&models.Material{}, id).Error
	})
}
