package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/hagwonlab/hagwon-api/internal/models"
)

// SearchLogic selects how multiple tag IDs combine in a filter.
type SearchLogic string

const (
	SearchLogicAnd SearchLogic = "AND"
	SearchLogicOr  SearchLogic = "OR"
)

// SearchRepository runs tag-based filters across the tagged entity kinds.
type SearchRepository interface {
	FilterStudents(ctx context.Context, tagIDs []uint, logic SearchLogic) ([]models.Student, error)
	FilterClasses(ctx context.Context, tagIDs []uint, logic SearchLogic) ([]models.Class, error)
	FilterSessions(ctx context.Context, tagIDs []uint, logic SearchLogic) ([]models.Session, error)
	FilterMaterials(ctx context.Context, tagIDs []uint, logic SearchLogic) ([]models.Material, error)
}

type searchRepository struct {
	db *gorm.DB
}

// NewSearchRepository constructs a tag search repository.
func NewSearchRepository(db *gorm.DB) SearchRepository {
	return &searchRepository{db: db}
}

// tagMatchSubquery builds the join-table subquery selecting entity IDs that
// match the given tags. AND requires every tag on the entity, OR any of them.
func (r *searchRepository) tagMatchSubquery(joinTable, fkColumn string, tagIDs []uint, logic SearchLogic) *gorm.DB {
	sub := r.db.Table(joinTable).
		Select(fkColumn).
		Where("tag_id IN ?", tagIDs)
	if logic == SearchLogicAnd {
		sub = sub.Group(fkColumn).
			Having("COUNT(DISTINCT tag_id) = ?", len(tagIDs))
	}
	return sub
}

func (r *searchRepository) FilterStudents(ctx context.Context, tagIDs []uint, logic SearchLogic) ([]models.Student, error) {
	var students []models.Student
	sub := r.tagMatchSubquery("student_tags", "student_id", tagIDs, logic)
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Tags").
		Where("id IN (?)", sub).
		Order("id").
		Find(&students).Error
	if err != nil {
		return nil, err
	}
	return students, nil
}

func (r *searchRepository) FilterClasses(ctx context.Context, tagIDs []uint, logic SearchLogic) ([]models.Class, error) {
	var classes []models.Class
	sub := r.tagMatchSubquery("class_tags", "class_id", tagIDs, logic)
	err := r.db.WithContext(ctx).
		Preload("MainTeacher").
		Preload("Tags").
		Where("id IN (?)", sub).
		Order("id").
		Find(&classes).Error
	if err != nil {
		return nil, err
	}
	return classes, nil
}

func (r *searchRepository) FilterSessions(ctx context.Context, tagIDs []uint, logic SearchLogic) ([]models.Session, error) {
	var sessions []models.Session
	sub := r.tagMatchSubquery("session_tags", "session_id", tagIDs, logic)
	err := r.db.WithContext(ctx).
		Preload("Class").
		Preload("Tags").
		Where("id IN (?)", sub).
		Order("id").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *searchRepository) FilterMaterials(ctx context.Context, tagIDs []uint, logic SearchLogic) ([]models.Material, error) {
	var materials []models.Material
	sub := r.tagMatchSubquery("material_tags", "material_id", tagIDs, logic)
	err := r.db.WithContext(ctx).
		Preload("Tags").
		Where("id IN (?)", sub).
		Order("id").
		Find(&materials).Error
	if err != nil {
		return nil, err
	}
	return materials, nil
}
