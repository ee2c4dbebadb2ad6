package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/hagwonlab/hagwon-api/internal/models"
)

// TagUsage counts a tag's references split by entity kind.
type TagUsage struct {
	Students  int64
	Classes   int64
	Sessions  int64
	Materials int64
}

// Total sums the per-kind counts.
func (u TagUsage) Total() int64 {
	return u.Students + u.Classes + u.Sessions + u.Materials
}

// KindTotals holds an aggregate per entity kind.
type KindTotals struct {
	Students  int64
	Classes   int64
	Sessions  int64
	Materials int64
}

// Sum adds the four kinds together.
func (t KindTotals) Sum() int64 {
	return t.Students + t.Classes + t.Sessions + t.Materials
}

// tag association join tables, in kind order.
var tagJoinTables = []struct {
	kind  string
	table string
	fk    string
}{
	{"students", "student_tags", "student_id"},
	{"classes", "class_tags", "class_id"},
	{"sessions", "session_tags", "session_id"},
	{"materials", "material_tags", "material_id"},
}

// TagRepository exposes persistence for tags and their usage aggregates.
type TagRepository interface {
	List(ctx context.Context) ([]models.Tag, error)
	GetByID(ctx context.Context, id uint) (models.Tag, error)
	GetByName(ctx context.Context, name string) (models.Tag, error)
	Create(ctx context.Context, tag *models.Tag) error
	Update(ctx context.Context, id uint, updates map[string]interface{}) (models.Tag, error)
	Delete(ctx context.Context, id uint) error
	Usage(ctx context.Context, id uint) (TagUsage, error)
	UsageForAll(ctx context.Context) (map[uint]TagUsage, error)
	EntityTotals(ctx context.Context) (KindTotals, error)
	TaggedTotals(ctx context.Context) (KindTotals, error)
}

type tagRepository struct {
	db *gorm.DB
}

// NewTagRepository constructs a tag repository.
func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) List(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := r.db.WithContext(ctx).Order("id").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *tagRepository) GetByID(ctx context.Context, id uint) (models.Tag, error) {
	var tag models.Tag
	if err := r.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		return models.Tag{}, err
	}
	return tag, nil
}

func (r *tagRepository) GetByName(ctx context.Context, name string) (models.Tag, error) {
	var tag models.Tag
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&tag).Error; err != nil {
		return models.Tag{}, err
	}
	return tag, nil
}

func (r *tagRepository) Create(ctx context.Context, tag *models.Tag) error {
	return r.db.WithContext(ctx).Create(tag).Error
}

func (r *tagRepository) Update(ctx context.Context, id uint, updates map[string]interface{}) (models.Tag, error) {
	result := r.db.WithContext(ctx).Model(&models.Tag{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return models.Tag{}, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Tag{}, gorm.ErrRecordNotFound
	}
	return r.GetByID(ctx, id)
}

// Delete removes the tag row only. Callers enforce the usage check first;
// the repository is not the policy layer.
func (r *tagRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Tag{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *tagRepository) Usage(ctx context.Context, id uint) (TagUsage, error) {
	var usage TagUsage
	targets := []*int64{&usage.Students, &usage.Classes, &usage.Sessions, &usage.Materials}

	for i, join := range tagJoinTables {
		err := r.db.WithContext(ctx).Table(join.table).
			Where("tag_id = ?", id).
			Count(targets[i]).Error
		if err != nil {
			return TagUsage{}, err
		}
	}

	return usage, nil
}

func (r *tagRepository) UsageForAll(ctx context.Context) (map[uint]TagUsage, error) {
	usage := make(map[uint]TagUsage)

	for i, join := range tagJoinTables {
		var rows []struct {
			TagID uint
			Total int64
		}
		err := r.db.WithContext(ctx).Table(join.table).
			Select("tag_id, COUNT(*) AS total").
			Group("tag_id").
			Scan(&rows).Error
		if err != nil {
			return nil, err
		}

		for _, row := range rows {
			entry := usage[row.TagID]
			switch i {
			case 0:
				entry.Students = row.Total
			case 1:
				entry.Classes = row.Total
			case 2:
				entry.Sessions = row.Total
			case 3:
				entry.Materials = row.Total
			}
			usage[row.TagID] = entry
		}
	}

	return usage, nil
}

func (r *tagRepository) EntityTotals(ctx context.Context) (KindTotals, error) {
	var totals KindTotals

	counts := []struct {
		model  interface{}
		target *int64
	}{
		{&models.Student{}, &totals.Students},
		{&models.Class{}, &totals.Classes},
		{&models.Session{}, &totals.Sessions},
		{&models.Material{}, &totals.Materials},
	}
	for _, c := range counts {
		if err := r.db.WithContext(ctx).Model(c.model).Count(c.target).Error; err != nil {
			return KindTotals{}, err
		}
	}

	return totals, nil
}

// TaggedTotals counts, per kind, the entities carrying at least one tag.
func (r *tagRepository) TaggedTotals(ctx context.Context) (KindTotals, error) {
	var totals KindTotals
	targets := []*int64{&totals.Students, &totals.Classes, &totals.Sessions, &totals.Materials}

	for i, join := range tagJoinTables {
		err := r.db.WithContext(ctx).Table(join.table).
			Distinct(join.fk).
			Count(targets[i]).Error
		if err != nil {
			return KindTotals{}, err
		}
	}

	return totals, nil
}
