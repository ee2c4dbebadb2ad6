package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hagwonlab/hagwon-api/internal/models"
)

func TestTagRepositoryUsageCountsPerKind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTagRepository(db)

	tag := seedTag(t, db, "레벨테스트")
	other := seedTag(t, db, "미사용")

	seedStudent(t, db, "강동원", "kang1000", tag)
	seedStudent(t, db, "송혜교", "song2000", tag)

	teacher := seedStaff(t, db, "원장쌤", "ADMIN")
	class := models.Class{Name: "중등 수학 A", MainTeacherID: teacher.ID, IsActive: true, Tags: []models.Tag{tag}}
	require.NoError(t, db.Create(&class).Error)

	usage, err := repo.Usage(context.Background(), tag.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), usage.Students)
	require.Equal(t, int64(1), usage.Classes)
	require.Zero(t, usage.Sessions)
	require.Equal(t, int64(3), usage.Total())

	usage, err = repo.Usage(context.Background(), other.ID)
	require.NoError(t, err)
	require.Zero(t, usage.Total())
}

func TestTagRepositoryUsageForAllAndTotals(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTagRepository(db)

	math := seedTag(t, db, "수학")
	english := seedTag(t, db, "영어")

	seedStudent(t, db, "신짱구", "shin1234", math, english)
	seedStudent(t, db, "김철수", "kimc5678", math)
	seedStudent(t, db, "이훈이", "leeh9012")

	all, err := repo.UsageForAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(2), all[math.ID].Students)
	require.Equal(t, int64(1), all[english.ID].Students)

	totals, err := repo.EntityTotals(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(3), totals.Students)

	tagged, err := repo.TaggedTotals(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(2), tagged.Students, "students with at least one tag")
}

func TestTagRepositoryGetByNameAndDelete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTagRepository(db)

	tag := seedTag(t, db, "겨울특강")

	found, err := repo.GetByName(context.Background(), "겨울특강")
	require.NoError(t, err)
	require.Equal(t, tag.ID, found.ID)

	_, err = repo.GetByName(context.Background(), "없는태그")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, repo.Delete(context.Background(), tag.ID))
	require.ErrorIs(t, repo.Delete(context.Background(), tag.ID), gorm.ErrRecordNotFound)
}
