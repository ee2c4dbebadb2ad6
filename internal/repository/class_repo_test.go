package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hagwonlab/hagwon-api/internal/models"
)

func TestClassRepositoryDependentsGateDeletion(t *testing.T) {
	db := setupTestDB(t)
	repo := NewClassRepository(db)

	teacher := seedStaff(t, db, "김선생", "TEACHER")
	class := models.Class{Name: "고등 영어 심화", MainTeacherID: teacher.ID, IsActive: true}
	require.NoError(t, db.Create(&class).Error)

	dependents, err := repo.Dependents(context.Background(), class.ID)
	require.NoError(t, err)
	require.False(t, dependents.Any())

	student := seedStudent(t, db, "배수지", "bae1212")
	require.NoError(t, repo.ReplaceEnrollments(context.Background(), class.ID, []uint{student.ID}))

	session := models.Session{
		ClassID:  class.ID,
		Title:    "1주차",
		StartsAt: time.Now(),
		EndsAt:   time.Now().Add(2 * time.Hour),
		Status:   models.SessionScheduled,
	}
	require.NoError(t, db.Create(&session).Error)

	dependents, err = repo.Dependents(context.Background(), class.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), dependents.Enrollments)
	require.Equal(t, int64(1), dependents.Sessions)
	require.True(t, dependents.Any())
}

func TestClassRepositoryDeactivate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewClassRepository(db)

	teacher := seedStaff(t, db, "박선생", "TEACHER")
	class := models.Class{Name: "초등 국어", MainTeacherID: teacher.ID, IsActive: true}
	require.NoError(t, db.Create(&class).Error)

	require.NoError(t, repo.Deactivate(context.Background(), class.ID))

	reloaded, err := repo.GetByID(context.Background(), class.ID)
	require.NoError(t, err)
	require.False(t, reloaded.IsActive)

	require.ErrorIs(t, repo.Deactivate(context.Background(), 999), gorm.ErrRecordNotFound)
}

func TestClassRepositoryUpdateReplacesAssociations(t *testing.T) {
	db := setupTestDB(t)
	repo := NewClassRepository(db)

	teacher := seedStaff(t, db, "최선생", "TEACHER")
	assistant := seedStaff(t, db, "보조쌤", "ASSISTANT")
	oldTag := seedTag(t, db, "구태그")
	newTag := seedTag(t, db, "신태그")

	class := models.Class{Name: "중등 과학", MainTeacherID: teacher.ID, IsActive: true}
	require.NoError(t, repo.Create(context.Background(), &class, nil, []uint{oldTag.ID}))

	assistants := []uint{assistant.ID}
	tags := []uint{newTag.ID}
	updated, err := repo.Update(context.Background(), class.ID, map[string]interface{}{"name": "중등 과학 B"}, &assistants, &tags)
	require.NoError(t, err)
	require.Equal(t, "중등 과학 B", updated.Name)
	require.Len(t, updated.Assistants, 1)
	require.Len(t, updated.Tags, 1)
	require.Equal(t, "신태그", updated.Tags[0].Name)
}
