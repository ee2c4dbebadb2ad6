package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hagwonlab/hagwon-api/internal/dto"
	"github.com/hagwonlab/hagwon-api/internal/models"
	"github.com/hagwonlab/hagwon-api/internal/repository"
)

type fakeClassRepo struct {
	classes     map[uint]models.Class
	dependents  map[uint]repository.ClassDependents
	deactivated []uint
	deleted     []uint
	nextID      uint
}

func newFakeClassRepo() *fakeClassRepo {
	return &fakeClassRepo{
		classes:    make(map[uint]models.Class),
		dependents: make(map[uint]repository.ClassDependents),
	}
}

func (f *fakeClassRepo) add(class models.Class, deps repository.ClassDependents) models.Class {
	f.nextID++
	class.ID = f.nextID
	f.classes[class.ID] = class
	f.dependents[class.ID] = deps
	return class
}

func (f *fakeClassRepo) List(_ context.Context, _ repository.ClassFilter) ([]models.Class, int64, error) {
	out := make([]models.Class, 0, len(f.classes))
	for _, class := range f.classes {
		out = append(out, class)
	}
	return out, int64(len(out)), nil
}

func (f *fakeClassRepo) GetByID(_ context.Context, id uint) (models.Class, error) {
	class, ok := f.classes[id]
	if !ok {
		return models.Class{}, gorm.ErrRecordNotFound
	}
	return class, nil
}

func (f *fakeClassRepo) Create(_ context.Context, class *models.Class, _, _ []uint) error {
	f.nextID++
	class.ID = f.nextID
	f.classes[class.ID] = *class
	return nil
}

func (f *fakeClassRepo) Update(_ context.Context, id uint, updates map[string]interface{}, _, _ *[]uint) (models.Class, error) {
	class, ok := f.classes[id]
	if !ok {
		return models.Class{}, gorm.ErrRecordNotFound
	}
	if name, ok := updates["name"].(string); ok {
		class.Name = name
	}
	f.classes[id] = class
	return class, nil
}

func (f *fakeClassRepo) Dependents(_ context.Context, id uint) (repository.ClassDependents, error) {
	return f.dependents[id], nil
}

func (f *fakeClassRepo) Deactivate(_ context.Context, id uint) error {
	class, ok := f.classes[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	class.IsActive = false
	f.classes[id] = class
	f.deactivated = append(f.deactivated, id)
	return nil
}

func (f *fakeClassRepo) Delete(_ context.Context, id uint) error {
	if _, ok := f.classes[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.classes, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeClassRepo) ReplaceEnrollments(_ context.Context, id uint, _ []uint) error {
	if _, ok := f.classes[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (f *fakeClassRepo) EnrollmentCounts(_ context.Context, ids []uint) (map[uint]int64, error) {
	out := make(map[uint]int64, len(ids))
	for _, id := range ids {
		out[id] = f.dependents[id].Enrollments
	}
	return out, nil
}

func (f *fakeClassRepo) SessionCounts(_ context.Context, ids []uint) (map[uint]int64, error) {
	out := make(map[uint]int64, len(ids))
	for _, id := range ids {
		out[id] = f.dependents[id].Sessions
	}
	return out, nil
}

func TestClassServiceRemoveDeactivatesWhenDependentsExist(t *testing.T) {
	repo := newFakeClassRepo()
	class := repo.add(models.Class{Name: "중등 수학", IsActive: true}, repository.ClassDependents{Enrollments: 3})
	svc := NewClassService(repo, testValidator(), nil, testLogger())

	outcome, err := svc.Remove(context.Background(), class.ID, ActivityActor{ID: 1, Role: "ADMIN"})
	require.NoError(t, err)
	require.True(t, outcome.Deactivated)
	require.False(t, outcome.Deleted)
	require.Equal(t, []uint{class.ID}, repo.deactivated)
	require.Empty(t, repo.deleted)

	remaining, err := repo.GetByID(context.Background(), class.ID)
	require.NoError(t, err)
	require.False(t, remaining.IsActive)
}

func TestClassServiceRemoveDeletesWhenUnreferenced(t *testing.T) {
	repo := newFakeClassRepo()
	class := repo.add(models.Class{Name: "빈 반", IsActive: true}, repository.ClassDependents{})
	svc := NewClassService(repo, testValidator(), nil, testLogger())

	outcome, err := svc.Remove(context.Background(), class.ID, ActivityActor{ID: 1, Role: "ADMIN"})
	require.NoError(t, err)
	require.True(t, outcome.Deleted)
	require.False(t, outcome.Deactivated)
	require.Equal(t, []uint{class.ID}, repo.deleted)
}

func TestClassServiceCreateSanitizesDescription(t *testing.T) {
	repo := newFakeClassRepo()
	svc := NewClassService(repo, testValidator(), nil, testLogger())

	resp, err := svc.Create(context.Background(), dto.ClassCreateRequest{
		Name:          "고등 영어",
		Description:   `<p>독해 중심</p><script>alert("x")</script>`,
		MainTeacherID: 1,
	}, ActivityActor{ID: 1, Role: "ADMIN"})
	require.NoError(t, err)
	require.Contains(t, resp.Description, "독해 중심")
	require.NotContains(t, resp.Description, "<script>")
}
