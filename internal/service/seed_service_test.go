package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hagwonlab/hagwon-api/internal/models"
	"github.com/hagwonlab/hagwon-api/internal/repository"
	"github.com/hagwonlab/hagwon-api/pkg/identity"
)

type fakeStaffRepo struct {
	staff []models.Staff
}

func (f *fakeStaffRepo) List(_ context.Context, _ repository.StaffFilter) ([]models.Staff, error) {
	return f.staff, nil
}

func (f *fakeStaffRepo) GetByID(_ context.Context, id uint) (models.Staff, error) {
	for _, member := range f.staff {
		if member.ID == id {
			return member, nil
		}
	}
	return models.Staff{}, gorm.ErrRecordNotFound
}

func (f *fakeStaffRepo) GetByUserID(_ context.Context, userID uint) (models.Staff, error) {
	for _, member := range f.staff {
		if member.UserID == userID {
			return member, nil
		}
	}
	return models.Staff{}, gorm.ErrRecordNotFound
}

func (f *fakeStaffRepo) Create(_ context.Context, staff *models.Staff) error {
	staff.ID = uint(len(f.staff) + 1)
	f.staff = append(f.staff, *staff)
	return nil
}

func TestSeedServiceBootstrap(t *testing.T) {
	users := newFakeUserRepo()
	staff := &fakeStaffRepo{}
	tags := newFakeTagRepo()
	directory := identity.NewLocalDirectory()

	svc := NewSeedService(users, staff, tags, directory, true, "seed-token", testLogger())

	result, err := svc.Bootstrap(context.Background(), "seed-token", "admin@hagwon.local", "secret", "원장")
	require.NoError(t, err)
	require.True(t, result.AdminCreated)
	require.Equal(t, int64(len(defaultTags)), result.TagsCreated)
	require.Len(t, staff.staff, 1)

	// a second run is idempotent
	result, err = svc.Bootstrap(context.Background(), "seed-token", "admin@hagwon.local", "secret", "원장")
	require.NoError(t, err)
	require.False(t, result.AdminCreated)
	require.Zero(t, result.TagsCreated)
}

func TestSeedServiceBootstrapGuards(t *testing.T) {
	users := newFakeUserRepo()
	staff := &fakeStaffRepo{}
	tags := newFakeTagRepo()
	directory := identity.NewLocalDirectory()

	disabled := NewSeedService(users, staff, tags, directory, false, "seed-token", testLogger())
	_, err := disabled.Bootstrap(context.Background(), "seed-token", "a@b.c", "pw", "admin")
	require.ErrorIs(t, err, ErrSeedDisabled)

	enabled := NewSeedService(users, staff, tags, directory, true, "seed-token", testLogger())
	_, err = enabled.Bootstrap(context.Background(), "wrong", "a@b.c", "pw", "admin")
	require.ErrorIs(t, err, ErrSeedUnauthorized)

	noToken := NewSeedService(users, staff, tags, directory, true, "", testLogger())
	_, err = noToken.Bootstrap(context.Background(), "", "a@b.c", "pw", "admin")
	require.ErrorIs(t, err, ErrSeedUnauthorized, "empty configured token never matches")
}
