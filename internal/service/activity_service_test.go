package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hagwonlab/hagwon-api/internal/models"
	"github.com/hagwonlab/hagwon-api/internal/repository"
)

type fakeActivityLogRepo struct {
	entries []models.ActivityLog
}

func (f *fakeActivityLogRepo) Create(_ context.Context, entry *models.ActivityLog) error {
	entry.ID = uint(len(f.entries) + 1)
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeActivityLogRepo) List(_ context.Context, filter repository.ActivityLogFilter) ([]models.ActivityLog, int64, error) {
	filtered := make([]models.ActivityLog, 0)
	for _, entry := range f.entries {
		if filter.Action != "" && entry.Action != filter.Action {
			continue
		}
		if filter.EntityType != "" && entry.EntityType != filter.EntityType {
			continue
		}
		filtered = append(filtered, entry)
	}
	return filtered, int64(len(filtered)), nil
}

func TestActivityServiceRecordMasksSensitiveMetadata(t *testing.T) {
	repo := &fakeActivityLogRepo{}
	svc := NewActivityService(repo, testLogger())

	id := uint(3)
	resp, err := svc.Record(context.Background(), ActivityEntry{
		ActorID:    1,
		ActorRole:  "admin",
		Action:     "Student.Created",
		EntityType: "Student",
		EntityID:   &id,
		Metadata: map[string]interface{}{
			"login_id":         "kim56789",
			"initial_password": "1203143",
		},
	})
	require.NoError(t, err)

	require.Equal(t, "student.created", resp.Action)
	require.Equal(t, "ADMIN", resp.ActorRole)
	require.Equal(t, "kim56789", resp.Metadata["login_id"])
	require.Equal(t, "***", resp.Metadata["initial_password"], "credential metadata must be masked")
}

func TestActivityServiceRecordRequiresAction(t *testing.T) {
	svc := NewActivityService(&fakeActivityLogRepo{}, testLogger())

	_, err := svc.Record(context.Background(), ActivityEntry{EntityType: "student"})
	require.Error(t, err)
}
