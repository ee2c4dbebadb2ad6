package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hagwonlab/hagwon-api/internal/dto"
	"github.com/hagwonlab/hagwon-api/internal/models"
	"github.com/hagwonlab/hagwon-api/internal/repository"
)

type fakeSessionRepo struct {
	sessions   map[uint]models.Session
	dependents map[uint]repository.SessionDependents
	attendance map[uint][]models.Attendance
	cancelled  []uint
	deleted    []uint
	nextID     uint
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{
		sessions:   make(map[uint]models.Session),
		dependents: make(map[uint]repository.SessionDependents),
		attendance: make(map[uint][]models.Attendance),
	}
}

func (f *fakeSessionRepo) add(session models.Session, deps repository.SessionDependents) models.Session {
	f.nextID++
	session.ID = f.nextID
	f.sessions[session.ID] = session
	f.dependents[session.ID] = deps
	return session
}

func (f *fakeSessionRepo) List(_ context.Context, _ repository.SessionFilter) ([]models.Session, int64, error) {
	out := make([]models.Session, 0, len(f.sessions))
	for _, session := range f.sessions {
		out = append(out, session)
	}
	return out, int64(len(out)), nil
}

func (f *fakeSessionRepo) GetByID(_ context.Context, id uint) (models.Session, error) {
	session, ok := f.sessions[id]
	if !ok {
		return models.Session{}, gorm.ErrRecordNotFound
	}
	return session, nil
}

func (f *fakeSessionRepo) Create(_ context.Context, session *models.Session, _ []uint) error {
	f.nextID++
	session.ID = f.nextID
	f.sessions[session.ID] = *session
	return nil
}

func (f *fakeSessionRepo) Update(_ context.Context, id uint, updates map[string]interface{}, _ *[]uint) (models.Session, error) {
	session, ok := f.sessions[id]
	if !ok {
		return models.Session{}, gorm.ErrRecordNotFound
	}
	if title, ok := updates["title"].(string); ok {
		session.Title = title
	}
	f.sessions[id] = session
	return session, nil
}

func (f *fakeSessionRepo) Dependents(_ context.Context, id uint) (repository.SessionDependents, error) {
	return f.dependents[id], nil
}

func (f *fakeSessionRepo) Cancel(_ context.Context, id uint) error {
	session, ok := f.sessions[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	session.Status = models.SessionCancelled
	f.sessions[id] = session
	f.cancelled = append(f.cancelled, id)
	return nil
}

func (f *fakeSessionRepo) Delete(_ context.Context, id uint) error {
	if _, ok := f.sessions[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.sessions, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeSessionRepo) UpsertAttendance(_ context.Context, records []models.Attendance) ([]models.Attendance, error) {
	if len(records) == 0 {
		return records, nil
	}
	sessionID := records[0].SessionID
	existing := f.attendance[sessionID]
	for _, record := range records {
		replaced := false
		for i, prev := range existing {
			if prev.StudentID == record.StudentID {
				existing[i] = record
				replaced = true
				break
			}
		}
		if !replaced {
			existing = append(existing, record)
		}
	}
	f.attendance[sessionID] = existing
	return existing, nil
}

func (f *fakeSessionRepo) ListAttendance(_ context.Context, sessionID uint) ([]models.Attendance, error) {
	return f.attendance[sessionID], nil
}

func TestSessionServiceRemoveCancelsWhenDependentsExist(t *testing.T) {
	repo := newFakeSessionRepo()
	session := repo.add(models.Session{Title: "미분 1", Status: models.SessionScheduled}, repository.SessionDependents{Attendances: 4})
	svc := NewSessionService(repo, testValidator(), nil, testLogger())

	outcome, err := svc.Remove(context.Background(), session.ID, ActivityActor{ID: 1, Role: "TEACHER"})
	require.NoError(t, err)
	require.True(t, outcome.Deactivated)
	require.Equal(t, []uint{session.ID}, repo.cancelled)
	require.Empty(t, repo.deleted)

	remaining, err := repo.GetByID(context.Background(), session.ID)
	require.NoError(t, err)
	require.Equal(t, models.SessionCancelled, remaining.Status)
}

func TestSessionServiceRemoveDeletesWhenUnreferenced(t *testing.T) {
	repo := newFakeSessionRepo()
	session := repo.add(models.Session{Title: "빈 수업"}, repository.SessionDependents{})
	svc := NewSessionService(repo, testValidator(), nil, testLogger())

	outcome, err := svc.Remove(context.Background(), session.ID, ActivityActor{ID: 1, Role: "TEACHER"})
	require.NoError(t, err)
	require.True(t, outcome.Deleted)
	require.Equal(t, []uint{session.ID}, repo.deleted)
}

func TestSessionServiceRecordAttendanceUpserts(t *testing.T) {
	repo := newFakeSessionRepo()
	session := repo.add(models.Session{Title: "독해 2"}, repository.SessionDependents{})
	svc := NewSessionService(repo, testValidator(), nil, testLogger())

	actor := ActivityActor{ID: 9, Role: "TEACHER"}

	records, err := svc.RecordAttendance(context.Background(), session.ID, dto.AttendanceRequest{
		Entries: []dto.AttendanceEntry{{StudentID: 1, Status: models.AttendanceLate}},
	}, actor)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, models.AttendanceLate, records[0].Status)
	require.Equal(t, uint(9), records[0].CheckedBy)

	records, err = svc.RecordAttendance(context.Background(), session.ID, dto.AttendanceRequest{
		Entries: []dto.AttendanceEntry{{StudentID: 1, Status: models.AttendancePresent, Note: "정정"}},
	}, actor)
	require.NoError(t, err)
	require.Len(t, records, 1, "same student must update, not duplicate")
	require.Equal(t, models.AttendancePresent, records[0].Status)
}

func TestSessionServiceRecordAttendanceRejectsBadStatus(t *testing.T) {
	repo := newFakeSessionRepo()
	session := repo.add(models.Session{Title: "단어 시험"}, repository.SessionDependents{})
	svc := NewSessionService(repo, testValidator(), nil, testLogger())

	_, err := svc.RecordAttendance(context.Background(), session.ID, dto.AttendanceRequest{
		Entries: []dto.AttendanceEntry{{StudentID: 1, Status: "NAPPING"}},
	}, ActivityActor{ID: 1, Role: "TEACHER"})
	require.Error(t, err)
}

func TestSessionServiceCreateStartsScheduled(t *testing.T) {
	repo := newFakeSessionRepo()
	svc := NewSessionService(repo, testValidator(), nil, testLogger())

	start := time.Now().Add(24 * time.Hour)
	resp, err := svc.Create(context.Background(), dto.SessionCreateRequest{
		ClassID:  1,
		Title:    "1주차",
		StartsAt: start,
		EndsAt:   start.Add(2 * time.Hour),
	}, ActivityActor{ID: 1, Role: "TEACHER"})
	require.NoError(t, err)
	require.Equal(t, models.SessionScheduled, resp.Status)
}
