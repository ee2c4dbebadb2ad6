package service

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hagwonlab/hagwon-api/internal/auth"
	"github.com/hagwonlab/hagwon-api/internal/dto"
	"github.com/hagwonlab/hagwon-api/internal/models"
	"github.com/hagwonlab/hagwon-api/internal/repository"
	"github.com/hagwonlab/hagwon-api/pkg/identity"
)

type fakeStudentRepo struct {
	students   map[uint]models.Student
	logs       []models.StatusLog
	nextID     uint
	lastFilter repository.StudentFilter
	failCreate error
}

func newFakeStudentRepo() *fakeStudentRepo {
	return &fakeStudentRepo{students: make(map[uint]models.Student)}
}

func (f *fakeStudentRepo) List(_ context.Context, filter repository.StudentFilter) ([]models.Student, int64, error) {
	f.lastFilter = filter
	out := make([]models.Student, 0, len(f.students))
	for _, student := range f.students {
		out = append(out, student)
	}
	return out, int64(len(out)), nil
}

func (f *fakeStudentRepo) GetByID(_ context.Context, id uint) (models.Student, error) {
	student, ok := f.students[id]
	if !ok {
		return models.Student{}, gorm.ErrRecordNotFound
	}
	return student, nil
}

func (f *fakeStudentRepo) ExistsByLoginID(_ context.Context, loginID string) (bool, error) {
	for _, student := range f.students {
		if student.LoginID == loginID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStudentRepo) CreateWithUser(_ context.Context, user *models.User, student *models.Student, _ []uint) error {
	if f.failCreate != nil {
		return f.failCreate
	}
	f.nextID++
	user.ID = f.nextID
	student.ID = f.nextID
	student.UserID = user.ID
	student.User = *user
	f.students[student.ID] = *student
	return nil
}

func (f *fakeStudentRepo) Update(_ context.Context, id uint, updates map[string]interface{}, _ *[]uint) (models.Student, error) {
	student, ok := f.students[id]
	if !ok {
		return models.Student{}, gorm.ErrRecordNotFound
	}
	if name, ok := updates["name"].(string); ok {
		student.Name = name
	}
	if status, ok := updates["enrollment_status"].(string); ok {
		student.EnrollmentStatus = status
	}
	f.students[id] = student
	return student, nil
}

func (f *fakeStudentRepo) Delete(_ context.Context, id uint) error {
	if _, ok := f.students[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.students, id)
	return nil
}

func (f *fakeStudentRepo) TransitionStatus(_ context.Context, id uint, newStatus, reason string, actorID uint) (models.Student, models.StatusLog, error) {
	student, ok := f.students[id]
	if !ok {
		return models.Student{}, models.StatusLog{}, gorm.ErrRecordNotFound
	}
	if student.ManagementStatus == newStatus {
		return models.Student{}, models.StatusLog{}, repository.ErrStatusUnchanged
	}
	log := models.StatusLog{
		StudentID:      id,
		PreviousStatus: student.ManagementStatus,
		NewStatus:      newStatus,
		Reason:         reason,
		ChangedByID:    actorID,
	}
	student.ManagementStatus = newStatus
	f.students[id] = student
	f.logs = append(f.logs, log)
	return student, log, nil
}

func (f *fakeStudentRepo) ListStatusLogs(_ context.Context, studentID uint) ([]models.StatusLog, error) {
	out := make([]models.StatusLog, 0)
	for _, log := range f.logs {
		if log.StudentID == studentID {
			out = append(out, log)
		}
	}
	return out, nil
}

func newStudentService(repo repository.StudentRepository, directory identity.Client) StudentService {
	return NewStudentService(repo, directory, testValidator(), nil, testLogger())
}

func TestStudentServiceCreateDerivesCredentials(t *testing.T) {
	repo := newFakeStudentRepo()
	directory := identity.NewLocalDirectory()
	svc := newStudentService(repo, directory)

	resp, err := svc.Create(context.Background(), dto.StudentCreateRequest{
		Name:      "Kim",
		BirthDate: "2012-03-14",
		Gender:    "MALE",
		Phone:     "010-1234-56789",
	}, ActivityActor{ID: 1, Role: "ADMIN"})
	require.NoError(t, err)

	require.Equal(t, "Kim56789", resp.Student.LoginID)
	require.Regexp(t, regexp.MustCompile(`^\d{6}3$`), resp.InitialPassword)
	require.Equal(t, "1203143", resp.InitialPassword)
	require.Equal(t, models.ManagementNormal, resp.Student.ManagementStatus)
	require.NotEmpty(t, resp.Student.Grade, "grade derived for the current year")
}

func TestStudentServiceCreateRejectsDuplicateLoginID(t *testing.T) {
	repo := newFakeStudentRepo()
	directory := identity.NewLocalDirectory()
	svc := newStudentService(repo, directory)

	req := dto.StudentCreateRequest{Name: "Kim", BirthDate: "2012-03-14", Gender: "MALE", Phone: "010-1234-56789"}

	_, err := svc.Create(context.Background(), req, ActivityActor{ID: 1, Role: "ADMIN"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), req, ActivityActor{ID: 1, Role: "ADMIN"})
	require.ErrorIs(t, err, ErrLoginIDTaken)
}

func TestStudentServiceCreateCompensatesOnLocalFailure(t *testing.T) {
	repo := newFakeStudentRepo()
	repo.failCreate = errors.New("constraint violation")
	directory := identity.NewLocalDirectory()
	svc := newStudentService(repo, directory)

	_, err := svc.Create(context.Background(), dto.StudentCreateRequest{
		Name:      "Kim",
		BirthDate: "2012-03-14",
		Gender:    "MALE",
		Phone:     "010-1234-56789",
	}, ActivityActor{ID: 1, Role: "ADMIN"})
	require.Error(t, err)

	// the directory account must be gone, so the same student can be
	// registered again once the local problem is fixed
	repo.failCreate = nil
	_, err = svc.Create(context.Background(), dto.StudentCreateRequest{
		Name:      "Kim",
		BirthDate: "2012-03-14",
		Gender:    "MALE",
		Phone:     "010-1234-56789",
	}, ActivityActor{ID: 1, Role: "ADMIN"})
	require.NoError(t, err)
}

func TestStudentServiceCreateDirectoryUnavailable(t *testing.T) {
	repo := newFakeStudentRepo()
	directory := identity.NewLocalDirectory()
	directory.FailNext(identity.ErrUnavailable)
	svc := newStudentService(repo, directory)

	_, err := svc.Create(context.Background(), dto.StudentCreateRequest{
		Name:      "Kim",
		BirthDate: "2012-03-14",
		Gender:    "MALE",
		Phone:     "010-1234-56789",
	}, ActivityActor{ID: 1, Role: "ADMIN"})
	require.ErrorIs(t, err, ErrIdentityUnavailable)
	require.Empty(t, repo.students, "no local record without a directory account")
}

func TestStudentServiceListScopesByRole(t *testing.T) {
	repo := newFakeStudentRepo()
	svc := newStudentService(repo, identity.NewLocalDirectory())

	_, err := svc.List(context.Background(), auth.Principal{ID: 7, Role: auth.RoleStudent}, dto.StudentListRequest{})
	require.NoError(t, err)
	require.Equal(t, uint(7), repo.lastFilter.OwnerUserID)

	_, err = svc.List(context.Background(), auth.Principal{ID: 8, Role: auth.RoleParent}, dto.StudentListRequest{})
	require.NoError(t, err)
	require.Equal(t, uint(8), repo.lastFilter.ParentUserID)

	_, err = svc.List(context.Background(), auth.Principal{ID: 9, Role: auth.RoleAssistant}, dto.StudentListRequest{})
	require.NoError(t, err)
	require.Equal(t, uint(9), repo.lastFilter.AssistantUserID)

	_, err = svc.List(context.Background(), auth.Principal{ID: 10, Role: auth.RoleTeacher}, dto.StudentListRequest{})
	require.NoError(t, err)
	require.Zero(t, repo.lastFilter.OwnerUserID)
	require.Zero(t, repo.lastFilter.ParentUserID)
	require.Zero(t, repo.lastFilter.AssistantUserID)
}

func TestStudentServiceGetHidesUnlinkedRecords(t *testing.T) {
	repo := newFakeStudentRepo()
	parentID := uint(44)
	repo.students[1] = models.Student{
		ID:        1,
		UserID:    20,
		ParentID:  &parentID,
		BirthDate: time.Date(2012, 3, 14, 0, 0, 0, 0, time.UTC),
	}
	svc := newStudentService(repo, identity.NewLocalDirectory())

	_, err := svc.Get(context.Background(), auth.Principal{ID: 20, Role: auth.RoleStudent}, 1)
	require.NoError(t, err, "students read their own record")

	_, err = svc.Get(context.Background(), auth.Principal{ID: 44, Role: auth.RoleParent}, 1)
	require.NoError(t, err, "parents read linked children")

	_, err = svc.Get(context.Background(), auth.Principal{ID: 45, Role: auth.RoleParent}, 1)
	require.ErrorIs(t, err, ErrStudentNotFound, "unlinked parents see not-found, not forbidden")
}

func TestStudentServiceChangeStatusRejectsNoop(t *testing.T) {
	repo := newFakeStudentRepo()
	repo.students[1] = models.Student{ID: 1, ManagementStatus: models.ManagementNormal}
	svc := newStudentService(repo, identity.NewLocalDirectory())

	resp, err := svc.ChangeStatus(context.Background(), 1, dto.StudentStatusRequest{
		NewStatus: models.ManagementCaution,
		Reason:    "잦은 결석",
	}, ActivityActor{ID: 2, Role: "TEACHER"})
	require.NoError(t, err)
	require.Equal(t, models.ManagementNormal, resp.StatusLog.PreviousStatus)
	require.Equal(t, models.ManagementCaution, resp.Student.ManagementStatus)

	_, err = svc.ChangeStatus(context.Background(), 1, dto.StudentStatusRequest{
		NewStatus: models.ManagementCaution,
		Reason:    "중복 전환",
	}, ActivityActor{ID: 2, Role: "TEACHER"})
	require.ErrorIs(t, err, ErrStatusUnchanged)
	require.Len(t, repo.logs, 1, "rejected transition must not log")
}

func TestStudentServiceChangeStatusRejectsBlankReason(t *testing.T) {
	repo := newFakeStudentRepo()
	repo.students[1] = models.Student{ID: 1, ManagementStatus: models.ManagementNormal}
	svc := newStudentService(repo, identity.NewLocalDirectory())

	_, err := svc.ChangeStatus(context.Background(), 1, dto.StudentStatusRequest{
		NewStatus: models.ManagementCaution,
		Reason:    "   ",
	}, ActivityActor{ID: 2, Role: "TEACHER"})

	var validationErrors validator.ValidationErrors
	require.ErrorAs(t, err, &validationErrors)
	require.Empty(t, repo.logs, "rejected transition must not log")
}
