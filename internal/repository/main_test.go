package repository

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hagwonlab/hagwon-api/internal/models"
)

var testDBSeq atomic.Int64

// setupTestDB opens a fresh in-memory database per test so state never
// leaks between cases.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:repotest%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Student{},
		&models.StatusLog{},
		&models.Staff{},
		&models.Class{},
		&models.Session{},
		&models.Attendance{},
		&models.Material{},
		&models.Assignment{},
		&models.Submission{},
		&models.Tag{},
		&models.ActivityLog{},
	))

	return db
}

func seedStudent(t *testing.T, db *gorm.DB, name, loginID string, tags ...models.Tag) models.Student {
	t.Helper()

	user := models.User{Email: loginID + "@students.local", Name: name, RoleLevel: "STUDENT"}
	require.NoError(t, db.Create(&user).Error)

	student := models.Student{
		UserID:           user.ID,
		LoginID:          loginID,
		Name:             name,
		BirthDate:        time.Date(2012, 3, 14, 0, 0, 0, 0, time.UTC),
		Gender:           "MALE",
		Phone:            "010-1234-5678",
		EnrollmentStatus: models.EnrollmentEnrolled,
		ManagementStatus: models.ManagementNormal,
		Tags:             tags,
	}
	require.NoError(t, db.Create(&student).Error)
	return student
}

func seedStaff(t *testing.T, db *gorm.DB, name, role string) models.Staff {
	t.Helper()

	user := models.User{Email: name + "@staff.local", Name: name, RoleLevel: role}
	require.NoError(t, db.Create(&user).Error)

	staff := models.Staff{UserID: user.ID, Name: name}
	require.NoError(t, db.Create(&staff).Error)
	return staff
}

func seedTag(t *testing.T, db *gorm.DB, name string) models.Tag {
	t.Helper()

	tag := models.Tag{Name: name}
	require.NoError(t, db.Create(&tag).Error)
	return tag
}
