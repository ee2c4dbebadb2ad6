package dto

import (
	"time"

	"github.com/hagwonlab/hagwon-api/internal/models"
)

// StudentCreateRequest carries fields for registering a new student.
// Credentials are derived server-side from name, phone, birth date, and
// gender; they are never supplied by the caller.
type StudentCreateRequest struct {
	Name      string `json:"name" validate:"required,max=255"`
	BirthDate string `json:"birth_date" validate:"required,datetime=2006-01-02"`
	Gender    string `json:"gender" validate:"required,oneof=MALE FEMALE"`
	School    string `json:"school" validate:"omitempty,max=255"`
	Phone     string `json:"phone" validate:"required,max=32"`
	ParentID  *uint  `json:"parent_id"`
	TagIDs    []uint `json:"tag_ids"`
}

// StudentUpdateRequest carries optional student field updates. A nil slice
// of tag IDs leaves associations untouched; a non-nil slice replaces them.
type StudentUpdateRequest struct {
	Name             *string `json:"name" validate:"omitempty,min=1,max=255"`
	School           *string `json:"school" validate:"omitempty,max=255"`
	Phone            *string `json:"phone" validate:"omitempty,max=32"`
	EnrollmentStatus *string `json:"enrollment_status" validate:"omitempty,oneof=ENROLLED WAITING LEFT"`
	ParentID         *uint   `json:"parent_id"`
	TagIDs           *[]uint `json:"tag_ids"`
}

// StudentStatusRequest carries a management-status transition.
type StudentStatusRequest struct {
	NewStatus string `json:"new_status" validate:"required,oneof=NORMAL CAUTION"`
	Reason    string `json:"reason" validate:"required"`
}

// StudentListRequest narrows and pages the student listing.
type StudentListRequest struct {
	Page     int
	PageSize int
	Search   string
	Status   string
	TagIDs   []uint
}

// StudentResponse is the public view of a student. Grade is derived from
// the birth date at response time.
type StudentResponse struct {
	ID               uint          `json:"id"`
	LoginID          string        `json:"login_id"`
	Name             string        `json:"name"`
	Email            string        `json:"email"`
	BirthDate        time.Time     `json:"birth_date"`
	Gender           string        `json:"gender"`
	School           string        `json:"school"`
	Phone            string        `json:"phone"`
	Grade            string        `json:"grade"`
	EnrollmentStatus string        `json:"enrollment_status"`
	ManagementStatus string        `json:"management_status"`
	ParentID         *uint         `json:"parent_id"`
	Tags             []TagResponse `json:"tags"`
	CreatedAt        time.Time     `json:"created_at"`
}

// NewStudentResponse maps a student model to its public view with the
// derived grade attached.
func NewStudentResponse(student models.Student, grade string) StudentResponse {
	return StudentResponse{
		ID:               student.ID,
		LoginID:          student.LoginID,
		Name:             student.Name,
		Email:            student.User.Email,
		BirthDate:        student.BirthDate,
		Gender:           student.Gender,
		School:           student.School,
		Phone:            student.Phone,
		Grade:            grade,
		EnrollmentStatus: student.EnrollmentStatus,
		ManagementStatus: student.ManagementStatus,
		ParentID:         student.ParentID,
		Tags:             NewTagResponses(student.Tags),
		CreatedAt:        student.CreatedAt,
	}
}

// StudentCreateResponse returns the registered student together with the
// generated initial password, shown exactly once.
type StudentCreateResponse struct {
	Student         StudentResponse `json:"student"`
	InitialPassword string          `json:"initial_password"`
}

// StudentListResponse pages student results.
type StudentListResponse struct {
	Items      []StudentResponse `json:"items"`
	Pagination PaginationMeta    `json:"pagination"`
}

// StatusLogResponse is the public view of a status transition entry.
type StatusLogResponse struct {
	ID             uint      `json:"id"`
	StudentID      uint      `json:"student_id"`
	PreviousStatus string    `json:"previous_status"`
	NewStatus      string    `json:"new_status"`
	Reason         string    `json:"reason"`
	ChangedByID    uint      `json:"changed_by_id"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewStatusLogResponse maps a status log model to its public view.
func NewStatusLogResponse(log models.StatusLog) StatusLogResponse {
	return StatusLogResponse{
		ID:             log.ID,
		StudentID:      log.StudentID,
		PreviousStatus: log.PreviousStatus,
		NewStatus:      log.NewStatus,
		Reason:         log.Reason,
		ChangedByID:    log.ChangedByID,
		CreatedAt:      log.CreatedAt,
	}
}

// StudentStatusResponse pairs the updated student with its audit entry.
type StudentStatusResponse struct {
	Student   StudentResponse   `json:"student"`
	StatusLog StatusLogResponse `json:"status_log"`
}
