package models

import "time"

// Enrollment status values for a student.
const (
	EnrollmentEnrolled = "ENROLLED"
	EnrollmentWaiting  = "WAITING"
	EnrollmentLeft     = "LEFT"
)

// Management status values for a student. Transitions between them are
// audited through StatusLog entries.
const (
	ManagementNormal  = "NORMAL"
	ManagementCaution = "CAUTION"
)

// Student is a learner registered at the academy. The login identifier is
// derived from the name and phone number at registration; the school grade
// is always computed from the birth date and never persisted.
type Student struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	UserID           uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	User             User      `json:"-"`
	LoginID          string    `gorm:"size:255;uniqueIndex;not null" json:"login_id"`
	Name             string    `gorm:"size:255;not null" json:"name"`
	BirthDate        time.Time `gorm:"not null" json:"birth_date"`
	Gender           string    `gorm:"size:8;not null" json:"gender"`
	School           string    `gorm:"size:255" json:"school"`
	Phone            string    `gorm:"size:32;not null" json:"phone"`
	EnrollmentStatus string    `gorm:"size:16;not null;default:ENROLLED" json:"enrollment_status"`
	ManagementStatus string    `gorm:"size:16;not null;default:NORMAL" json:"management_status"`
	ParentID         *uint     `gorm:"index" json:"parent_id"`
	Parent           *User     `gorm:"foreignKey:ParentID" json:"-"`
	Tags             []Tag     `gorm:"many2many:student_tags" json:"tags"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// StatusLog is an append-only audit record of a management-status change.
// Rows are only ever inserted, in the same transaction as the student
// update they describe.
type StatusLog struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	StudentID      uint      `gorm:"index;not null" json:"student_id"`
	PreviousStatus string    `gorm:"size:16;not null" json:"previous_status"`
	NewStatus      string    `gorm:"size:16;not null" json:"new_status"`
	Reason         string    `gorm:"type:text;not null" json:"reason"`
	ChangedByID    uint      `gorm:"not null" json:"changed_by_id"`
	ChangedBy      User      `gorm:"foreignKey:ChangedByID" json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}
