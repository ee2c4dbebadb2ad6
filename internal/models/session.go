package models

import "time"

// Session lifecycle states.
const (
	SessionScheduled = "SCHEDULED"
	SessionCompleted = "COMPLETED"
	SessionCancelled = "CANCELLED"
)

// Session is a single scheduled meeting of a class. Sessions with recorded
// attendance or assignments are cancelled instead of deleted.
type Session struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ClassID   uint      `gorm:"index;not null" json:"class_id"`
	Class     Class     `json:"-"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Room      string    `gorm:"size:64" json:"room"`
	StartsAt  time.Time `gorm:"not null" json:"starts_at"`
	EndsAt    time.Time `gorm:"not null" json:"ends_at"`
	Status    string    `gorm:"size:16;not null;default:SCHEDULED" json:"status"`
	Tags      []Tag     `gorm:"many2many:session_tags" json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Attendance check states.
const (
	AttendancePresent = "PRESENT"
	AttendanceLate    = "LATE"
	AttendanceAbsent  = "ABSENT"
	AttendanceExcused = "EXCUSED"
)

// Attendance records a single student's presence at a session. One row per
// session/student pair; repeated checks update in place.
type Attendance struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	SessionID   uint      `gorm:"not null;uniqueIndex:idx_attendance_session_student" json:"session_id"`
	StudentID   uint      `gorm:"not null;uniqueIndex:idx_attendance_session_student" json:"student_id"`
	Student     Student   `json:"-"`
	Status      string    `gorm:"size:16;not null" json:"status"`
	Note        string    `gorm:"size:512" json:"note"`
	CheckedByID uint      `gorm:"not null" json:"checked_by_id"`
	CheckedAt   time.Time `gorm:"not null" json:"checked_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
