package dto

import (
	"time"

	"github.com/hagwonlab/hagwon-api/internal/models"
)

// SessionCreateRequest carries fields for a new scheduled session.
type SessionCreateRequest struct {
	ClassID  uint      `json:"class_id" validate:"required"`
	Title    string    `json:"title" validate:"required,max=255"`
	Room     string    `json:"room" validate:"omitempty,max=64"`
	StartsAt time.Time `json:"starts_at" validate:"required"`
	EndsAt   time.Time `json:"ends_at" validate:"required,gtfield=StartsAt"`
	TagIDs   []uint    `json:"tag_ids"`
}

// SessionUpdateRequest carries optional session field updates.
type SessionUpdateRequest struct {
	Title    *string    `json:"title" validate:"omitempty,min=1,max=255"`
	Room     *string    `json:"room" validate:"omitempty,max=64"`
	StartsAt *time.Time `json:"starts_at"`
	EndsAt   *time.Time `json:"ends_at"`
	Status   *string    `json:"status" validate:"omitempty,oneof=SCHEDULED COMPLETED CANCELLED"`
	TagIDs   *[]uint    `json:"tag_ids"`
}

// SessionListRequest narrows and pages the session listing.
type SessionListRequest struct {
	Page     int
	PageSize int
	ClassID  uint
	Status   string
}

// SessionResponse is the public view of a session.
type SessionResponse struct {
	ID        uint          `json:"id"`
	ClassID   uint          `json:"class_id"`
	Title     string        `json:"title"`
	Room      string        `json:"room"`
	StartsAt  time.Time     `json:"starts_at"`
	EndsAt    time.Time     `json:"ends_at"`
	Status    string        `json:"status"`
	Tags      []TagResponse `json:"tags"`
	CreatedAt time.Time     `json:"created_at"`
}

// NewSessionResponse maps a session model to its public view.
func NewSessionResponse(session models.Session) SessionResponse {
	return SessionResponse{
		ID:        session.ID,
		ClassID:   session.ClassID,
		Title:     session.Title,
		Room:      session.Room,
		StartsAt:  session.StartsAt,
		EndsAt:    session.EndsAt,
		Status:    session.Status,
		Tags:      NewTagResponses(session.Tags),
		CreatedAt: session.CreatedAt,
	}
}

// SessionListResponse pages session results.
type SessionListResponse struct {
	Items      []SessionResponse `json:"items"`
	Pagination PaginationMeta    `json:"pagination"`
}

// AttendanceEntry is a single student check within a bulk attendance call.
type AttendanceEntry struct {
	StudentID uint   `json:"student_id" validate:"required"`
	Status    string `json:"status" validate:"required,oneof=PRESENT LATE ABSENT EXCUSED"`
	Note      string `json:"note" validate:"omitempty,max=512"`
}

// AttendanceRequest records attendance for a session in bulk. Re-checking
// a student updates the existing row.
type AttendanceRequest struct {
	Entries []AttendanceEntry `json:"entries" validate:"required,min=1,dive"`
}

// AttendanceResponse is the public view of an attendance record.
type AttendanceResponse struct {
	ID        uint      `json:"id"`
	SessionID uint      `json:"session_id"`
	StudentID uint      `json:"student_id"`
	Status    string    `json:"status"`
	Note      string    `json:"note,omitempty"`
	CheckedBy uint      `json:"checked_by"`
	CheckedAt time.Time `json:"checked_at"`
}

// NewAttendanceResponse maps an attendance model to its public view.
func NewAttendanceResponse(attendance models.Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:        attendance.ID,
		SessionID: attendance.SessionID,
		StudentID: attendance.StudentID,
		Status:    attendance.Status,
		Note:      attendance.Note,
		CheckedBy: attendance.CheckedByID,
		CheckedAt: attendance.CheckedAt,
	}
}
