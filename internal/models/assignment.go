package models

import "time"

// Assignment is homework attached to a session.
type Assignment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	SessionID   uint      `gorm:"index;not null" json:"session_id"`
	Session     Session   `json:"-"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	DueDate     time.Time `gorm:"not null" json:"due_date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsPastDue returns true when the assignment deadline has already passed.
func (a Assignment) IsPastDue(reference time.Time) bool {
	return reference.After(a.DueDate)
}

// Submission lifecycle states.
const (
	SubmissionSubmitted = "SUBMITTED"
	SubmissionGraded    = "GRADED"
)

// Submission is a student's answer to an assignment. One row per
// assignment/student pair; concurrent grading is last-write-wins.
type Submission struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	AssignmentID uint       `gorm:"not null;uniqueIndex:idx_submission_assignment_student" json:"assignment_id"`
	Assignment   Assignment `json:"-"`
	StudentID    uint       `gorm:"not null;uniqueIndex:idx_submission_assignment_student" json:"student_id"`
	Student      Student    `json:"-"`
	Content      string     `gorm:"type:text" json:"content"`
	Status       string     `gorm:"size:16;not null;default:SUBMITTED" json:"status"`
	SubmittedAt  time.Time  `gorm:"not null" json:"submitted_at"`
	Score        *int       `json:"score"`
	Feedback     string     `gorm:"type:text" json:"feedback"`
	GradedByID   *uint      `json:"graded_by_id"`
	GradedAt     *time.Time `json:"graded_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
