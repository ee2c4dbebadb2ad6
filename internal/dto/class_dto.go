package dto

import (
	"time"

	"github.com/hagwonlab/hagwon-api/internal/models"
)

// ClassCreateRequest carries fields for a new class.
type ClassCreateRequest struct {
	Name          string `json:"name" validate:"required,max=255"`
	Description   string `json:"description"`
	Cost          int    `json:"cost" validate:"gte=0"`
	MainTeacherID uint   `json:"main_teacher_id" validate:"required"`
	AssistantIDs  []uint `json:"assistant_ids"`
	TagIDs        []uint `json:"tag_ids"`
}

// ClassUpdateRequest carries optional class field updates. Nil slices leave
// the respective associations untouched.
type ClassUpdateRequest struct {
	Name          *string `json:"name" validate:"omitempty,min=1,max=255"`
	Description   *string `json:"description"`
	Cost          *int    `json:"cost" validate:"omitempty,gte=0"`
	IsActive      *bool   `json:"is_active"`
	MainTeacherID *uint   `json:"main_teacher_id"`
	AssistantIDs  *[]uint `json:"assistant_ids"`
	TagIDs        *[]uint `json:"tag_ids"`
}

// ClassListRequest narrows and pages the class listing.
type ClassListRequest struct {
	Page       int
	PageSize   int
	Search     string
	ActiveOnly bool
}

// ClassResponse is the public view of a class.
type ClassResponse struct {
	ID           uint          `json:"id"`
	Name         string        `json:"name"`
	Description  string        `json:"description"`
	Cost         int           `json:"cost"`
	IsActive     bool          `json:"is_active"`
	MainTeacher  StaffBrief    `json:"main_teacher"`
	Assistants   []StaffBrief  `json:"assistants"`
	StudentCount int64         `json:"student_count"`
	SessionCount int64         `json:"session_count"`
	Tags         []TagResponse `json:"tags"`
	CreatedAt    time.Time     `json:"created_at"`
}

// NewClassResponse maps a class model to its public view.
func NewClassResponse(class models.Class, studentCount, sessionCount int64) ClassResponse {
	assistants := make([]StaffBrief, 0, len(class.Assistants))
	for _, assistant := range class.Assistants {
		assistants = append(assistants, NewStaffBrief(assistant))
	}

	return ClassResponse{
		ID:           class.ID,
		Name:         class.Name,
		Description:  class.Description,
		Cost:         class.Cost,
		IsActive:     class.IsActive,
		MainTeacher:  NewStaffBrief(class.MainTeacher),
		Assistants:   assistants,
		StudentCount: studentCount,
		SessionCount: sessionCount,
		Tags:         NewTagResponses(class.Tags),
		CreatedAt:    class.CreatedAt,
	}
}

// ClassListResponse pages class results.
type ClassListResponse struct {
	Items      []ClassResponse `json:"items"`
	Pagination PaginationMeta  `json:"pagination"`
}

// ClassEnrollRequest replaces the set of enrolled students.
type ClassEnrollRequest struct {
	StudentIDs []uint `json:"student_ids" validate:"required"`
}

// DeleteOutcome reports whether a removal request hard-deleted the entity
// or fell back to deactivation because dependents exist.
type DeleteOutcome struct {
	ID          uint   `json:"id"`
	Deleted     bool   `json:"deleted"`
	Deactivated bool   `json:"deactivated"`
	Message     string `json:"message"`
}
