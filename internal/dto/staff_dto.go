package dto

import "github.com/hagwonlab/hagwon-api/internal/models"

// StaffResponse is the public view of a teaching profile.
type StaffResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	RoleLevel   string `json:"role_level"`
	Phone       string `json:"phone,omitempty"`
	Specialties string `json:"specialties,omitempty"`
}

// NewStaffResponse maps a staff model to its public view.
func NewStaffResponse(staff models.Staff) StaffResponse {
	return StaffResponse{
		ID:          staff.ID,
		Name:        staff.Name,
		Email:       staff.User.Email,
		RoleLevel:   staff.User.RoleLevel,
		Phone:       staff.Phone,
		Specialties: staff.Specialties,
	}
}

// StaffBrief is the compact staff reference embedded in class views.
type StaffBrief struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// NewStaffBrief maps a staff model to its compact reference.
func NewStaffBrief(staff models.Staff) StaffBrief {
	return StaffBrief{ID: staff.ID, Name: staff.Name}
}
