package models

import "time"

// Class is a recurring course offered by the academy. A class with enrolled
// students or recorded sessions is never hard-deleted; it is deactivated
// instead so historical attendance keeps its anchor.
type Class struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"size:255;not null" json:"name"`
	Description   string    `gorm:"type:text" json:"description"`
	Cost          int       `json:"cost"`
	IsActive      bool      `gorm:"not null;default:true" json:"is_active"`
	MainTeacherID uint      `gorm:"index;not null" json:"main_teacher_id"`
	MainTeacher   Staff     `gorm:"foreignKey:MainTeacherID" json:"-"`
	Assistants    []Staff   `gorm:"many2many:class_assistants" json:"-"`
	Students      []Student `gorm:"many2many:class_enrollments" json:"-"`
	Tags          []Tag     `gorm:"many2many:class_tags" json:"tags"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
