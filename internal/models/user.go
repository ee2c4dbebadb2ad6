package models

import "time"

// User is an authenticated principal: staff, student, or parent. The role
// level mirrors the identity directory and is the single source for
// permission checks.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	RoleLevel string    `gorm:"size:32;not null" json:"role_level"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
