package models

import "time"

// Staff is a teaching profile attached to a user with a staff role level
// (admin through assistant).
type Staff struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	User        User      `json:"-"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Phone       string    `gorm:"size:32" json:"phone"`
	Specialties string    `gorm:"size:255" json:"specialties"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName pins the table name; the default pluraliser mangles "staff".
func (Staff) TableName() string {
	return "staff"
}
