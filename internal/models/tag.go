package models

import "time"

// Tag labels students, classes, sessions, and materials. Names are unique;
// a tag referenced by any entity cannot be deleted.
type Tag struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:64;uniqueIndex;not null" json:"name"`
	Color       string    `gorm:"size:16" json:"color"`
	Category    string    `gorm:"size:64" json:"category"`
	Description string    `gorm:"size:512" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
