package models

import "time"

// Material is a learning resource shared with classes. The file itself
// lives in external storage; only its URL is kept here.
type Material struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Content   string    `gorm:"type:text" json:"content"`
	FileURL   string    `gorm:"size:512" json:"file_url"`
	OwnerID   uint      `gorm:"index;not null" json:"owner_id"`
	Owner     Staff     `gorm:"foreignKey:OwnerID" json:"-"`
	Tags      []Tag     `gorm:"many2many:material_tags" json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
