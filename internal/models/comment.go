// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment is a reply on a post. Deleting the post or the owning profile
// deletes the comment (ON DELETE CASCADE).
type Comment struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Content   string         `gorm:"not null" json:"content"`
	ProfileID uint           `gorm:"not null" json:"profile_id"`
	PostID    uint           `gorm:"not null;index" json:"post_id"`
	Profile   Profile        `gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE" json:"profile"`
	Post      Post           `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"post,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
