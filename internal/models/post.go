// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Post is a short text post published by a profile. Deleting the owning
// profile deletes the post; deleting the post deletes its likes and comments
// (both enforced by ON DELETE CASCADE at the database).
type Post struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	Content   string  `gorm:"type:text;not null" json:"content"`
	ProfileID uint    `gorm:"not null;index" json:"profile_id"`
	Profile   Profile `gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE" json:"profile"`
	// LikesCount is not persisted; computed at query time from like rows
	LikesCount int `gorm:"->" json:"likes_count"`
	// CommentsCount is not persisted; computed at query time from comment rows
	CommentsCount int `gorm:"->" json:"comments_count"`
	// Liked indicates whether the current requesting profile liked this post (computed)
	Liked     bool           `gorm:"->" json:"liked"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
