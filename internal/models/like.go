package models

import "time"

// Like records that a profile liked a post.
// The combination of ProfileID and PostID must be unique; the database
// rejects a second like for the same pair. Likes are hard-deleted on unlike
// so the unique index and count subqueries stay exact.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProfileID uint      `gorm:"not null;uniqueIndex:idx_profile_post" json:"profile_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_profile_post" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	Profile Profile `gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE" json:"profile"`
	Post    Post    `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"post"`
}
