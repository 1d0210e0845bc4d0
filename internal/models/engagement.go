package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment belongs to one post. The author name and image are a snapshot taken
// when the comment was written and are not updated on profile changes.
type Comment struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	PostID         string    `gorm:"not null;index;size:36" json:"post_id"`
	AuthorID       string    `gorm:"not null;index;size:36" json:"author_id"`
	AuthorName     string    `gorm:"not null" json:"author_name"`
	AuthorImageURL string    `json:"author_image_url,omitempty"`
	Content        string    `gorm:"type:text;not null" json:"content"`
	CreatedAt      time.Time `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// BeforeCreate assigns the primary key
func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	assignID(&c.ID)
	return nil
}

// Like records that a user likes a post. At most one row exists per (post, user).
type Like struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	PostID    string    `gorm:"not null;size:36;uniqueIndex:idx_likes_post_user;index" json:"post_id"`
	UserID    string    `gorm:"not null;size:36;uniqueIndex:idx_likes_post_user;index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate assigns the primary key
func (l *Like) BeforeCreate(tx *gorm.DB) error {
	assignID(&l.ID)
	return nil
}

// Follow records that FollowerID follows FollowingID. At most one row exists per pair.
type Follow struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	FollowerID  string    `gorm:"not null;size:36;uniqueIndex:idx_follows_relationship;index" json:"follower_id"`
	FollowingID string    `gorm:"not null;size:36;uniqueIndex:idx_follows_relationship;index" json:"following_id"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}

// BeforeCreate assigns the primary key
func (f *Follow) BeforeCreate(tx *gorm.DB) error {
	assignID(&f.ID)
	return nil
}
