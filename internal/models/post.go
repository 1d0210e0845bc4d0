package models

import (
	"time"

	"gorm.io/gorm"
)

// PostStatus is the lifecycle state of a post
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
)

// Valid reports whether s is a known status
func (s PostStatus) Valid() bool {
	return s == PostStatusDraft || s == PostStatusPublished
}

// Post is a blog entry. ViewCount, LikeCount and CommentCount are denormalized
// counters that track the view/like/comment ledgers.
type Post struct {
	ID         string `gorm:"primaryKey;size:36" json:"id"`
	Title      string `gorm:"not null" json:"title"`
	Content    string `gorm:"type:text;not null" json:"content"`
	Slug       string `gorm:"not null;index" json:"slug"`
	AuthorID   string `gorm:"not null;index;size:36" json:"author_id"`
	AuthorName string `gorm:"not null" json:"author_name"`

	Category      string   `json:"category,omitempty"`
	Tags          []string `gorm:"type:text;serializer:json" json:"tags,omitempty"`
	FeaturedImage string   `json:"featured_image,omitempty"`

	Status PostStatus `gorm:"not null;index;size:16" json:"status"`
	// ScheduledFor is advisory only; nothing publishes a post automatically
	ScheduledFor *time.Time `json:"scheduled_for,omitempty"`

	ViewCount    int64 `gorm:"not null;default:0" json:"view_count"`
	LikeCount    int64 `gorm:"not null;default:0" json:"like_count"`
	CommentCount int64 `gorm:"not null;default:0" json:"comment_count"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns the primary key
func (p *Post) BeforeCreate(tx *gorm.DB) error {
	assignID(&p.ID)
	return nil
}

// IsPublished reports whether the post is publicly visible
func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}

// EngagementScore weighs views, likes and comments for trending ranking
func (p *Post) EngagementScore() int64 {
	return p.ViewCount + 2*p.LikeCount + 3*p.CommentCount
}
