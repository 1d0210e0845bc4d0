package models

import (
	"time"

	"gorm.io/gorm"
)

// Location is where an attendee is based, captured during onboarding
type Location struct {
	City    string `json:"city"`
	State   string `json:"state,omitempty"`
	Country string `json:"country"`
}

// User represents an author or reader, keyed by the identity provider's subject
type User struct {
	ID              string `gorm:"primaryKey;size:36" json:"id"`
	TokenIdentifier string `gorm:"uniqueIndex;not null" json:"-"`
	Email           string `json:"email"`
	Name            string `gorm:"not null;index" json:"name"`
	ImageURL        string `json:"image_url,omitempty"`

	// Onboarding
	HasCompletedOnboarding bool      `gorm:"default:false" json:"has_completed_onboarding"`
	Location               *Location `gorm:"type:text;serializer:json" json:"location,omitempty"`
	Interests              []string  `gorm:"type:text;serializer:json" json:"interests,omitempty"`

	// Organizer tracking
	FreeEventsCreated int `gorm:"default:0" json:"free_events_created"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Derived on read, never stored
	FollowerCount int64 `gorm:"-" json:"follower_count,omitempty"`
	PostCount     int64 `gorm:"-" json:"post_count,omitempty"`
}

// BeforeCreate assigns the primary key
func (u *User) BeforeCreate(tx *gorm.DB) error {
	assignID(&u.ID)
	return nil
}

// UserSummary is the public projection of a user embedded in other responses
type UserSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url,omitempty"`
}

// Summary returns the public projection of the user
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, ImageURL: u.ImageURL}
}
