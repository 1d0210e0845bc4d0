package models

import (
	"time"

	"gorm.io/gorm"
)

type TicketType string

const (
	TicketTypeFree TicketType = "free"
	TicketTypePaid TicketType = "paid"
)

type LocationType string

const (
	LocationPhysical LocationType = "physical"
	LocationOnline   LocationType = "online"
)

type RegistrationStatus string

const (
	RegistrationConfirmed RegistrationStatus = "confirmed"
	RegistrationCancelled RegistrationStatus = "cancelled"
)

// Event is a ticketed gathering organized by a user
type Event struct {
	ID            string `gorm:"primaryKey;size:36" json:"id"`
	Title         string `gorm:"not null" json:"title"`
	Description   string `gorm:"type:text" json:"description"`
	Slug          string `gorm:"index" json:"slug"`
	OrganizerID   string `gorm:"not null;index;size:36" json:"organizer_id"`
	OrganizerName string `json:"organizer_name"`

	Category string   `gorm:"index" json:"category"`
	Tags     []string `gorm:"type:text;serializer:json" json:"tags"`

	StartDate time.Time `gorm:"index" json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Timezone  string    `json:"timezone"`

	LocationType LocationType `gorm:"size:16" json:"location_type"`
	Venue        string       `json:"venue,omitempty"`
	Address      string       `json:"address,omitempty"`
	City         string       `json:"city"`
	State        string       `json:"state,omitempty"`
	Country      string       `json:"country"`

	Capacity          int        `json:"capacity"`
	TicketType        TicketType `gorm:"size:8" json:"ticket_type"`
	TicketPrice       *float64   `json:"ticket_price,omitempty"`
	RegistrationCount int        `gorm:"default:0" json:"registration_count"`

	CoverImage string `json:"cover_image,omitempty"`
	ThemeColor string `json:"theme_color,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns the primary key
func (e *Event) BeforeCreate(tx *gorm.DB) error {
	assignID(&e.ID)
	return nil
}

// Registration is a ticket held by a user for an event
type Registration struct {
	ID            string             `gorm:"primaryKey;size:36" json:"id"`
	EventID       string             `gorm:"not null;index;size:36" json:"event_id"`
	UserID        string             `gorm:"not null;index;size:36" json:"user_id"`
	AttendeeName  string             `json:"attendee_name"`
	AttendeeEmail string             `json:"attendee_email"`
	QRCode        string             `gorm:"uniqueIndex" json:"qr_code"`
	CheckedIn     bool               `gorm:"default:false" json:"checked_in"`
	CheckedInAt   *time.Time         `json:"checked_in_at,omitempty"`
	Status        RegistrationStatus `gorm:"size:16" json:"status"`
	RegisteredAt  time.Time          `json:"registered_at"`
}

// BeforeCreate assigns the primary key and the QR code
func (r *Registration) BeforeCreate(tx *gorm.DB) error {
	assignID(&r.ID)
	if r.QRCode == "" {
		r.QRCode = r.ID
	}
	if r.RegisteredAt.IsZero() {
		r.RegisteredAt = time.Now().UTC()
	}
	return nil
}
