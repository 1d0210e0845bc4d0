package repository

import (
	"context"
	"errors"

	"github.com/zfogg/inkwell/backend/internal/models"
	"gorm.io/gorm"
)

// EventRepository handles events and their registrations
type EventRepository interface {
	CreateEvent(ctx context.Context, event *models.Event) error
	GetEvent(ctx context.Context, eventID string) (*models.Event, error)
	CreateRegistration(ctx context.Context, registration *models.Registration) error
	ListRegistrations(ctx context.Context, eventID string) ([]*models.Registration, error)
}

type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) CreateEvent(ctx context.Context, event *models.Event) error {
	if event == nil {
		return ErrInvalidInput
	}
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *eventRepository) GetEvent(ctx context.Context, eventID string) (*models.Event, error) {
	var event models.Event
	err := r.db.WithContext(ctx).Where("id = ?", eventID).First(&event).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// CreateRegistration inserts the registration and bumps the event's registration count
// in one transaction
func (r *eventRepository) CreateRegistration(ctx context.Context, registration *models.Registration) error {
	if registration == nil || registration.EventID == "" {
		return ErrInvalidInput
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(registration).Error; err != nil {
			return err
		}
		result := tx.Model(&models.Event{}).
			Where("id = ?", registration.EventID).
			UpdateColumn("registration_count", gorm.Expr("registration_count + 1"))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *eventRepository) ListRegistrations(ctx context.Context, eventID string) ([]*models.Registration, error) {
	var registrations []*models.Registration
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("registered_at ASC").
		Find(&registrations).Error
	return registrations, err
}
