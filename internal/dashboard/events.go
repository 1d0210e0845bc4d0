package dashboard

import (
	"context"
	"fmt"
	"math"

	"github.com/zfogg/inkwell/backend/internal/errors"
	"github.com/zfogg/inkwell/backend/internal/models"
	"github.com/zfogg/inkwell/backend/internal/util"
)

// EventStats summarize registrations and check-ins for one event
type EventStats struct {
	TotalRegistrations int     `json:"total_registrations"`
	CheckedInCount     int     `json:"checked_in_count"`
	PendingCount       int     `json:"pending_count"`
	Capacity           int     `json:"capacity"`
	CheckInRate        int     `json:"check_in_rate"`
	TotalRevenue       float64 `json:"total_revenue"`
	HoursUntilEvent    int64   `json:"hours_until_event"`
	IsEventToday       bool    `json:"is_event_today"`
	IsEventPast        bool    `json:"is_event_past"`
}

// EventDashboard is an event together with its stats
type EventDashboard struct {
	Event *models.Event `json:"event"`
	Stats EventStats    `json:"stats"`
}

// GetEventDashboard computes check-in stats for an event the caller organizes.
// Only confirmed registrations count; revenue is checked-in tickets times price for paid events.
func (a *Aggregator) GetEventDashboard(ctx context.Context, caller *models.User, eventID string) (*EventDashboard, error) {
	if caller == nil {
		return nil, errors.Unauthenticated("")
	}

	event, err := a.events.GetEvent(ctx, eventID)
	if err != nil {
		return nil, util.WrapNotFound(err, "event")
	}
	if event.OrganizerID != caller.ID {
		return nil, errors.Unauthorized("you are not authorized to view this dashboard")
	}

	registrations, err := a.events.ListRegistrations(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("event registrations: %w", err)
	}

	stats := EventStats{Capacity: event.Capacity}
	for _, r := range registrations {
		if r.Status != models.RegistrationConfirmed {
			continue
		}
		stats.TotalRegistrations++
		if r.CheckedIn {
			stats.CheckedInCount++
		}
	}
	stats.PendingCount = stats.TotalRegistrations - stats.CheckedInCount

	if event.TicketType == models.TicketTypePaid && event.TicketPrice != nil {
		stats.TotalRevenue = float64(stats.CheckedInCount) * *event.TicketPrice
	}
	if stats.TotalRegistrations > 0 {
		stats.CheckInRate = int(math.Round(float64(stats.CheckedInCount) / float64(stats.TotalRegistrations) * 100))
	}

	now := a.now()
	if until := event.StartDate.Sub(now); until > 0 {
		stats.HoursUntilEvent = int64(until.Hours())
	}
	today := truncateDay(now)
	stats.IsEventToday = !today.Before(truncateDay(event.StartDate)) && !today.After(truncateDay(event.EndDate))
	stats.IsEventPast = event.EndDate.Before(now)

	return &EventDashboard{Event: event, Stats: stats}, nil
}
