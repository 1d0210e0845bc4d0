package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/zfogg/inkwell/backend/internal/errors"
	"github.com/zfogg/inkwell/backend/internal/models"
)

// ChartDays is the width of the daily views window
const ChartDays = 7

// DailyViews is one bar of the views chart
type DailyViews struct {
	Day   string `json:"day"`
	Views int64  `json:"views"`
}

// GetDailyViews returns one entry per day for the trailing week, oldest first.
// A day's views are the view counts of the caller's posts created that day (UTC).
func (a *Aggregator) GetDailyViews(ctx context.Context, caller *models.User) ([]DailyViews, error) {
	if caller == nil {
		return nil, errors.Unauthenticated("")
	}

	today := truncateDay(a.now())
	start := today.AddDate(0, 0, -(ChartDays - 1))

	posts, err := a.posts.ListByAuthorSince(ctx, caller.ID, start)
	if err != nil {
		return nil, fmt.Errorf("daily views: %w", err)
	}

	perDay := make(map[time.Time]int64, ChartDays)
	for _, p := range posts {
		perDay[truncateDay(p.CreatedAt)] += p.ViewCount
	}

	chart := make([]DailyViews, 0, ChartDays)
	for i := ChartDays - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		views := perDay[day]
		if a.placeholderViews {
			// TODO: drop once per-day view events are recorded
			views = max(views, int64(a.randIntN(100)))
		}
		chart = append(chart, DailyViews{
			Day:   day.Weekday().String()[:3],
			Views: views,
		})
	}
	return chart, nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
