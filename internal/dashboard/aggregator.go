// Package dashboard computes an author's read-only rollups: totals, recent
// activity, a daily views chart and per-event check-in stats.
package dashboard

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/zfogg/inkwell/backend/internal/errors"
	"github.com/zfogg/inkwell/backend/internal/models"
	"github.com/zfogg/inkwell/backend/internal/repository"
	"golang.org/x/sync/errgroup"
)

// Default page sizes
const (
	DefaultPostsLimit    = 10
	DefaultActivityLimit = 10
	// RecentFollowsLimit caps follow events considered for the activity timeline
	RecentFollowsLimit = 5
)

// Aggregator computes dashboard rollups on demand
type Aggregator struct {
	posts    repository.PostRepository
	users    repository.UserRepository
	follows  repository.FollowRepository
	comments repository.CommentRepository
	events   repository.EventRepository

	placeholderViews bool
	randIntN         func(n int) int
	now              func() time.Time
}

// NewAggregator creates a dashboard aggregator. When placeholderViews is set,
// the daily views chart pads quiet days with a random figure for demos.
func NewAggregator(
	posts repository.PostRepository,
	users repository.UserRepository,
	follows repository.FollowRepository,
	comments repository.CommentRepository,
	events repository.EventRepository,
	placeholderViews bool,
) *Aggregator {
	return &Aggregator{
		posts:            posts,
		users:            users,
		follows:          follows,
		comments:         comments,
		events:           events,
		placeholderViews: placeholderViews,
		randIntN:         rand.IntN,
		now:              time.Now,
	}
}

// Analytics are an author's lifetime totals. Views, likes and comments count published posts only.
type Analytics struct {
	TotalPosts     int   `json:"total_posts"`
	TotalDrafts    int   `json:"total_drafts"`
	TotalViews     int64 `json:"total_views"`
	TotalLikes     int64 `json:"total_likes"`
	TotalComments  int64 `json:"total_comments"`
	TotalFollowers int64 `json:"total_followers"`
}

// GetAnalytics totals the caller's posts and followers
func (a *Aggregator) GetAnalytics(ctx context.Context, caller *models.User) (*Analytics, error) {
	if caller == nil {
		return nil, errors.Unauthenticated("")
	}

	var (
		posts     []*models.Post
		followers int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		posts, err = a.posts.ListByAuthor(gctx, caller.ID, 0)
		return err
	})
	g.Go(func() error {
		var err error
		followers, err = a.follows.CountFollowers(gctx, caller.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("analytics: %w", err)
	}

	analytics := &Analytics{TotalFollowers: followers}
	for _, p := range posts {
		switch p.Status {
		case models.PostStatusPublished:
			analytics.TotalPosts++
			analytics.TotalViews += p.ViewCount
			analytics.TotalLikes += p.LikeCount
			analytics.TotalComments += p.CommentCount
		case models.PostStatusDraft:
			analytics.TotalDrafts++
		}
	}
	return analytics, nil
}

// GetPostsWithAnalytics returns the caller's newest posts with their counters
func (a *Aggregator) GetPostsWithAnalytics(ctx context.Context, caller *models.User, limit int) ([]*models.Post, error) {
	if caller == nil {
		return nil, errors.Unauthenticated("")
	}
	if limit <= 0 {
		limit = DefaultPostsLimit
	}
	posts, err := a.posts.ListByAuthor(ctx, caller.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("posts with analytics: %w", err)
	}
	return posts, nil
}
