// Package feed builds the post and user listings that surface content:
// the personalized feed, trending posts and suggested users.
package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/zfogg/inkwell/backend/internal/cache"
	"github.com/zfogg/inkwell/backend/internal/logger"
	"github.com/zfogg/inkwell/backend/internal/metrics"
	"github.com/zfogg/inkwell/backend/internal/models"
	"github.com/zfogg/inkwell/backend/internal/repository"
	"github.com/zfogg/inkwell/backend/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Default page sizes
const (
	DefaultFeedLimit      = 15
	DefaultTrendingLimit  = 15
	DefaultSuggestedLimit = 6
)

// TrendingWindow is how far back trending looks for candidate posts
const TrendingWindow = 7 * 24 * time.Hour

// Composer computes feeds on demand from the post store and the follow graph
type Composer struct {
	posts   repository.PostRepository
	users   repository.UserRepository
	follows repository.FollowRepository

	cache       *cache.Manager
	trendingTTL time.Duration

	now func() time.Time
}

// NewComposer creates a feed composer. cacheManager may be nil; trending results
// are cached for trendingTTL when it is set.
func NewComposer(
	posts repository.PostRepository,
	users repository.UserRepository,
	follows repository.FollowRepository,
	cacheManager *cache.Manager,
	trendingTTL time.Duration,
) *Composer {
	return &Composer{
		posts:       posts,
		users:       users,
		follows:     follows,
		cache:       cacheManager,
		trendingTTL: trendingTTL,
		now:         time.Now,
	}
}

// Result is one page of the feed. HasMore is true when the page is full, which
// does not guarantee another page exists.
type Result struct {
	Posts   []*models.Post `json:"posts"`
	HasMore bool           `json:"has_more"`
}

// GetFeed returns the newest published posts by authors the caller follows.
// Anonymous callers, and callers who follow nobody, get the newest published posts overall.
// cursor is accepted for API compatibility and currently ignored.
func (c *Composer) GetFeed(ctx context.Context, caller *models.User, limit int, cursor string) (result *Result, err error) {
	if limit <= 0 {
		limit = DefaultFeedLimit
	}

	ctx, span := telemetry.StartSpan(ctx, "feed.get",
		attribute.Int("feed.limit", limit),
		attribute.Bool("feed.anonymous", caller == nil),
	)
	start := time.Now()
	defer func() {
		metrics.RecordFeedGeneration("following", time.Since(start))
		if result != nil {
			span.SetAttributes(attribute.Int("feed.item_count", len(result.Posts)))
		}
		telemetry.EndSpan(span, err)
	}()

	return c.composeFeed(ctx, caller, limit)
}

func (c *Composer) composeFeed(ctx context.Context, caller *models.User, limit int) (*Result, error) {
	if caller == nil {
		return c.publicFeed(ctx, limit)
	}

	followingIDs, err := c.follows.FollowingIDs(ctx, caller.ID)
	if err != nil {
		logger.Log.Error("Feed follow lookup failed, falling back to public feed",
			logger.WithUserID(caller.ID),
			zap.Error(err),
		)
		return c.publicFeed(ctx, limit)
	}
	if len(followingIDs) == 0 {
		return c.publicFeed(ctx, limit)
	}

	posts, err := c.posts.ListPublishedByAuthors(ctx, followingIDs, limit)
	if err != nil {
		logger.Log.Error("Following feed query failed, falling back to public feed",
			logger.WithUserID(caller.ID),
			zap.Error(err),
		)
		return c.publicFeed(ctx, limit)
	}
	return newResult(posts, limit), nil
}

func (c *Composer) publicFeed(ctx context.Context, limit int) (*Result, error) {
	posts, err := c.posts.ListPublished(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("public feed: %w", err)
	}
	return newResult(posts, limit), nil
}

func newResult(posts []*models.Post, limit int) *Result {
	if posts == nil {
		posts = []*models.Post{}
	}
	return &Result{Posts: posts, HasMore: len(posts) == limit}
}
