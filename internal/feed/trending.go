package feed

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/zfogg/inkwell/backend/internal/cache"
	"github.com/zfogg/inkwell/backend/internal/metrics"
	"github.com/zfogg/inkwell/backend/internal/models"
)

// TrendingPost is a post with the score it was ranked by
type TrendingPost struct {
	*models.Post
	EngagementScore int64 `json:"engagement_score"`
}

// GetTrendingPosts ranks published posts from the last seven days by
// views + 2*likes + 3*comments. Equal scores are ordered newest first, then by ID.
func (c *Composer) GetTrendingPosts(ctx context.Context, limit int) ([]TrendingPost, error) {
	if limit <= 0 {
		limit = DefaultTrendingLimit
	}

	key := cache.Key("feed", "trending", strconv.Itoa(limit))
	var cached []TrendingPost
	if c.cache.GetJSON(ctx, key, &cached) {
		return cached, nil
	}

	start := time.Now()
	candidates, err := c.posts.ListPublishedSince(ctx, c.now().Add(-TrendingWindow))
	if err != nil {
		return nil, fmt.Errorf("trending candidates: %w", err)
	}

	ranked := RankTrending(candidates, limit)
	metrics.RecordFeedGeneration("trending", time.Since(start))
	c.cache.SetJSON(ctx, key, ranked, c.trendingTTL)
	return ranked, nil
}

// RankTrending scores posts and returns the top limit
func RankTrending(posts []*models.Post, limit int) []TrendingPost {
	scored := make([]TrendingPost, 0, len(posts))
	for _, p := range posts {
		scored = append(scored, TrendingPost{Post: p, EngagementScore: p.EngagementScore()})
	}

	slices.SortStableFunc(scored, func(a, b TrendingPost) int {
		if c := cmp.Compare(b.EngagementScore, a.EngagementScore); c != 0 {
			return c
		}
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}
