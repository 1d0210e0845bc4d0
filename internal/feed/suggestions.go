package feed

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/zfogg/inkwell/backend/internal/logger"
	"github.com/zfogg/inkwell/backend/internal/models"
	"go.uber.org/zap"
)

// SuggestedUser is a user worth following along with their activity
type SuggestedUser struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Username      string         `json:"username"`
	ImageURL      string         `json:"image_url,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	PostCount     int64          `json:"post_count"`
	FollowerCount int64          `json:"follower_count"`
	RecentPosts   []*models.Post `json:"recent_posts"`
	// ActivityScore is only set for authenticated suggestions
	ActivityScore *int64 `json:"activity_score,omitempty"`
}

// GetSuggestedUsers returns users the caller might follow.
// Anonymous callers get the newest users, unscored. Authenticated callers get
// up to 2*limit users they do not follow yet, in sign-up order, ranked by
// published posts plus followers. Failures are logged and yield an empty list.
func (c *Composer) GetSuggestedUsers(ctx context.Context, caller *models.User, limit int) []SuggestedUser {
	if limit <= 0 {
		limit = DefaultSuggestedLimit
	}

	var (
		suggestions []SuggestedUser
		err         error
	)
	if caller == nil {
		suggestions, err = c.newestUsers(ctx, limit)
	} else {
		suggestions, err = c.rankedSuggestions(ctx, caller, limit)
	}
	if err != nil {
		fields := []zap.Field{zap.Error(err)}
		if caller != nil {
			fields = append(fields, logger.WithUserID(caller.ID))
		}
		logger.Log.Error("Suggested users failed", fields...)
		return []SuggestedUser{}
	}
	return suggestions
}

func (c *Composer) newestUsers(ctx context.Context, limit int) ([]SuggestedUser, error) {
	users, err := c.users.ListRecentUsers(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("recent users: %w", err)
	}
	suggestions, err := c.withCounts(ctx, users)
	if err != nil {
		return nil, err
	}
	for i := range suggestions {
		suggestions[i].RecentPosts = []*models.Post{}
	}
	return suggestions, nil
}

func (c *Composer) rankedSuggestions(ctx context.Context, caller *models.User, limit int) ([]SuggestedUser, error) {
	followingIDs, err := c.follows.FollowingIDs(ctx, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("following ids: %w", err)
	}
	exclude := append(followingIDs, caller.ID)

	candidates, err := c.users.ListUsersExcluding(ctx, exclude, limit*2)
	if err != nil {
		return nil, fmt.Errorf("candidate users: %w", err)
	}
	suggestions, err := c.withCounts(ctx, candidates)
	if err != nil {
		return nil, err
	}

	for i := range suggestions {
		recent, err := c.posts.ListPublishedByAuthor(ctx, suggestions[i].ID, 1)
		if err != nil {
			return nil, fmt.Errorf("recent posts: %w", err)
		}
		if recent == nil {
			recent = []*models.Post{}
		}
		suggestions[i].RecentPosts = recent

		score := suggestions[i].PostCount + suggestions[i].FollowerCount
		suggestions[i].ActivityScore = &score
	}

	slices.SortStableFunc(suggestions, func(a, b SuggestedUser) int {
		if c := cmp.Compare(*b.ActivityScore, *a.ActivityScore); c != 0 {
			return c
		}
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions, nil
}

// withCounts attaches published post and follower counts, preserving user order
func (c *Composer) withCounts(ctx context.Context, users []*models.User) ([]SuggestedUser, error) {
	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}

	postCounts, err := c.posts.PublishedCounts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("post counts: %w", err)
	}
	followerCounts, err := c.follows.FollowerCounts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("follower counts: %w", err)
	}

	suggestions := make([]SuggestedUser, 0, len(users))
	for _, u := range users {
		suggestions = append(suggestions, SuggestedUser{
			ID:            u.ID,
			Name:          u.Name,
			Username:      u.Name,
			ImageURL:      u.ImageURL,
			CreatedAt:     u.CreatedAt,
			PostCount:     postCounts[u.ID],
			FollowerCount: followerCounts[u.ID],
		})
	}
	return suggestions, nil
}
