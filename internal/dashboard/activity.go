package dashboard

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/zfogg/inkwell/backend/internal/errors"
	"github.com/zfogg/inkwell/backend/internal/models"
	"golang.org/x/sync/errgroup"
)

// Activity kinds
const (
	ActivityComment = "comment"
	ActivityFollow  = "follow"
)

// Activity is one entry of the dashboard timeline
type Activity struct {
	Type      string       `json:"type"`
	Message   string       `json:"message"`
	Timestamp time.Time    `json:"timestamp"`
	Data      ActivityData `json:"data"`
}

// ActivityData carries the records an activity refers to
type ActivityData struct {
	Comment  *models.Comment     `json:"comment,omitempty"`
	Post     *models.Post        `json:"post,omitempty"`
	Follower *models.UserSummary `json:"follower,omitempty"`
}

// GetRecentActivity merges the newest comments on the caller's posts with the
// newest follows of the caller. Each source is limited on its own before the
// merge, so the result is not guaranteed to be the true top-limit events.
func (a *Aggregator) GetRecentActivity(ctx context.Context, caller *models.User, limit int) ([]Activity, error) {
	if caller == nil {
		return nil, errors.Unauthenticated("")
	}
	if limit <= 0 {
		limit = DefaultActivityLimit
	}

	var commentActivity, followActivity []Activity
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		commentActivity, err = a.commentActivity(gctx, caller, limit)
		return err
	})
	g.Go(func() error {
		var err error
		followActivity, err = a.followActivity(gctx, caller)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("recent activity: %w", err)
	}

	activities := append(commentActivity, followActivity...)
	slices.SortStableFunc(activities, func(x, y Activity) int {
		return y.Timestamp.Compare(x.Timestamp)
	})
	if len(activities) > limit {
		activities = activities[:limit]
	}
	if activities == nil {
		activities = []Activity{}
	}
	return activities, nil
}

func (a *Aggregator) commentActivity(ctx context.Context, caller *models.User, limit int) ([]Activity, error) {
	posts, err := a.posts.ListByAuthor(ctx, caller.ID, 0)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, nil
	}

	byID := make(map[string]*models.Post, len(posts))
	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		byID[p.ID] = p
		ids = append(ids, p.ID)
	}

	comments, err := a.comments.ListRecentOnPosts(ctx, ids, limit)
	if err != nil {
		return nil, err
	}

	activities := make([]Activity, 0, len(comments))
	for _, comment := range comments {
		post := byID[comment.PostID]
		activities = append(activities, Activity{
			Type:      ActivityComment,
			Message:   fmt.Sprintf("%s commented on \"%s\"", comment.AuthorName, post.Title),
			Timestamp: comment.CreatedAt,
			Data:      ActivityData{Comment: comment, Post: post},
		})
	}
	return activities, nil
}

func (a *Aggregator) followActivity(ctx context.Context, caller *models.User) ([]Activity, error) {
	follows, err := a.follows.ListFollowers(ctx, caller.ID, RecentFollowsLimit)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(follows))
	for _, f := range follows {
		ids = append(ids, f.FollowerID)
	}
	users, err := a.users.GetUsers(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	activities := make([]Activity, 0, len(follows))
	for _, f := range follows {
		follower, ok := byID[f.FollowerID]
		if !ok {
			continue
		}
		summary := follower.Summary()
		activities = append(activities, Activity{
			Type:      ActivityFollow,
			Message:   fmt.Sprintf("%s started following you", follower.Name),
			Timestamp: f.CreatedAt,
			Data:      ActivityData{Follower: &summary},
		})
	}
	return activities, nil
}
