package engagement

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/zfogg/inkwell/backend/internal/errors"
	"github.com/zfogg/inkwell/backend/internal/logger"
	"github.com/zfogg/inkwell/backend/internal/metrics"
	"github.com/zfogg/inkwell/backend/internal/models"
	"github.com/zfogg/inkwell/backend/internal/repository"
	"github.com/zfogg/inkwell/backend/internal/telemetry"
	"github.com/zfogg/inkwell/backend/internal/util"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// LikeResult is the outcome of a like toggle
type LikeResult struct {
	Action    string `json:"action"`
	LikeCount int64  `json:"like_count"`
}

// LikeWithUser is a like joined with the public profile of the user who left it
type LikeWithUser struct {
	ID        string             `json:"id"`
	PostID    string             `json:"post_id"`
	UserID    string             `json:"user_id"`
	CreatedAt time.Time          `json:"created_at"`
	User      models.UserSummary `json:"user"`
}

// ToggleLike likes the post for the caller, or removes the like if present
func (s *Service) ToggleLike(ctx context.Context, caller *models.User, postID string) (_ *LikeResult, err error) {
	if caller == nil {
		return nil, errors.Unauthenticated("must be logged in to like posts")
	}

	ctx, span := telemetry.StartSpan(ctx, "likes.toggle", attribute.String("post.id", postID))
	defer func() { telemetry.EndSpan(span, err) }()

	var result LikeResult
	err = s.inTx(ctx, func(r txRepos) error {
		post, err := r.posts.GetPost(ctx, postID)
		if err != nil {
			return util.WrapNotFound(err, "post")
		}

		existing, err := r.likes.FindLike(ctx, postID, caller.ID)
		switch {
		case err == nil:
			deleted, err := r.likes.DeleteLike(ctx, existing.ID)
			if err != nil {
				return err
			}
			count := post.LikeCount
			if deleted {
				if count, err = r.posts.AdjustLikeCount(ctx, postID, -1); err != nil {
					return err
				}
			}
			result = LikeResult{Action: ActionUnliked, LikeCount: count}
			return nil

		case stderrors.Is(err, repository.ErrNotFound):
			// A racing toggle may have inserted the row first; the unique index
			// turns that into a no-op and the counter is left alone.
			created, err := r.likes.CreateLike(ctx, &models.Like{PostID: postID, UserID: caller.ID})
			if err != nil {
				return err
			}
			count := post.LikeCount
			if created {
				if count, err = r.posts.AdjustLikeCount(ctx, postID, 1); err != nil {
					return err
				}
			}
			result = LikeResult{Action: ActionLiked, LikeCount: count}
			return nil

		default:
			return err
		}
	})
	if err != nil {
		return nil, fmt.Errorf("toggle like: %w", err)
	}

	metrics.RecordLike(result.Action)
	span.SetAttributes(attribute.String("like.action", result.Action))
	logger.Log.Debug("Like toggled",
		logger.WithUserID(caller.ID),
		logger.WithPostID(postID),
		logger.WithAction(result.Action),
		zap.Int64("like_count", result.LikeCount),
	)
	return &result, nil
}

// HasUserLiked reports whether the caller likes the post. Anonymous callers never do.
func (s *Service) HasUserLiked(ctx context.Context, caller *models.User, postID string) (bool, error) {
	if caller == nil {
		return false, nil
	}
	_, err := s.likes.FindLike(ctx, postID, caller.ID)
	if stderrors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("has user liked: %w", err)
	}
	return true, nil
}

// GetPostLikes returns the newest likes on a post with the liker's profile.
// Likes whose user no longer exists are dropped.
func (s *Service) GetPostLikes(ctx context.Context, postID string, limit int) ([]LikeWithUser, error) {
	if limit <= 0 {
		limit = DefaultLikesLimit
	}
	likes, err := s.likes.ListLikes(ctx, postID, limit)
	if err != nil {
		return nil, fmt.Errorf("list likes: %w", err)
	}

	userIDs := make([]string, 0, len(likes))
	for _, like := range likes {
		userIDs = append(userIDs, like.UserID)
	}
	users, err := s.users.GetUsers(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("load likers: %w", err)
	}
	byID := make(map[string]*models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	result := make([]LikeWithUser, 0, len(likes))
	for _, like := range likes {
		user, ok := byID[like.UserID]
		if !ok {
			continue
		}
		result = append(result, LikeWithUser{
			ID:        like.ID,
			PostID:    like.PostID,
			UserID:    like.UserID,
			CreatedAt: like.CreatedAt,
			User:      user.Summary(),
		})
	}
	return result, nil
}
