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
	"github.com/zfogg/inkwell/backend/internal/util"
	"go.uber.org/zap"
)

// FollowResult is the outcome of a follow toggle
type FollowResult struct {
	Action string `json:"action"`
}

// FollowedUser is a user on either side of a follow edge plus when the edge was made
type FollowedUser struct {
	*models.User
	FollowedAt time.Time `json:"followed_at"`
}

// ToggleFollow follows the target user for the caller, or unfollows if already following
func (s *Service) ToggleFollow(ctx context.Context, caller *models.User, followingID string) (*FollowResult, error) {
	if caller == nil {
		return nil, errors.Unauthenticated("must be logged in to follow users")
	}
	if caller.ID == followingID {
		return nil, errors.InvalidArgument("following_id", "cannot follow yourself")
	}
	if _, err := s.users.GetUser(ctx, followingID); err != nil {
		return nil, util.WrapNotFound(err, "user")
	}

	var result FollowResult
	err := s.inTx(ctx, func(r txRepos) error {
		existing, err := r.follows.FindFollow(ctx, caller.ID, followingID)
		switch {
		case err == nil:
			if _, err := r.follows.DeleteFollow(ctx, existing.ID); err != nil {
				return err
			}
			result.Action = ActionUnfollowed
			return nil
		case stderrors.Is(err, repository.ErrNotFound):
			if _, err := r.follows.CreateFollow(ctx, &models.Follow{FollowerID: caller.ID, FollowingID: followingID}); err != nil {
				return err
			}
			result.Action = ActionFollowed
			return nil
		default:
			return err
		}
	})
	if err != nil {
		return nil, fmt.Errorf("toggle follow: %w", err)
	}

	metrics.RecordFollow(result.Action)
	logger.Log.Debug("Follow toggled",
		logger.WithUserID(caller.ID),
		zap.String("following_id", followingID),
		logger.WithAction(result.Action),
	)
	return &result, nil
}

// IsFollowing reports whether the caller follows the user. Anonymous callers follow nobody.
func (s *Service) IsFollowing(ctx context.Context, caller *models.User, followingID string) (bool, error) {
	if caller == nil {
		return false, nil
	}
	_, err := s.follows.FindFollow(ctx, caller.ID, followingID)
	if stderrors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("is following: %w", err)
	}
	return true, nil
}

// GetFollowerCount counts the user's followers
func (s *Service) GetFollowerCount(ctx context.Context, userID string) (int64, error) {
	count, err := s.follows.CountFollowers(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("count followers: %w", err)
	}
	return count, nil
}

// GetMyFollowers lists the caller's followers, newest first. Anonymous callers get an empty list.
func (s *Service) GetMyFollowers(ctx context.Context, caller *models.User, limit int) ([]FollowedUser, error) {
	if caller == nil {
		return []FollowedUser{}, nil
	}
	if limit <= 0 {
		limit = DefaultFollowsLimit
	}
	follows, err := s.follows.ListFollowers(ctx, caller.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("list followers: %w", err)
	}
	return s.joinUsers(ctx, follows, func(f *models.Follow) string { return f.FollowerID })
}

// GetMyFollowing lists the users the caller follows, newest first
func (s *Service) GetMyFollowing(ctx context.Context, caller *models.User, limit int) ([]FollowedUser, error) {
	if caller == nil {
		return []FollowedUser{}, nil
	}
	if limit <= 0 {
		limit = DefaultFollowsLimit
	}
	follows, err := s.follows.ListFollowing(ctx, caller.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("list following: %w", err)
	}
	return s.joinUsers(ctx, follows, func(f *models.Follow) string { return f.FollowingID })
}

// joinUsers loads the user on the chosen side of each edge, preserving edge order
func (s *Service) joinUsers(ctx context.Context, follows []*models.Follow, side func(*models.Follow) string) ([]FollowedUser, error) {
	ids := make([]string, 0, len(follows))
	for _, f := range follows {
		ids = append(ids, side(f))
	}
	users, err := s.users.GetUsers(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	byID := make(map[string]*models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	result := make([]FollowedUser, 0, len(follows))
	for _, f := range follows {
		if u, ok := byID[side(f)]; ok {
			result = append(result, FollowedUser{User: u, FollowedAt: f.CreatedAt})
		}
	}
	return result, nil
}
