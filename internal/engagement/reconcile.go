package engagement

import (
	"context"
	"fmt"

	"github.com/zfogg/inkwell/backend/internal/logger"
	"github.com/zfogg/inkwell/backend/internal/metrics"
	"github.com/zfogg/inkwell/backend/internal/util"
	"go.uber.org/zap"
)

// Counters are a post's like and comment counts
type Counters struct {
	Likes    int64 `json:"likes"`
	Comments int64 `json:"comments"`
}

// ReconcileResult reports the stored and recomputed counters for one post
type ReconcileResult struct {
	PostID  string   `json:"post_id"`
	Before  Counters `json:"before"`
	After   Counters `json:"after"`
	Drifted bool     `json:"drifted"`
}

// ReconcilePostCounters recomputes the post's like and comment counts from
// the ledgers and rewrites them when they have drifted
func (s *Service) ReconcilePostCounters(ctx context.Context, postID string) (*ReconcileResult, error) {
	var result *ReconcileResult
	err := s.inTx(ctx, func(r txRepos) error {
		post, err := r.posts.GetPost(ctx, postID)
		if err != nil {
			return util.WrapNotFound(err, "post")
		}
		likes, err := r.likes.CountLikes(ctx, postID)
		if err != nil {
			return err
		}
		comments, err := r.comments.CountComments(ctx, postID)
		if err != nil {
			return err
		}

		result = &ReconcileResult{
			PostID: postID,
			Before: Counters{Likes: post.LikeCount, Comments: post.CommentCount},
			After:  Counters{Likes: likes, Comments: comments},
		}
		result.Drifted = result.Before != result.After
		if !result.Drifted {
			return nil
		}
		return r.posts.SetEngagementCounts(ctx, postID, likes, comments)
	})
	if err != nil {
		return nil, fmt.Errorf("reconcile post %s: %w", postID, err)
	}

	if result.Drifted {
		metrics.RecordCounterDrift("like_count", result.Before.Likes, result.After.Likes)
		metrics.RecordCounterDrift("comment_count", result.Before.Comments, result.After.Comments)
		logger.Log.Warn("Repaired counter drift",
			logger.WithPostID(postID),
			zap.Int64("likes_before", result.Before.Likes),
			zap.Int64("likes_after", result.After.Likes),
			zap.Int64("comments_before", result.Before.Comments),
			zap.Int64("comments_after", result.After.Comments),
		)
	}
	return result, nil
}

// ReconcileAll reconciles every post and returns the ones that drifted
func (s *Service) ReconcileAll(ctx context.Context) ([]*ReconcileResult, error) {
	ids, err := s.posts.ListPostIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	var drifted []*ReconcileResult
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return drifted, err
		}
		result, err := s.ReconcilePostCounters(ctx, id)
		if err != nil {
			return drifted, err
		}
		if result.Drifted {
			drifted = append(drifted, result)
		}
	}

	logger.Log.Info("Counter reconciliation finished",
		zap.Int("posts", len(ids)),
		zap.Int("drifted", len(drifted)),
	)
	return drifted, nil
}
