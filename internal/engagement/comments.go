package engagement

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/zfogg/inkwell/backend/internal/errors"
	"github.com/zfogg/inkwell/backend/internal/logger"
	"github.com/zfogg/inkwell/backend/internal/metrics"
	"github.com/zfogg/inkwell/backend/internal/models"
	"github.com/zfogg/inkwell/backend/internal/repository"
	"github.com/zfogg/inkwell/backend/internal/util"
)

// AddComment writes a comment on the post with a snapshot of the caller's
// name and image, and bumps the post's comment count
func (s *Service) AddComment(ctx context.Context, caller *models.User, postID, content string) (string, error) {
	if caller == nil {
		return "", errors.Unauthenticated("must be logged in to comment")
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return "", errors.InvalidArgument("content", "comment cannot be empty")
	}
	if utf8.RuneCountInString(content) > MaxCommentLength {
		return "", errors.InvalidArgument("content", fmt.Sprintf("comment must be at most %d characters", MaxCommentLength))
	}

	comment := &models.Comment{
		PostID:         postID,
		AuthorID:       caller.ID,
		AuthorName:     caller.Name,
		AuthorImageURL: caller.ImageURL,
		Content:        content,
	}
	err := s.inTx(ctx, func(r txRepos) error {
		if _, err := r.posts.GetPost(ctx, postID); err != nil {
			return util.WrapNotFound(err, "post")
		}
		if err := r.comments.CreateComment(ctx, comment); err != nil {
			return err
		}
		_, err := r.posts.AdjustCommentCount(ctx, postID, 1)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("add comment: %w", err)
	}

	metrics.RecordComment("added")
	logger.Log.Debug("Comment added",
		logger.WithUserID(caller.ID),
		logger.WithPostID(postID),
		logger.WithCommentID(comment.ID),
	)
	return comment.ID, nil
}

// DeleteComment removes the caller's own comment and decrements the post's
// comment count, floored at zero. Orphaned comments on deleted posts are
// removed without touching any counter.
func (s *Service) DeleteComment(ctx context.Context, caller *models.User, commentID string) (string, error) {
	if caller == nil {
		return "", errors.Unauthenticated("must be logged in to delete comments")
	}

	err := s.inTx(ctx, func(r txRepos) error {
		comment, err := r.comments.GetComment(ctx, commentID)
		if err != nil {
			return util.WrapNotFound(err, "comment")
		}
		if comment.AuthorID != caller.ID {
			return errors.Unauthorized("only the author can delete this comment")
		}
		if err := r.comments.DeleteComment(ctx, commentID); err != nil {
			return util.WrapNotFound(err, "comment")
		}
		_, err = r.posts.AdjustCommentCount(ctx, comment.PostID, -1)
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	})
	if err != nil {
		return "", fmt.Errorf("delete comment: %w", err)
	}
	metrics.RecordComment("deleted")
	return commentID, nil
}

// GetPostComments returns every comment on the post, newest first
func (s *Service) GetPostComments(ctx context.Context, postID string) ([]*models.Comment, error) {
	comments, err := s.comments.ListByPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}
