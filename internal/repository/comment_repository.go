package repository

import (
	"context"
	"errors"

	"github.com/zfogg/inkwell/backend/internal/models"
	"gorm.io/gorm"
)

// CommentRepository handles post comments
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetComment(ctx context.Context, commentID string) (*models.Comment, error)
	DeleteComment(ctx context.Context, commentID string) error
	CountComments(ctx context.Context, postID string) (int64, error)
	// ListByPost returns every comment on the post, newest first
	ListByPost(ctx context.Context, postID string) ([]*models.Comment, error)
	// ListRecentOnPosts returns the newest comments across the given posts
	ListRecentOnPosts(ctx context.Context, postIDs []string, limit int) ([]*models.Comment, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	if comment == nil {
		return ErrInvalidInput
	}
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepository) GetComment(ctx context.Context, commentID string) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).Where("id = ?", commentID).First(&comment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) DeleteComment(ctx context.Context, commentID string) error {
	result := r.db.WithContext(ctx).Where("id = ?", commentID).Delete(&models.Comment{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *commentRepository) CountComments(ctx context.Context, postID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return count, err
}

func (r *commentRepository) ListByPost(ctx context.Context, postID string) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at DESC, id DESC").
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) ListRecentOnPosts(ctx context.Context, postIDs []string, limit int) ([]*models.Comment, error) {
	var comments []*models.Comment
	if len(postIDs) == 0 {
		return comments, nil
	}
	err := r.db.WithContext(ctx).
		Where("post_id IN ?", postIDs).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&comments).Error
	return comments, err
}
