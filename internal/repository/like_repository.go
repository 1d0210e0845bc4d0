package repository

import (
	"context"
	"errors"

	"github.com/zfogg/inkwell/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeRepository handles the likes ledger
type LikeRepository interface {
	FindLike(ctx context.Context, postID, userID string) (*models.Like, error)
	// CreateLike inserts the like unless one already exists for (post, user).
	// It reports whether a row was written.
	CreateLike(ctx context.Context, like *models.Like) (bool, error)
	DeleteLike(ctx context.Context, likeID string) (bool, error)
	CountLikes(ctx context.Context, postID string) (int64, error)
	ListLikes(ctx context.Context, postID string, limit int) ([]*models.Like, error)
}

type likeRepository struct {
	db *gorm.DB
}

// NewLikeRepository creates a new like repository
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) FindLike(ctx context.Context, postID, userID string) (*models.Like, error) {
	var like models.Like
	err := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		First(&like).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &like, nil
}

func (r *likeRepository) CreateLike(ctx context.Context, like *models.Like) (bool, error) {
	if like == nil || like.PostID == "" || like.UserID == "" {
		return false, ErrInvalidInput
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(like)
	return result.RowsAffected > 0, result.Error
}

func (r *likeRepository) DeleteLike(ctx context.Context, likeID string) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", likeID).Delete(&models.Like{})
	return result.RowsAffected > 0, result.Error
}

func (r *likeRepository) CountLikes(ctx context.Context, postID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return count, err
}

func (r *likeRepository) ListLikes(ctx context.Context, postID string, limit int) ([]*models.Like, error) {
	var likes []*models.Like
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&likes).Error
	return likes, err
}
