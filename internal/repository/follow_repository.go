package repository

import (
	"context"
	"errors"

	"github.com/zfogg/inkwell/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowRepository handles the follow graph
type FollowRepository interface {
	FindFollow(ctx context.Context, followerID, followingID string) (*models.Follow, error)
	// CreateFollow inserts the edge unless it already exists and reports whether a row was written
	CreateFollow(ctx context.Context, follow *models.Follow) (bool, error)
	DeleteFollow(ctx context.Context, followID string) (bool, error)

	CountFollowers(ctx context.Context, userID string) (int64, error)
	FollowerCounts(ctx context.Context, userIDs []string) (map[string]int64, error)
	FollowingIDs(ctx context.Context, followerID string) ([]string, error)

	// ListFollowers returns edges pointing at userID, newest first
	ListFollowers(ctx context.Context, userID string, limit int) ([]*models.Follow, error)
	// ListFollowing returns edges starting at followerID, newest first
	ListFollowing(ctx context.Context, followerID string, limit int) ([]*models.Follow, error)
}

type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository creates a new follow repository
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) FindFollow(ctx context.Context, followerID, followingID string) (*models.Follow, error) {
	var follow models.Follow
	err := r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		First(&follow).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &follow, nil
}

func (r *followRepository) CreateFollow(ctx context.Context, follow *models.Follow) (bool, error) {
	if follow == nil || follow.FollowerID == "" || follow.FollowingID == "" {
		return false, ErrInvalidInput
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(follow)
	return result.RowsAffected > 0, result.Error
}

func (r *followRepository) DeleteFollow(ctx context.Context, followID string) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", followID).Delete(&models.Follow{})
	return result.RowsAffected > 0, result.Error
}

func (r *followRepository) CountFollowers(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("following_id = ?", userID).
		Count(&count).Error
	return count, err
}

type followingCount struct {
	FollowingID string
	Count       int64
}

func (r *followRepository) FollowerCounts(ctx context.Context, userIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(userIDs))
	if len(userIDs) == 0 {
		return counts, nil
	}

	var rows []followingCount
	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Select("following_id, COUNT(*) AS count").
		Where("following_id IN ?", userIDs).
		Group("following_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.FollowingID] = row.Count
	}
	return counts, nil
}

func (r *followRepository) FollowingIDs(ctx context.Context, followerID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ?", followerID).
		Pluck("following_id", &ids).Error
	return ids, err
}

func (r *followRepository) ListFollowers(ctx context.Context, userID string, limit int) ([]*models.Follow, error) {
	var follows []*models.Follow
	err := r.db.WithContext(ctx).
		Where("following_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&follows).Error
	return follows, err
}

func (r *followRepository) ListFollowing(ctx context.Context, followerID string, limit int) ([]*models.Follow, error) {
	var follows []*models.Follow
	err := r.db.WithContext(ctx).
		Where("follower_id = ?", followerID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&follows).Error
	return follows, err
}
