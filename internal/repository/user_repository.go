package repository

import (
	"context"
	"errors"

	"github.com/zfogg/inkwell/backend/internal/models"
	"gorm.io/gorm"
)

// UserRepository handles all database operations for users
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, userID string) (*models.User, error)
	GetUserByToken(ctx context.Context, tokenIdentifier string) (*models.User, error)
	GetUserByName(ctx context.Context, name string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error

	GetUsers(ctx context.Context, userIDs []string) ([]*models.User, error)
	// ListRecentUsers returns the newest users first
	ListRecentUsers(ctx context.Context, limit int) ([]*models.User, error)
	// ListUsersExcluding returns users in creation order, skipping the given IDs
	ListUsersExcluding(ctx context.Context, excludeIDs []string, limit int) ([]*models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(ctx context.Context, user *models.User) error {
	if user == nil {
		return ErrInvalidInput
	}
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return r.first(ctx, "id = ?", userID)
}

func (r *userRepository) GetUserByToken(ctx context.Context, tokenIdentifier string) (*models.User, error) {
	return r.first(ctx, "token_identifier = ?", tokenIdentifier)
}

// GetUserByName returns the oldest user with this display name.
// Names are not unique; public profile URLs resolve to the first match.
func (r *userRepository) GetUserByName(ctx context.Context, name string) (*models.User, error) {
	return r.first(ctx, "name = ?", name)
}

func (r *userRepository) first(ctx context.Context, query string, args ...interface{}) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where(query, args...).
		Order("created_at ASC").
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UpdateUser(ctx context.Context, user *models.User) error {
	if user == nil || user.ID == "" {
		return ErrInvalidInput
	}
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) GetUsers(ctx context.Context, userIDs []string) ([]*models.User, error) {
	var users []*models.User
	if len(userIDs) == 0 {
		return users, nil
	}
	err := r.db.WithContext(ctx).
		Where("id IN ?", userIDs).
		Find(&users).Error
	return users, err
}

func (r *userRepository) ListRecentUsers(ctx context.Context, limit int) ([]*models.User, error) {
	var users []*models.User
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&users).Error
	return users, err
}

func (r *userRepository) ListUsersExcluding(ctx context.Context, excludeIDs []string, limit int) ([]*models.User, error) {
	var users []*models.User
	query := r.db.WithContext(ctx).Order("created_at ASC, id ASC")
	if len(excludeIDs) > 0 {
		query = query.Where("id NOT IN ?", excludeIDs)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&users).Error
	return users, err
}
