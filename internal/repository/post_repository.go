package repository

import (
	"context"
	"errors"
	"time"

	"github.com/zfogg/inkwell/backend/internal/models"
	"gorm.io/gorm"
)

// PostRepository handles all database operations for posts
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPost(ctx context.Context, postID string) (*models.Post, error)
	SavePost(ctx context.Context, post *models.Post) error
	DeletePost(ctx context.Context, postID string) error

	// FirstDraft returns the author's oldest draft
	FirstDraft(ctx context.Context, authorID string) (*models.Post, error)
	// ListByAuthor returns the author's posts newest first; limit <= 0 means all
	ListByAuthor(ctx context.Context, authorID string, limit int) ([]*models.Post, error)
	ListByAuthorSince(ctx context.Context, authorID string, since time.Time) ([]*models.Post, error)
	ListPublishedByAuthor(ctx context.Context, authorID string, limit int) ([]*models.Post, error)
	FindPublishedBySlugOrID(ctx context.Context, authorID, slugOrID string) (*models.Post, error)

	// Feed queries
	ListPublished(ctx context.Context, limit int) ([]*models.Post, error)
	ListPublishedByAuthors(ctx context.Context, authorIDs []string, limit int) ([]*models.Post, error)
	// ListPublishedSince returns published posts created at or after since, in creation order
	ListPublishedSince(ctx context.Context, since time.Time) ([]*models.Post, error)
	PublishedCounts(ctx context.Context, authorIDs []string) (map[string]int64, error)

	// Counters
	IncrementViewCount(ctx context.Context, postID string) (int64, error)
	AdjustLikeCount(ctx context.Context, postID string, delta int64) (int64, error)
	AdjustCommentCount(ctx context.Context, postID string, delta int64) (int64, error)
	SetEngagementCounts(ctx context.Context, postID string, likes, comments int64) error
	ListPostIDs(ctx context.Context) ([]string, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

const newestFirst = "created_at DESC, id DESC"

func (r *postRepository) CreatePost(ctx context.Context, post *models.Post) error {
	if post == nil {
		return ErrInvalidInput
	}
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) GetPost(ctx context.Context, postID string) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).Where("id = ?", postID).First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) SavePost(ctx context.Context, post *models.Post) error {
	if post == nil || post.ID == "" {
		return ErrInvalidInput
	}
	return r.db.WithContext(ctx).Save(post).Error
}

func (r *postRepository) DeletePost(ctx context.Context, postID string) error {
	result := r.db.WithContext(ctx).Where("id = ?", postID).Delete(&models.Post{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postRepository) FirstDraft(ctx context.Context, authorID string) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Where("author_id = ? AND status = ?", authorID, models.PostStatusDraft).
		Order("created_at ASC, id ASC").
		First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID string, limit int) ([]*models.Post, error) {
	var posts []*models.Post
	query := r.db.WithContext(ctx).Where("author_id = ?", authorID).Order(newestFirst)
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&posts).Error
	return posts, err
}

func (r *postRepository) ListByAuthorSince(ctx context.Context, authorID string, since time.Time) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Where("author_id = ? AND created_at >= ?", authorID, since).
		Order("created_at ASC").
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) ListPublishedByAuthor(ctx context.Context, authorID string, limit int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Where("author_id = ? AND status = ?", authorID, models.PostStatusPublished).
		Order(newestFirst).
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) FindPublishedBySlugOrID(ctx context.Context, authorID, slugOrID string) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Where("author_id = ? AND status = ?", authorID, models.PostStatusPublished).
		Where("slug = ? OR id = ?", slugOrID, slugOrID).
		Order("created_at ASC").
		First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) ListPublished(ctx context.Context, limit int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Where("status = ?", models.PostStatusPublished).
		Order(newestFirst).
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) ListPublishedByAuthors(ctx context.Context, authorIDs []string, limit int) ([]*models.Post, error) {
	var posts []*models.Post
	if len(authorIDs) == 0 {
		return posts, nil
	}
	err := r.db.WithContext(ctx).
		Where("status = ? AND author_id IN ?", models.PostStatusPublished, authorIDs).
		Order(newestFirst).
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) ListPublishedSince(ctx context.Context, since time.Time) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Where("status = ? AND created_at >= ?", models.PostStatusPublished, since).
		Order("created_at ASC, id ASC").
		Find(&posts).Error
	return posts, err
}

type authorCount struct {
	AuthorID string
	Count    int64
}

func (r *postRepository) PublishedCounts(ctx context.Context, authorIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(authorIDs))
	if len(authorIDs) == 0 {
		return counts, nil
	}

	var rows []authorCount
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Select("author_id, COUNT(*) AS count").
		Where("status = ? AND author_id IN ?", models.PostStatusPublished, authorIDs).
		Group("author_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.AuthorID] = row.Count
	}
	return counts, nil
}

func (r *postRepository) IncrementViewCount(ctx context.Context, postID string) (int64, error) {
	return r.adjust(ctx, postID, "view_count", 1)
}

func (r *postRepository) AdjustLikeCount(ctx context.Context, postID string, delta int64) (int64, error) {
	return r.adjust(ctx, postID, "like_count", delta)
}

func (r *postRepository) AdjustCommentCount(ctx context.Context, postID string, delta int64) (int64, error) {
	return r.adjust(ctx, postID, "comment_count", delta)
}

// adjust applies delta to a counter column in a single statement, flooring at zero,
// and returns the stored value
func (r *postRepository) adjust(ctx context.Context, postID, column string, delta int64) (int64, error) {
	expr := gorm.Expr("CASE WHEN "+column+" + ? < 0 THEN 0 ELSE "+column+" + ? END", delta, delta)
	result := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", postID).
		UpdateColumn(column, expr)
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, ErrNotFound
	}

	var value int64
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Select(column).
		Where("id = ?", postID).
		Row().
		Scan(&value)
	return value, err
}

func (r *postRepository) SetEngagementCounts(ctx context.Context, postID string, likes, comments int64) error {
	return r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", postID).
		UpdateColumns(map[string]interface{}{
			"like_count":    likes,
			"comment_count": comments,
		}).Error
}

func (r *postRepository) ListPostIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Order("created_at ASC").
		Pluck("id", &ids).Error
	return ids, err
}
