// Package engagement owns the like, follow and comment ledgers and keeps the
// denormalized post counters in step with them.
package engagement

import (
	"context"

	"github.com/zfogg/inkwell/backend/internal/repository"
	"gorm.io/gorm"
)

// Toggle outcomes
const (
	ActionLiked      = "liked"
	ActionUnliked    = "unliked"
	ActionFollowed   = "followed"
	ActionUnfollowed = "unfollowed"
)

// MaxCommentLength bounds comment content in characters
const MaxCommentLength = 2000

// Default page sizes
const (
	DefaultLikesLimit   = 50
	DefaultFollowsLimit = 50
)

// Service implements the engagement ledger operations
type Service struct {
	db       *gorm.DB
	users    repository.UserRepository
	posts    repository.PostRepository
	likes    repository.LikeRepository
	follows  repository.FollowRepository
	comments repository.CommentRepository
}

// NewService creates an engagement service backed by db
func NewService(db *gorm.DB) *Service {
	return &Service{
		db:       db,
		users:    repository.NewUserRepository(db),
		posts:    repository.NewPostRepository(db),
		likes:    repository.NewLikeRepository(db),
		follows:  repository.NewFollowRepository(db),
		comments: repository.NewCommentRepository(db),
	}
}

// txRepos are the repositories bound to one transaction
type txRepos struct {
	posts    repository.PostRepository
	likes    repository.LikeRepository
	follows  repository.FollowRepository
	comments repository.CommentRepository
}

// inTx runs fn inside a transaction. The ledger write and the counter update
// commit or roll back together.
func (s *Service) inTx(ctx context.Context, fn func(r txRepos) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(txRepos{
			posts:    repository.NewPostRepository(tx),
			likes:    repository.NewLikeRepository(tx),
			follows:  repository.NewFollowRepository(tx),
			comments: repository.NewCommentRepository(tx),
		})
	})
}
