// Package posts implements post authoring: create, update, delete, drafts and
// the public, unauthenticated reads of published posts.
package posts

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/zfogg/inkwell/backend/internal/errors"
	"github.com/zfogg/inkwell/backend/internal/logger"
	"github.com/zfogg/inkwell/backend/internal/metrics"
	"github.com/zfogg/inkwell/backend/internal/models"
	"github.com/zfogg/inkwell/backend/internal/repository"
	"github.com/zfogg/inkwell/backend/internal/util"
	"go.uber.org/zap"
)

// PostInput carries the author-editable fields of a post.
// On update, nil optional fields leave the stored value unchanged.
type PostInput struct {
	Title         string            `json:"title" validate:"required,max=200"`
	Content       string            `json:"content" validate:"required"`
	Category      *string           `json:"category,omitempty" validate:"omitempty,max=50"`
	Tags          []string          `json:"tags,omitempty" validate:"omitempty,max=10,dive,required,max=30"`
	FeaturedImage *string           `json:"featured_image,omitempty" validate:"omitempty,max=2048"`
	Status        models.PostStatus `json:"status" validate:"required,oneof=draft published"`
	ScheduledFor  *time.Time        `json:"scheduled_for,omitempty"`
}

// Service implements the post store
type Service struct {
	posts    repository.PostRepository
	users    repository.UserRepository
	validate *validator.Validate
}

// NewService creates a post service
func NewService(posts repository.PostRepository, users repository.UserRepository) *Service {
	return &Service{
		posts:    posts,
		users:    users,
		validate: validator.New(),
	}
}

func (s *Service) validateInput(input *PostInput) error {
	input.Title = strings.TrimSpace(input.Title)
	err := s.validate.Struct(input)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if stderrors.As(err, &validationErrors) && len(validationErrors) > 0 {
		fe := validationErrors[0]
		field := strings.ToLower(fe.Field())
		return errors.InvalidArgument(field, fmt.Sprintf("%s failed %s validation", field, fe.Tag()))
	}
	return errors.InvalidArgument("", err.Error())
}

// Create stores a new post authored by the caller and returns its ID
func (s *Service) Create(ctx context.Context, caller *models.User, input PostInput) (string, error) {
	if caller == nil {
		return "", errors.Unauthenticated("")
	}
	if err := s.validateInput(&input); err != nil {
		return "", err
	}

	post := &models.Post{
		AuthorID:     caller.ID,
		AuthorName:   caller.Name,
		ViewCount:    0,
		LikeCount:    0,
		CommentCount: 0,
	}
	applyInput(post, input)

	if err := s.posts.CreatePost(ctx, post); err != nil {
		return "", fmt.Errorf("create post: %w", err)
	}

	metrics.RecordPostCreated(string(post.Status))
	logger.Log.Info("Post created",
		logger.WithUserID(caller.ID),
		logger.WithPostID(post.ID),
		zap.String("status", string(post.Status)),
	)
	return post.ID, nil
}

// Update replaces the post's editable fields and re-derives its slug.
// A post that does not exist and a post owned by someone else are both NOT_FOUND.
func (s *Service) Update(ctx context.Context, caller *models.User, postID string, input PostInput) (string, error) {
	if caller == nil {
		return "", errors.Unauthenticated("")
	}
	if err := s.validateInput(&input); err != nil {
		return "", err
	}

	post, err := s.ownedPost(ctx, caller, postID)
	if err != nil {
		return "", err
	}
	wasDraft := post.Status == models.PostStatusDraft
	applyInput(post, input)

	if err := s.posts.SavePost(ctx, post); err != nil {
		return "", fmt.Errorf("update post: %w", err)
	}

	if wasDraft && post.IsPublished() {
		logger.Log.Info("Post published", logger.WithUserID(caller.ID), logger.WithPostID(post.ID))
	}
	return post.ID, nil
}

// Delete removes the caller's post. Comments and likes referencing it are left in place.
func (s *Service) Delete(ctx context.Context, caller *models.User, postID string) (string, error) {
	if caller == nil {
		return "", errors.Unauthenticated("")
	}
	if _, err := s.ownedPost(ctx, caller, postID); err != nil {
		return "", err
	}
	if err := s.posts.DeletePost(ctx, postID); err != nil {
		return "", util.WrapNotFound(err, "post")
	}

	logger.Log.Info("Post deleted", logger.WithUserID(caller.ID), logger.WithPostID(postID))
	return postID, nil
}

// GetByID returns one of the caller's own posts, draft or published
func (s *Service) GetByID(ctx context.Context, caller *models.User, postID string) (*models.Post, error) {
	if caller == nil {
		return nil, errors.Unauthenticated("")
	}
	return s.ownedPost(ctx, caller, postID)
}

// GetUserDraft returns the caller's oldest draft, or nil when there is none or the caller is anonymous
func (s *Service) GetUserDraft(ctx context.Context, caller *models.User) (*models.Post, error) {
	if caller == nil {
		return nil, nil
	}
	draft, err := s.posts.FirstDraft(ctx, caller.ID)
	if stderrors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get draft: %w", err)
	}
	return draft, nil
}

// GetUserPosts returns all of the caller's posts, newest first
func (s *Service) GetUserPosts(ctx context.Context, caller *models.User) ([]*models.Post, error) {
	if caller == nil {
		return []*models.Post{}, nil
	}
	posts, err := s.posts.ListByAuthor(ctx, caller.ID, 0)
	if err != nil {
		return nil, fmt.Errorf("list user posts: %w", err)
	}
	return posts, nil
}

// IncrementViewCount records one view of the post and returns the new count.
// It needs no caller.
func (s *Service) IncrementViewCount(ctx context.Context, postID string) (int64, error) {
	count, err := s.posts.IncrementViewCount(ctx, postID)
	if err != nil {
		return 0, util.WrapNotFound(err, "post")
	}
	metrics.RecordPostView()
	return count, nil
}

func (s *Service) ownedPost(ctx context.Context, caller *models.User, postID string) (*models.Post, error) {
	post, err := s.posts.GetPost(ctx, postID)
	if err != nil {
		return nil, util.WrapNotFound(err, "post")
	}
	if post.AuthorID != caller.ID {
		logger.Log.Debug("Rejected access to post owned by another user",
			logger.WithUserID(caller.ID),
			logger.WithPostID(postID),
		)
		return nil, errors.NotFound("post")
	}
	return post, nil
}

func applyInput(post *models.Post, input PostInput) {
	post.Title = input.Title
	post.Content = input.Content
	post.Slug = GenerateSlug(input.Title)
	post.Status = input.Status
	if input.Category != nil {
		post.Category = *input.Category
	}
	if input.Tags != nil {
		post.Tags = input.Tags
	}
	if input.FeaturedImage != nil {
		post.FeaturedImage = *input.FeaturedImage
	}
	if input.ScheduledFor != nil {
		scheduled := input.ScheduledFor.UTC()
		post.ScheduledFor = &scheduled
	}
}
