package posts

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/zfogg/inkwell/backend/internal/models"
	"github.com/zfogg/inkwell/backend/internal/repository"
)

// DefaultPublicPostsLimit is the page size of a public profile
const DefaultPublicPostsLimit = 20

// GetPublishedPostsByUsername lists a user's published posts, newest first.
// Profiles are addressed by display name; an unknown name yields an empty list.
func (s *Service) GetPublishedPostsByUsername(ctx context.Context, username string, limit int) ([]*models.Post, error) {
	if limit <= 0 {
		limit = DefaultPublicPostsLimit
	}
	author, err := s.users.GetUserByName(ctx, username)
	if stderrors.Is(err, repository.ErrNotFound) {
		return []*models.Post{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup author: %w", err)
	}

	posts, err := s.posts.ListPublishedByAuthor(ctx, author.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("list published posts: %w", err)
	}
	return posts, nil
}

// GetPublishedPost finds one of the user's published posts by slug or ID.
// It returns nil when the user or the post does not exist.
func (s *Service) GetPublishedPost(ctx context.Context, username, slugOrID string) (*models.Post, error) {
	author, err := s.users.GetUserByName(ctx, username)
	if stderrors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup author: %w", err)
	}

	post, err := s.posts.FindPublishedBySlugOrID(ctx, author.ID, slugOrID)
	if stderrors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find published post: %w", err)
	}
	return post, nil
}
