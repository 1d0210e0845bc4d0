package posts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/zfogg/inkwell/backend/internal/errors"
	"github.com/zfogg/inkwell/backend/internal/models"
	"github.com/zfogg/inkwell/backend/internal/repository"
	"github.com/zfogg/inkwell/backend/internal/testutil"
	"gorm.io/gorm"
)

type PostServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *Service
	ctx     context.Context
	author  *models.User
	other   *models.User
}

func (s *PostServiceTestSuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.service = NewService(repository.NewPostRepository(s.db), repository.NewUserRepository(s.db))
	s.ctx = context.Background()
	s.author = testutil.CreateUser(s.T(), s.db, "writer")
	s.other = testutil.CreateUser(s.T(), s.db, "stranger")
}

func (s *PostServiceTestSuite) input(title string, status models.PostStatus) PostInput {
	return PostInput{Title: title, Content: "<p>body</p>", Status: status}
}

func (s *PostServiceTestSuite) TestCreate() {
	category := "tech"
	in := s.input("Hello, World!", models.PostStatusPublished)
	in.Category = &category
	in.Tags = []string{"go", "web"}

	id, err := s.service.Create(s.ctx, s.author, in)
	s.Require().NoError(err)

	post, err := s.service.GetByID(s.ctx, s.author, id)
	s.Require().NoError(err)
	s.Equal("hello-world", post.Slug)
	s.Equal("writer", post.AuthorName)
	s.Equal("tech", post.Category)
	s.Equal([]string{"go", "web"}, post.Tags)
	s.Zero(post.ViewCount)
	s.Zero(post.LikeCount)
	s.Zero(post.CommentCount)
}

func (s *PostServiceTestSuite) TestCreateValidation() {
	_, err := s.service.Create(s.ctx, s.author, s.input("   ", models.PostStatusDraft))
	s.True(errors.HasCode(err, errors.ErrInvalidArgument))

	_, err = s.service.Create(s.ctx, s.author, s.input("Title", models.PostStatus("archived")))
	s.True(errors.HasCode(err, errors.ErrInvalidArgument))

	_, err = s.service.Create(s.ctx, nil, s.input("Title", models.PostStatusDraft))
	s.True(errors.HasCode(err, errors.ErrUnauthenticated))
}

func (s *PostServiceTestSuite) TestUpdateRederivesSlugAndKeepsOmittedFields() {
	category := "life"
	in := s.input("First Title", models.PostStatusDraft)
	in.Category = &category
	id, err := s.service.Create(s.ctx, s.author, in)
	s.Require().NoError(err)

	_, err = s.service.Update(s.ctx, s.author, id, s.input("Second Title", models.PostStatusPublished))
	s.Require().NoError(err)

	post, err := s.service.GetByID(s.ctx, s.author, id)
	s.Require().NoError(err)
	s.Equal("second-title", post.Slug)
	s.Equal("life", post.Category)
	s.True(post.IsPublished())
}

func (s *PostServiceTestSuite) TestOwnershipIsNotFound() {
	id, err := s.service.Create(s.ctx, s.author, s.input("Mine", models.PostStatusPublished))
	s.Require().NoError(err)

	_, err = s.service.Update(s.ctx, s.other, id, s.input("Hijack", models.PostStatusPublished))
	s.True(errors.HasCode(err, errors.ErrNotFound))

	_, err = s.service.Delete(s.ctx, s.other, id)
	s.True(errors.HasCode(err, errors.ErrNotFound))

	_, err = s.service.GetByID(s.ctx, s.other, id)
	s.True(errors.HasCode(err, errors.ErrNotFound))

	_, err = s.service.Delete(s.ctx, s.author, "missing")
	s.True(errors.HasCode(err, errors.ErrNotFound))

	deleted, err := s.service.Delete(s.ctx, s.author, id)
	s.Require().NoError(err)
	s.Equal(id, deleted)

	_, err = s.service.GetByID(s.ctx, s.author, id)
	s.True(errors.HasCode(err, errors.ErrNotFound))
}

func (s *PostServiceTestSuite) TestDrafts() {
	draft, err := s.service.GetUserDraft(s.ctx, s.author)
	s.Require().NoError(err)
	s.Nil(draft)

	now := time.Now().UTC()
	first := testutil.CreatePost(s.T(), s.db, s.author, "Older Draft",
		testutil.WithStatus(models.PostStatusDraft), testutil.WithCreatedAt(now.Add(-time.Hour)))
	testutil.CreatePost(s.T(), s.db, s.author, "Newer Draft",
		testutil.WithStatus(models.PostStatusDraft), testutil.WithCreatedAt(now))

	draft, err = s.service.GetUserDraft(s.ctx, s.author)
	s.Require().NoError(err)
	s.Require().NotNil(draft)
	s.Equal(first.ID, draft.ID)

	draft, err = s.service.GetUserDraft(s.ctx, nil)
	s.Require().NoError(err)
	s.Nil(draft)
}

func (s *PostServiceTestSuite) TestGetUserPostsNewestFirst() {
	now := time.Now().UTC()
	older := testutil.CreatePost(s.T(), s.db, s.author, "Older", testutil.WithCreatedAt(now.Add(-time.Hour)))
	newer := testutil.CreatePost(s.T(), s.db, s.author, "Newer", testutil.WithStatus(models.PostStatusDraft), testutil.WithCreatedAt(now))
	testutil.CreatePost(s.T(), s.db, s.other, "Not Mine")

	posts, err := s.service.GetUserPosts(s.ctx, s.author)
	s.Require().NoError(err)
	s.Require().Len(posts, 2)
	s.Equal(newer.ID, posts[0].ID)
	s.Equal(older.ID, posts[1].ID)

	posts, err = s.service.GetUserPosts(s.ctx, nil)
	s.Require().NoError(err)
	s.Empty(posts)
}

func (s *PostServiceTestSuite) TestIncrementViewCount() {
	post := testutil.CreatePost(s.T(), s.db, s.author, "Viewed")

	for i := int64(1); i <= 3; i++ {
		count, err := s.service.IncrementViewCount(s.ctx, post.ID)
		s.Require().NoError(err)
		s.Equal(i, count)
	}

	_, err := s.service.IncrementViewCount(s.ctx, "missing")
	s.True(errors.HasCode(err, errors.ErrNotFound))
}

func (s *PostServiceTestSuite) TestPublicReads() {
	published := testutil.CreatePost(s.T(), s.db, s.author, "Public Post")
	testutil.CreatePost(s.T(), s.db, s.author, "Secret Draft", testutil.WithStatus(models.PostStatusDraft))

	posts, err := s.service.GetPublishedPostsByUsername(s.ctx, "writer", 0)
	s.Require().NoError(err)
	s.Require().Len(posts, 1)
	s.Equal(published.ID, posts[0].ID)

	posts, err = s.service.GetPublishedPostsByUsername(s.ctx, "nobody", 0)
	s.Require().NoError(err)
	s.Empty(posts)

	bySlug, err := s.service.GetPublishedPost(s.ctx, "writer", "public-post")
	s.Require().NoError(err)
	s.Require().NotNil(bySlug)
	s.Equal(published.ID, bySlug.ID)

	byID, err := s.service.GetPublishedPost(s.ctx, "writer", published.ID)
	s.Require().NoError(err)
	s.Require().NotNil(byID)

	draft, err := s.service.GetPublishedPost(s.ctx, "writer", "secret-draft")
	s.Require().NoError(err)
	s.Nil(draft)

	missing, err := s.service.GetPublishedPost(s.ctx, "nobody", "public-post")
	s.Require().NoError(err)
	s.Nil(missing)
}

func TestPostServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PostServiceTestSuite))
}
