package engagement

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/zfogg/inkwell/backend/internal/errors"
	"github.com/zfogg/inkwell/backend/internal/models"
	"github.com/zfogg/inkwell/backend/internal/testutil"
	"gorm.io/gorm"
)

type EngagementTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *Service
	ctx     context.Context
	author  *models.User
	post    *models.Post
}

func (s *EngagementTestSuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.service = NewService(s.db)
	s.ctx = context.Background()
	s.author = testutil.CreateUser(s.T(), s.db, "author")
	s.post = testutil.CreatePost(s.T(), s.db, s.author, "Engaging Post")
}

func (s *EngagementTestSuite) reloadPost() *models.Post {
	var post models.Post
	s.Require().NoError(s.db.First(&post, "id = ?", s.post.ID).Error)
	return &post
}

func (s *EngagementTestSuite) TestLikeCountMatchesDistinctLikers() {
	const n = 5
	for i := 0; i < n; i++ {
		user := testutil.CreateUser(s.T(), s.db, fmt.Sprintf("reader%d", i))
		// like, unlike, like: last action is like
		for _, want := range []string{ActionLiked, ActionUnliked, ActionLiked} {
			result, err := s.service.ToggleLike(s.ctx, user, s.post.ID)
			s.Require().NoError(err)
			s.Equal(want, result.Action)
		}
	}

	s.Equal(int64(n), s.reloadPost().LikeCount)

	likes, err := s.service.GetPostLikes(s.ctx, s.post.ID, 0)
	s.Require().NoError(err)
	s.Len(likes, n)
}

func (s *EngagementTestSuite) TestToggleLikeReturnsCount() {
	reader := testutil.CreateUser(s.T(), s.db, "reader")

	result, err := s.service.ToggleLike(s.ctx, reader, s.post.ID)
	s.Require().NoError(err)
	s.Equal(&LikeResult{Action: ActionLiked, LikeCount: 1}, result)

	liked, err := s.service.HasUserLiked(s.ctx, reader, s.post.ID)
	s.Require().NoError(err)
	s.True(liked)

	result, err = s.service.ToggleLike(s.ctx, reader, s.post.ID)
	s.Require().NoError(err)
	s.Equal(&LikeResult{Action: ActionUnliked, LikeCount: 0}, result)

	liked, err = s.service.HasUserLiked(s.ctx, nil, s.post.ID)
	s.Require().NoError(err)
	s.False(liked)
}

func (s *EngagementTestSuite) TestToggleLikeErrors() {
	_, err := s.service.ToggleLike(s.ctx, nil, s.post.ID)
	s.True(errors.HasCode(err, errors.ErrUnauthenticated))

	_, err = s.service.ToggleLike(s.ctx, s.author, "missing")
	s.True(errors.HasCode(err, errors.ErrNotFound))
}

func (s *EngagementTestSuite) TestToggleFollowPair() {
	reader := testutil.CreateUser(s.T(), s.db, "reader")

	result, err := s.service.ToggleFollow(s.ctx, reader, s.author.ID)
	s.Require().NoError(err)
	s.Equal(ActionFollowed, result.Action)

	following, err := s.service.IsFollowing(s.ctx, reader, s.author.ID)
	s.Require().NoError(err)
	s.True(following)

	count, err := s.service.GetFollowerCount(s.ctx, s.author.ID)
	s.Require().NoError(err)
	s.Equal(int64(1), count)

	followers, err := s.service.GetMyFollowers(s.ctx, s.author, 0)
	s.Require().NoError(err)
	s.Require().Len(followers, 1)
	s.Equal(reader.ID, followers[0].ID)

	followingList, err := s.service.GetMyFollowing(s.ctx, reader, 0)
	s.Require().NoError(err)
	s.Require().Len(followingList, 1)
	s.Equal(s.author.ID, followingList[0].ID)

	result, err = s.service.ToggleFollow(s.ctx, reader, s.author.ID)
	s.Require().NoError(err)
	s.Equal(ActionUnfollowed, result.Action)

	count, err = s.service.GetFollowerCount(s.ctx, s.author.ID)
	s.Require().NoError(err)
	s.Zero(count)
}

func (s *EngagementTestSuite) TestToggleFollowErrors() {
	_, err := s.service.ToggleFollow(s.ctx, s.author, s.author.ID)
	s.True(errors.HasCode(err, errors.ErrInvalidArgument))

	_, err = s.service.ToggleFollow(s.ctx, s.author, "ghost")
	s.True(errors.HasCode(err, errors.ErrNotFound))

	_, err = s.service.ToggleFollow(s.ctx, nil, s.author.ID)
	s.True(errors.HasCode(err, errors.ErrUnauthenticated))

	followers, err := s.service.GetMyFollowers(s.ctx, nil, 0)
	s.Require().NoError(err)
	s.Empty(followers)
}

func (s *EngagementTestSuite) TestCommentsAddThenDelete() {
	reader := testutil.CreateUser(s.T(), s.db, "reader")

	var ids []string
	for i := 0; i < 3; i++ {
		id, err := s.service.AddComment(s.ctx, reader, s.post.ID, fmt.Sprintf("comment %d", i))
		s.Require().NoError(err)
		ids = append(ids, id)
		time.Sleep(2 * time.Millisecond)
	}

	_, err := s.service.DeleteComment(s.ctx, reader, ids[1])
	s.Require().NoError(err)

	s.Equal(int64(2), s.reloadPost().CommentCount)

	comments, err := s.service.GetPostComments(s.ctx, s.post.ID)
	s.Require().NoError(err)
	s.Require().Len(comments, 2)
	s.Equal(ids[2], comments[0].ID)
	s.Equal(ids[0], comments[1].ID)
	s.Equal("reader", comments[0].AuthorName)
}

func (s *EngagementTestSuite) TestCommentErrors() {
	reader := testutil.CreateUser(s.T(), s.db, "reader")

	_, err := s.service.AddComment(s.ctx, reader, s.post.ID, "   ")
	s.True(errors.HasCode(err, errors.ErrInvalidArgument))

	_, err = s.service.AddComment(s.ctx, reader, "missing", "hi")
	s.True(errors.HasCode(err, errors.ErrNotFound))

	_, err = s.service.AddComment(s.ctx, nil, s.post.ID, "hi")
	s.True(errors.HasCode(err, errors.ErrUnauthenticated))

	id, err := s.service.AddComment(s.ctx, reader, s.post.ID, "mine")
	s.Require().NoError(err)

	_, err = s.service.DeleteComment(s.ctx, s.author, id)
	s.True(errors.HasCode(err, errors.ErrUnauthorized))

	_, err = s.service.DeleteComment(s.ctx, reader, "missing")
	s.True(errors.HasCode(err, errors.ErrNotFound))

	s.Equal(int64(1), s.reloadPost().CommentCount)
}

func (s *EngagementTestSuite) TestReconcileRepairsDrift() {
	reader := testutil.CreateUser(s.T(), s.db, "reader")
	_, err := s.service.ToggleLike(s.ctx, reader, s.post.ID)
	s.Require().NoError(err)
	_, err = s.service.AddComment(s.ctx, reader, s.post.ID, "hello")
	s.Require().NoError(err)

	s.Require().NoError(s.db.Model(&models.Post{}).
		Where("id = ?", s.post.ID).
		UpdateColumns(map[string]interface{}{"like_count": 7, "comment_count": 0}).Error)

	drifted, err := s.service.ReconcileAll(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(drifted, 1)
	s.Equal(Counters{Likes: 7, Comments: 0}, drifted[0].Before)
	s.Equal(Counters{Likes: 1, Comments: 1}, drifted[0].After)

	post := s.reloadPost()
	s.Equal(int64(1), post.LikeCount)
	s.Equal(int64(1), post.CommentCount)

	result, err := s.service.ReconcilePostCounters(s.ctx, s.post.ID)
	s.Require().NoError(err)
	s.False(result.Drifted)
}

func TestEngagementTestSuite(t *testing.T) {
	suite.Run(t, new(EngagementTestSuite))
}
