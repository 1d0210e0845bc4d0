package feed

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/zfogg/inkwell/backend/internal/models"
	"github.com/zfogg/inkwell/backend/internal/posts"
	"github.com/zfogg/inkwell/backend/internal/repository"
	"github.com/zfogg/inkwell/backend/internal/testutil"
	"gorm.io/gorm"
)

type FeedTestSuite struct {
	suite.Suite
	db       *gorm.DB
	composer *Composer
	ctx      context.Context
	now      time.Time
}

func (s *FeedTestSuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.composer = NewComposer(
		repository.NewPostRepository(s.db),
		repository.NewUserRepository(s.db),
		repository.NewFollowRepository(s.db),
		nil,
		0,
	)
	s.now = time.Now().UTC()
	s.composer.now = func() time.Time { return s.now }
	s.ctx = context.Background()
}

func (s *FeedTestSuite) postIDs(result *Result) []string {
	ids := make([]string, 0, len(result.Posts))
	for _, p := range result.Posts {
		ids = append(ids, p.ID)
	}
	return ids
}

func (s *FeedTestSuite) TestAnonymousAndFollowNobodyMatch() {
	author := testutil.CreateUser(s.T(), s.db, "author")
	loner := testutil.CreateUser(s.T(), s.db, "loner")
	for i := 0; i < 4; i++ {
		testutil.CreatePost(s.T(), s.db, author, fmt.Sprintf("Post %d", i),
			testutil.WithCreatedAt(s.now.Add(-time.Duration(i)*time.Minute)))
	}
	testutil.CreatePost(s.T(), s.db, author, "Draft", testutil.WithStatus(models.PostStatusDraft))

	anonymous, err := s.composer.GetFeed(s.ctx, nil, 3, "")
	s.Require().NoError(err)
	personal, err := s.composer.GetFeed(s.ctx, loner, 3, "")
	s.Require().NoError(err)

	s.Equal(s.postIDs(anonymous), s.postIDs(personal))
	s.Len(anonymous.Posts, 3)
	s.True(anonymous.HasMore)
	s.Equal("Post 0", anonymous.Posts[0].Title)

	all, err := s.composer.GetFeed(s.ctx, nil, 10, "")
	s.Require().NoError(err)
	s.Len(all.Posts, 4)
	s.False(all.HasMore)
}

func (s *FeedTestSuite) TestFeedOnlyShowsFollowedAuthors() {
	reader := testutil.CreateUser(s.T(), s.db, "reader")
	followed := testutil.CreateUser(s.T(), s.db, "followed")
	stranger := testutil.CreateUser(s.T(), s.db, "stranger")
	testutil.Follow(s.T(), s.db, reader, followed)

	mine := testutil.CreatePost(s.T(), s.db, followed, "From Followed")
	testutil.CreatePost(s.T(), s.db, stranger, "From Stranger")

	result, err := s.composer.GetFeed(s.ctx, reader, 0, "")
	s.Require().NoError(err)
	s.Equal([]string{mine.ID}, s.postIDs(result))
	s.False(result.HasMore)
}

func (s *FeedTestSuite) TestDraftToPublishedScenario() {
	author := testutil.CreateUser(s.T(), s.db, "author")
	follower := testutil.CreateUser(s.T(), s.db, "follower")
	testutil.Follow(s.T(), s.db, follower, author)

	store := posts.NewService(repository.NewPostRepository(s.db), repository.NewUserRepository(s.db))
	id, err := store.Create(s.ctx, author, posts.PostInput{
		Title:   "Work In Progress",
		Content: "<p>soon</p>",
		Status:  models.PostStatusDraft,
	})
	s.Require().NoError(err)

	draft, err := store.GetUserDraft(s.ctx, author)
	s.Require().NoError(err)
	s.Require().NotNil(draft)
	s.Equal(id, draft.ID)

	result, err := s.composer.GetFeed(s.ctx, follower, 0, "")
	s.Require().NoError(err)
	s.Empty(result.Posts)

	_, err = store.Update(s.ctx, author, id, posts.PostInput{
		Title:   "Work In Progress",
		Content: "<p>done</p>",
		Status:  models.PostStatusPublished,
	})
	s.Require().NoError(err)

	result, err = s.composer.GetFeed(s.ctx, follower, 0, "")
	s.Require().NoError(err)
	s.Equal([]string{id}, s.postIDs(result))

	draft, err = store.GetUserDraft(s.ctx, author)
	s.Require().NoError(err)
	s.Nil(draft)
}

func (s *FeedTestSuite) TestTrending() {
	author := testutil.CreateUser(s.T(), s.db, "author")
	hot := testutil.CreatePost(s.T(), s.db, author, "Hot",
		testutil.WithCounts(10, 3, 2), testutil.WithCreatedAt(s.now.Add(-48*time.Hour)))
	warm := testutil.CreatePost(s.T(), s.db, author, "Warm",
		testutil.WithCounts(5, 0, 0), testutil.WithCreatedAt(s.now.Add(-time.Hour)))
	testutil.CreatePost(s.T(), s.db, author, "Stale",
		testutil.WithCounts(1000, 0, 0), testutil.WithCreatedAt(s.now.Add(-8*24*time.Hour)))
	testutil.CreatePost(s.T(), s.db, author, "Hidden Draft",
		testutil.WithStatus(models.PostStatusDraft), testutil.WithCounts(500, 0, 0))

	trending, err := s.composer.GetTrendingPosts(s.ctx, 0)
	s.Require().NoError(err)
	s.Require().Len(trending, 2)
	s.Equal(hot.ID, trending[0].ID)
	s.Equal(int64(22), trending[0].EngagementScore)
	s.Equal(warm.ID, trending[1].ID)

	top, err := s.composer.GetTrendingPosts(s.ctx, 1)
	s.Require().NoError(err)
	s.Len(top, 1)
}

func (s *FeedTestSuite) TestSuggestedUsersAnonymous() {
	older := testutil.CreateUser(s.T(), s.db, "older")
	time.Sleep(2 * time.Millisecond)
	newer := testutil.CreateUser(s.T(), s.db, "newer")
	testutil.CreatePost(s.T(), s.db, older, "Post")
	testutil.Follow(s.T(), s.db, newer, older)

	suggestions := s.composer.GetSuggestedUsers(s.ctx, nil, 0)
	s.Require().Len(suggestions, 2)
	s.Equal(newer.ID, suggestions[0].ID)
	s.Equal(older.ID, suggestions[1].ID)
	s.Equal(int64(1), suggestions[1].PostCount)
	s.Equal(int64(1), suggestions[1].FollowerCount)
	s.Empty(suggestions[1].RecentPosts)
	s.Nil(suggestions[1].ActivityScore)
}

func (s *FeedTestSuite) TestSuggestedUsersAuthenticated() {
	me := testutil.CreateUser(s.T(), s.db, "me")
	alreadyFollowed := testutil.CreateUser(s.T(), s.db, "followed")
	quiet := testutil.CreateUser(s.T(), s.db, "quiet")
	busy := testutil.CreateUser(s.T(), s.db, "busy")
	testutil.Follow(s.T(), s.db, me, alreadyFollowed)

	testutil.CreatePost(s.T(), s.db, busy, "One")
	latest := testutil.CreatePost(s.T(), s.db, busy, "Two", testutil.WithCreatedAt(s.now.Add(time.Minute)))
	testutil.Follow(s.T(), s.db, quiet, busy)

	suggestions := s.composer.GetSuggestedUsers(s.ctx, me, 0)
	s.Require().Len(suggestions, 2)

	s.Equal(busy.ID, suggestions[0].ID)
	s.Require().NotNil(suggestions[0].ActivityScore)
	s.Equal(int64(3), *suggestions[0].ActivityScore)
	s.Require().Len(suggestions[0].RecentPosts, 1)
	s.Equal(latest.ID, suggestions[0].RecentPosts[0].ID)

	s.Equal(quiet.ID, suggestions[1].ID)
	s.Equal(int64(0), *suggestions[1].ActivityScore)
}

func TestFeedTestSuite(t *testing.T) {
	suite.Run(t, new(FeedTestSuite))
}

func TestRankTrendingTieBreaks(t *testing.T) {
	now := time.Now().UTC()
	a := &models.Post{ID: "b", ViewCount: 5, CreatedAt: now}
	b := &models.Post{ID: "a", ViewCount: 5, CreatedAt: now}
	c := &models.Post{ID: "c", ViewCount: 5, CreatedAt: now.Add(time.Second)}

	ranked := RankTrending([]*models.Post{a, b, c}, 10)
	ids := []string{ranked[0].ID, ranked[1].ID, ranked[2].ID}
	assert.Equal(t, []string{"c", "a", "b"}, ids)
}
