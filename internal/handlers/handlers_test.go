package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"github.com/zfogg/inkwell/backend/internal/auth"
	"github.com/zfogg/inkwell/backend/internal/dashboard"
	"github.com/zfogg/inkwell/backend/internal/engagement"
	"github.com/zfogg/inkwell/backend/internal/feed"
	"github.com/zfogg/inkwell/backend/internal/models"
	"github.com/zfogg/inkwell/backend/internal/posts"
	"github.com/zfogg/inkwell/backend/internal/repository"
	"github.com/zfogg/inkwell/backend/internal/storage"
	"github.com/zfogg/inkwell/backend/internal/testutil"
	"gorm.io/gorm"
)

var testSecret = []byte("handler-test-secret")

type fakeUploader struct {
	calls int
}

func (f *fakeUploader) UploadImage(_ context.Context, data []byte, userID, fileName string) (*storage.UploadResult, error) {
	f.calls++
	return &storage.UploadResult{
		URL:    "https://cdn.example.com/blog_images/" + userID + "/" + fileName,
		FileID: "file-1",
		Name:   fileName,
		Size:   int64(len(data)),
	}, nil
}

type HandlersTestSuite struct {
	suite.Suite
	db       *gorm.DB
	router   *gin.Engine
	handlers *Handlers
	alice    *models.User
	bob      *models.User
}

func (s *HandlersTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.db = testutil.NewTestDB(s.T())

	users := repository.NewUserRepository(s.db)
	postRepo := repository.NewPostRepository(s.db)
	follows := repository.NewFollowRepository(s.db)

	s.handlers = NewHandlers(
		s.db,
		auth.NewResolver(testSecret, "", users),
		posts.NewService(postRepo, users),
		engagement.NewService(s.db),
		feed.NewComposer(postRepo, users, follows, nil, 0),
		dashboard.NewAggregator(postRepo, users, follows,
			repository.NewCommentRepository(s.db), repository.NewEventRepository(s.db), false),
	)
	s.router = gin.New()
	s.handlers.SetupRoutes(s.router)

	s.alice = testutil.CreateUser(s.T(), s.db, "alice")
	s.bob = testutil.CreateUser(s.T(), s.db, "bob")
}

func (s *HandlersTestSuite) token(subject, name string) string {
	tok, err := auth.SignIdentityToken(testSecret, "", auth.Identity{Subject: subject, Name: name}, time.Hour)
	s.Require().NoError(err)
	return tok
}

func (s *HandlersTestSuite) tokenFor(u *models.User) string {
	return s.token(u.TokenIdentifier, u.Name)
}

func (s *HandlersTestSuite) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *HandlersTestSuite) decode(w *httptest.ResponseRecorder) map[string]interface{} {
	var out map[string]interface{}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (s *HandlersTestSuite) createPost(token, title, status string) string {
	w := s.do(http.MethodPost, "/api/v1/posts", token, map[string]interface{}{
		"title":   title,
		"content": "<p>" + title + "</p>",
		"status":  status,
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	return s.decode(w)["post_id"].(string)
}

func (s *HandlersTestSuite) TestStoreUserAndMe() {
	tok := s.token("token|carol", "Carol")

	w := s.do(http.MethodGet, "/api/v1/users/me", tok, nil)
	s.Equal(http.StatusUnauthorized, w.Code, "identity is not stored yet")

	w = s.do(http.MethodPost, "/api/v1/users/store", tok, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	userID := s.decode(w)["user_id"].(string)

	w = s.do(http.MethodGet, "/api/v1/users/me", tok, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	user := s.decode(w)["user"].(map[string]interface{})
	s.Equal(userID, user["id"])
	s.Equal("Carol", user["name"])

	w = s.do(http.MethodPost, "/api/v1/users/store", "", nil)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *HandlersTestSuite) TestOnboardingRequiresThreeInterests() {
	tok := s.tokenFor(s.alice)
	w := s.do(http.MethodPost, "/api/v1/users/me/onboarding", tok, map[string]interface{}{
		"location":  map[string]string{"city": "Austin", "country": "US"},
		"interests": []string{"music"},
	})
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("interests", s.decode(w)["field"])

	w = s.do(http.MethodPost, "/api/v1/users/me/onboarding", tok, map[string]interface{}{
		"location":  map[string]string{"city": "Austin", "country": "US"},
		"interests": []string{"music", "tech", "food"},
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	user := s.decode(w)["user"].(map[string]interface{})
	s.Equal(true, user["has_completed_onboarding"])
}

func (s *HandlersTestSuite) TestInvalidTokenIsRejected() {
	w := s.do(http.MethodGet, "/api/v1/feed", "not-a-jwt", nil)
	s.Equal(http.StatusUnauthorized, w.Code)
	s.Equal("UNAUTHENTICATED", s.decode(w)["code"])
}

func (s *HandlersTestSuite) TestDraftThenPublishReachesFeed() {
	tok := s.tokenFor(s.alice)
	postID := s.createPost(tok, "Hello World", "draft")

	w := s.do(http.MethodGet, "/api/v1/posts/draft", tok, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal(postID, s.decode(w)["post"].(map[string]interface{})["id"])

	w = s.do(http.MethodGet, "/api/v1/feed", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Empty(s.decode(w)["posts"])

	w = s.do(http.MethodPut, "/api/v1/posts/"+postID, tok, map[string]interface{}{
		"title":   "Hello World",
		"content": "<p>done</p>",
		"status":  "published",
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/api/v1/feed", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	feedPosts := s.decode(w)["posts"].([]interface{})
	s.Require().Len(feedPosts, 1)
	post := feedPosts[0].(map[string]interface{})
	s.Equal("hello-world", post["slug"])

	w = s.do(http.MethodPost, "/api/v1/posts/"+postID+"/view", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal(float64(1), s.decode(w)["view_count"])

	w = s.do(http.MethodGet, "/api/v1/public/alice/posts/hello-world", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal(postID, s.decode(w)["post"].(map[string]interface{})["id"])
}

func (s *HandlersTestSuite) TestPostOwnershipIsNotFound() {
	postID := s.createPost(s.tokenFor(s.alice), "Mine", "published")

	for _, req := range []struct{ method, path string }{
		{http.MethodGet, "/api/v1/posts/" + postID},
		{http.MethodDelete, "/api/v1/posts/" + postID},
	} {
		w := s.do(req.method, req.path, s.tokenFor(s.bob), nil)
		s.Equal(http.StatusNotFound, w.Code, req.method)
		s.Equal("NOT_FOUND", s.decode(w)["code"])
	}

	w := s.do(http.MethodGet, "/api/v1/posts/"+postID, "", nil)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *HandlersTestSuite) TestCreatePostValidation() {
	w := s.do(http.MethodPost, "/api/v1/posts", s.tokenFor(s.alice), map[string]interface{}{
		"title":   "",
		"content": "x",
		"status":  "published",
	})
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("INVALID_ARGUMENT", s.decode(w)["code"])
}

func (s *HandlersTestSuite) TestToggleLike() {
	postID := s.createPost(s.tokenFor(s.alice), "Likeable", "published")
	path := "/api/v1/posts/" + postID + "/like"

	w := s.do(http.MethodPost, path, "", nil)
	s.Equal(http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, path, s.tokenFor(s.bob), nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	body := s.decode(w)
	s.Equal(engagement.ActionLiked, body["action"])
	s.Equal(float64(1), body["like_count"])

	w = s.do(http.MethodGet, path, s.tokenFor(s.bob), nil)
	s.Equal(true, s.decode(w)["liked"])

	w = s.do(http.MethodGet, "/api/v1/posts/"+postID+"/likes", "", nil)
	s.Equal(float64(1), s.decode(w)["count"])

	w = s.do(http.MethodPost, path, s.tokenFor(s.bob), nil)
	body = s.decode(w)
	s.Equal(engagement.ActionUnliked, body["action"])
	s.Equal(float64(0), body["like_count"])

	w = s.do(http.MethodPost, "/api/v1/posts/missing/like", s.tokenFor(s.bob), nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *HandlersTestSuite) TestComments() {
	postID := s.createPost(s.tokenFor(s.alice), "Discuss", "published")
	path := "/api/v1/posts/" + postID + "/comments"

	var ids []string
	for _, text := range []string{"first", "second", "third"} {
		w := s.do(http.MethodPost, path, s.tokenFor(s.bob), map[string]string{"content": text})
		s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
		ids = append(ids, s.decode(w)["comment_id"].(string))
	}

	w := s.do(http.MethodDelete, "/api/v1/comments/"+ids[1], s.tokenFor(s.alice), nil)
	s.Equal(http.StatusForbidden, w.Code)

	w = s.do(http.MethodDelete, "/api/v1/comments/"+ids[1], s.tokenFor(s.bob), nil)
	s.Require().Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodGet, path, "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	body := s.decode(w)
	s.Equal(float64(2), body["count"])
	comments := body["comments"].([]interface{})
	s.Equal("third", comments[0].(map[string]interface{})["content"])

	w = s.do(http.MethodPost, path, s.tokenFor(s.bob), map[string]string{"content": "   "})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlersTestSuite) TestFollow() {
	w := s.do(http.MethodPost, "/api/v1/users/"+s.alice.ID+"/follow", s.tokenFor(s.alice), nil)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("following_id", s.decode(w)["field"])

	w = s.do(http.MethodPost, "/api/v1/users/"+s.alice.ID+"/follow", s.tokenFor(s.bob), nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.Equal(engagement.ActionFollowed, s.decode(w)["action"])

	w = s.do(http.MethodGet, "/api/v1/users/"+s.alice.ID+"/follow", s.tokenFor(s.bob), nil)
	s.Equal(true, s.decode(w)["is_following"])

	w = s.do(http.MethodGet, "/api/v1/users/"+s.alice.ID+"/followers/count", "", nil)
	s.Equal(float64(1), s.decode(w)["follower_count"])

	w = s.do(http.MethodGet, "/api/v1/follows/followers", s.tokenFor(s.alice), nil)
	s.Equal(float64(1), s.decode(w)["count"])

	w = s.do(http.MethodGet, "/api/v1/follows/following", "", nil)
	s.Equal(float64(0), s.decode(w)["count"])
}

func (s *HandlersTestSuite) TestDashboard() {
	tok := s.tokenFor(s.alice)
	s.createPost(tok, "One", "published")
	s.createPost(tok, "Two", "draft")

	w := s.do(http.MethodGet, "/api/v1/dashboard/analytics", "", nil)
	s.Equal(http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodGet, "/api/v1/dashboard/analytics", tok, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	body := s.decode(w)
	s.Equal(float64(1), body["total_posts"])
	s.Equal(float64(1), body["total_drafts"])

	w = s.do(http.MethodGet, "/api/v1/dashboard/daily-views", tok, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Len(s.decode(w)["days"], dashboard.ChartDays)

	w = s.do(http.MethodGet, "/api/v1/dashboard/events/missing", tok, nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *HandlersTestSuite) TestPublicPostsForUnknownUser() {
	w := s.do(http.MethodGet, "/api/v1/public/nobody/posts", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal(float64(0), s.decode(w)["count"])

	w = s.do(http.MethodGet, "/api/v1/public/nobody/posts/anything", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Nil(s.decode(w)["post"])
}

func (s *HandlersTestSuite) upload(fileName string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", fileName)
	s.Require().NoError(err)
	_, err = part.Write([]byte("fake image bytes"))
	s.Require().NoError(err)
	s.Require().NoError(mw.WriteField("fileName", fileName))
	s.Require().NoError(mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/images/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+s.tokenFor(s.alice))
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *HandlersTestSuite) TestUploadImage() {
	w := s.upload("cover.png")
	s.Equal(http.StatusServiceUnavailable, w.Code)

	uploader := &fakeUploader{}
	s.handlers.SetImageUploader(uploader)

	w = s.upload("cover.png")
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	body := s.decode(w)
	s.Equal("file-1", body["file_id"])
	s.Equal("cover.png", body["name"])
	s.Contains(body["url"], s.alice.ID)

	w = s.upload("notes.txt")
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal(1, uploader.calls)
}

func (s *HandlersTestSuite) TestHealth() {
	w := s.do(http.MethodGet, "/health", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	body := s.decode(w)
	s.Equal("healthy", body["status"])
	s.Equal("disabled", body["checks"].(map[string]interface{})["redis"])
}

func TestHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}
