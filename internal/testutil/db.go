// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/zfogg/inkwell/backend/internal/database"
	"github.com/zfogg/inkwell/backend/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbCounter atomic.Int64

// NewTestDB opens a private in-memory SQLite database with the full schema migrated.
// Each call gets its own database; it is closed when the test ends.
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return '_'
	}, t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, dbCounter.Add(1))

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return db
}

// CreateUser inserts a user with the given display name
func CreateUser(t testing.TB, db *gorm.DB, name string) *models.User {
	t.Helper()
	u := &models.User{
		TokenIdentifier: "token|" + name,
		Email:           strings.ToLower(name) + "@example.com",
		Name:            name,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

// PostOption customizes a post created by CreatePost
type PostOption func(*models.Post)

// WithStatus sets the post status
func WithStatus(status models.PostStatus) PostOption {
	return func(p *models.Post) { p.Status = status }
}

// WithCreatedAt pins the creation time
func WithCreatedAt(at time.Time) PostOption {
	return func(p *models.Post) { p.CreatedAt = at }
}

// WithCounts sets the denormalized engagement counters
func WithCounts(views, likes, comments int64) PostOption {
	return func(p *models.Post) {
		p.ViewCount = views
		p.LikeCount = likes
		p.CommentCount = comments
	}
}

// CreatePost inserts a published post by author; options override defaults
func CreatePost(t testing.TB, db *gorm.DB, author *models.User, title string, opts ...PostOption) *models.Post {
	t.Helper()
	p := &models.Post{
		Title:      title,
		Content:    "<p>" + title + "</p>",
		Slug:       strings.ToLower(strings.ReplaceAll(title, " ", "-")),
		AuthorID:   author.ID,
		AuthorName: author.Name,
		Status:     models.PostStatusPublished,
	}
	for _, opt := range opts {
		opt(p)
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

// Follow records follower -> following
func Follow(t testing.TB, db *gorm.DB, follower, following *models.User) *models.Follow {
	t.Helper()
	f := &models.Follow{FollowerID: follower.ID, FollowingID: following.ID}
	require.NoError(t, db.Create(f).Error)
	return f
}
