// Package seed fills a development database with fake authors, posts,
// engagement and events.
package seed

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/zfogg/inkwell/backend/internal/engagement"
	"github.com/zfogg/inkwell/backend/internal/logger"
	"github.com/zfogg/inkwell/backend/internal/models"
	"github.com/zfogg/inkwell/backend/internal/posts"
	"github.com/zfogg/inkwell/backend/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Options sizes the generated data set
type Options struct {
	Users           int
	PostsPerUser    int
	MaxLikesPerPost int
	CommentsPerPost int
	FollowsPerUser  int
	Events          int
	// DraftRatio is the share of posts left as drafts, between 0 and 1
	DraftRatio float64
}

// DevOptions is a data set large enough for the feed and dashboard to look alive
func DevOptions() Options {
	return Options{
		Users:           40,
		PostsPerUser:    6,
		MaxLikesPerPost: 15,
		CommentsPerPost: 4,
		FollowsPerUser:  8,
		Events:          5,
		DraftRatio:      0.2,
	}
}

// Summary counts what a seeding run created
type Summary struct {
	Users         int `json:"users"`
	Posts         int `json:"posts"`
	Likes         int `json:"likes"`
	Comments      int `json:"comments"`
	Follows       int `json:"follows"`
	Events        int `json:"events"`
	Registrations int `json:"registrations"`
}

// Seeder writes through the domain services so denormalized counters stay
// consistent with the ledgers
type Seeder struct {
	db         *gorm.DB
	users      repository.UserRepository
	events     repository.EventRepository
	posts      *posts.Service
	engagement *engagement.Service
	rng        *rand.Rand
	now        time.Time
}

// NewSeeder creates a seeder. The same seed produces the same choices.
func NewSeeder(db *gorm.DB, seed int64) *Seeder {
	_ = gofakeit.Seed(seed)
	users := repository.NewUserRepository(db)
	return &Seeder{
		db:         db,
		users:      users,
		events:     repository.NewEventRepository(db),
		posts:      posts.NewService(repository.NewPostRepository(db), users),
		engagement: engagement.NewService(db),
		rng:        rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>1)),
		now:        time.Now().UTC(),
	}
}

// Seed generates the data set described by opts
func (s *Seeder) Seed(ctx context.Context, opts Options) (*Summary, error) {
	summary := &Summary{}

	logger.Log.Info("Creating users...")
	users, err := s.seedUsers(ctx, opts.Users)
	if err != nil {
		return nil, fmt.Errorf("failed to seed users: %w", err)
	}
	summary.Users = len(users)

	logger.Log.Info("Creating posts...")
	published, err := s.seedPosts(ctx, users, opts, summary)
	if err != nil {
		return nil, fmt.Errorf("failed to seed posts: %w", err)
	}

	logger.Log.Info("Creating likes and comments...")
	if err := s.seedEngagement(ctx, users, published, opts, summary); err != nil {
		return nil, fmt.Errorf("failed to seed engagement: %w", err)
	}

	logger.Log.Info("Creating follows...")
	if err := s.seedFollows(ctx, users, opts.FollowsPerUser, summary); err != nil {
		return nil, fmt.Errorf("failed to seed follows: %w", err)
	}

	logger.Log.Info("Creating events...")
	if err := s.seedEvents(ctx, users, opts.Events, summary); err != nil {
		return nil, fmt.Errorf("failed to seed events: %w", err)
	}

	logger.Log.Info("Seeding complete",
		zap.Int("users", summary.Users),
		zap.Int("posts", summary.Posts),
		zap.Int("likes", summary.Likes),
		zap.Int("comments", summary.Comments),
		zap.Int("follows", summary.Follows),
		zap.Int("events", summary.Events),
	)
	return summary, nil
}

// Clean deletes every row the seeder can create, children first
func (s *Seeder) Clean(ctx context.Context) error {
	tables := []string{"registrations", "events", "comments", "likes", "follows", "posts", "users"}
	for _, table := range tables {
		if err := s.db.WithContext(ctx).Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clean %s: %w", table, err)
		}
	}
	return nil
}

func (s *Seeder) seedUsers(ctx context.Context, count int) ([]*models.User, error) {
	interests := []string{"music", "tech", "food", "travel", "design", "sports", "books", "film"}

	users := make([]*models.User, 0, count)
	for i := 0; i < count; i++ {
		user := &models.User{
			TokenIdentifier: "seed|" + gofakeit.UUID(),
			Name:            gofakeit.Username(),
			Email:           gofakeit.Email(),
			ImageURL:        fmt.Sprintf("https://i.pravatar.cc/150?u=%d", i),
			CreatedAt:       s.pastTime(90 * 24 * time.Hour),
		}
		if s.rng.Float64() < 0.7 {
			user.HasCompletedOnboarding = true
			user.Location = &models.Location{City: gofakeit.City(), Country: gofakeit.Country()}
			user.Interests = s.pick(interests, 3+s.rng.IntN(3))
		}
		if err := s.users.CreateUser(ctx, user); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func (s *Seeder) seedPosts(ctx context.Context, users []*models.User, opts Options, summary *Summary) ([]string, error) {
	categories := []string{"Engineering", "Culture", "Travel", "Food", "Music"}

	var published []string
	for _, author := range users {
		for i := 0; i < opts.PostsPerUser; i++ {
			status := models.PostStatusPublished
			if s.rng.Float64() < opts.DraftRatio {
				status = models.PostStatusDraft
			}
			category := categories[s.rng.IntN(len(categories))]

			postID, err := s.posts.Create(ctx, author, posts.PostInput{
				Title:    s.title(),
				Content:  s.content(),
				Category: &category,
				Tags:     []string{strings.ToLower(gofakeit.Word()), strings.ToLower(gofakeit.Word())},
				Status:   status,
			})
			if err != nil {
				return nil, err
			}

			// Spread posts over the last two weeks so trending has a window to cut
			err = s.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", postID).
				UpdateColumns(map[string]interface{}{
					"created_at": s.pastTime(14 * 24 * time.Hour),
					"view_count": s.rng.IntN(500),
				}).Error
			if err != nil {
				return nil, err
			}

			summary.Posts++
			if status == models.PostStatusPublished {
				published = append(published, postID)
			}
		}
	}
	return published, nil
}

func (s *Seeder) seedEngagement(ctx context.Context, users []*models.User, postIDs []string, opts Options, summary *Summary) error {
	for _, postID := range postIDs {
		likers := s.rng.IntN(min(opts.MaxLikesPerPost, len(users)) + 1)
		for _, idx := range s.rng.Perm(len(users))[:likers] {
			if _, err := s.engagement.ToggleLike(ctx, users[idx], postID); err != nil {
				return err
			}
			summary.Likes++
		}

		for i := 0; i < opts.CommentsPerPost; i++ {
			author := users[s.rng.IntN(len(users))]
			if _, err := s.engagement.AddComment(ctx, author, postID, gofakeit.HipsterSentence()); err != nil {
				return err
			}
			summary.Comments++
		}
	}
	return nil
}

func (s *Seeder) seedFollows(ctx context.Context, users []*models.User, perUser int, summary *Summary) error {
	if len(users) < 2 {
		return nil
	}
	for _, follower := range users {
		targets := 0
		for _, idx := range s.rng.Perm(len(users)) {
			if targets >= perUser {
				break
			}
			target := users[idx]
			if target.ID == follower.ID {
				continue
			}
			if _, err := s.engagement.ToggleFollow(ctx, follower, target.ID); err != nil {
				return err
			}
			targets++
			summary.Follows++
		}
	}
	return nil
}

func (s *Seeder) seedEvents(ctx context.Context, users []*models.User, count int, summary *Summary) error {
	if len(users) == 0 {
		return nil
	}
	for i := 0; i < count; i++ {
		organizer := users[s.rng.IntN(len(users))]
		start := s.now.Add(time.Duration(s.rng.IntN(30*24)-7*24) * time.Hour)

		event := &models.Event{
			Title:         s.title(),
			Description:   s.content(),
			OrganizerID:   organizer.ID,
			OrganizerName: organizer.Name,
			Category:      "Meetup",
			StartDate:     start,
			EndDate:       start.Add(3 * time.Hour),
			Timezone:      "UTC",
			LocationType:  models.LocationPhysical,
			City:          gofakeit.City(),
			Country:       gofakeit.Country(),
			Capacity:      20 + s.rng.IntN(80),
			TicketType:    models.TicketTypeFree,
		}
		if s.rng.IntN(2) == 0 {
			price := float64(5 + s.rng.IntN(45))
			event.TicketType = models.TicketTypePaid
			event.TicketPrice = &price
		}
		if err := s.events.CreateEvent(ctx, event); err != nil {
			return err
		}
		summary.Events++

		attendees := s.rng.IntN(min(event.Capacity, len(users)) + 1)
		for _, idx := range s.rng.Perm(len(users))[:attendees] {
			user := users[idx]
			registration := &models.Registration{
				EventID:       event.ID,
				UserID:        user.ID,
				AttendeeName:  user.Name,
				AttendeeEmail: user.Email,
				Status:        models.RegistrationConfirmed,
			}
			if start.Before(s.now) && s.rng.Float64() < 0.6 {
				checkedInAt := start.Add(15 * time.Minute)
				registration.CheckedIn = true
				registration.CheckedInAt = &checkedInAt
			}
			if err := s.events.CreateRegistration(ctx, registration); err != nil {
				return err
			}
			summary.Registrations++
		}
	}
	return nil
}

func (s *Seeder) title() string {
	return strings.TrimSuffix(gofakeit.HipsterSentence(), ".")
}

func (s *Seeder) content() string {
	var b strings.Builder
	for i := 0; i < 3; i++ {
		b.WriteString("<p>")
		b.WriteString(gofakeit.HipsterSentence())
		b.WriteString(" ")
		b.WriteString(gofakeit.HipsterSentence())
		b.WriteString("</p>")
	}
	return b.String()
}

// pastTime returns a random instant within span before now
func (s *Seeder) pastTime(span time.Duration) time.Time {
	return s.now.Add(-time.Duration(s.rng.Int64N(int64(span))))
}

func (s *Seeder) pick(values []string, n int) []string {
	n = min(n, len(values))
	out := make([]string, 0, n)
	for _, idx := range s.rng.Perm(len(values))[:n] {
		out = append(out, values[idx])
	}
	return out
}
