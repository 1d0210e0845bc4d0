// Package kernel wires the Inkwell backend's dependencies: infrastructure
// registered by the binary, and the domain services built on top of it.
package kernel

import (
	"context"
	stderrors "errors"
	"sync"

	"github.com/zfogg/inkwell/backend/internal/auth"
	"github.com/zfogg/inkwell/backend/internal/cache"
	"github.com/zfogg/inkwell/backend/internal/config"
	"github.com/zfogg/inkwell/backend/internal/dashboard"
	"github.com/zfogg/inkwell/backend/internal/engagement"
	"github.com/zfogg/inkwell/backend/internal/feed"
	"github.com/zfogg/inkwell/backend/internal/handlers"
	"github.com/zfogg/inkwell/backend/internal/logger"
	"github.com/zfogg/inkwell/backend/internal/posts"
	"github.com/zfogg/inkwell/backend/internal/repository"
	"github.com/zfogg/inkwell/backend/internal/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Kernel holds all application dependencies.
// Infrastructure is registered with the With* methods, then Wire builds the services.
type Kernel struct {
	cfg *config.Config

	// Core infrastructure
	db       *gorm.DB
	cache    *cache.RedisClient
	uploader storage.ImageUploader

	// Domain services, built by Wire
	resolver   *auth.Resolver
	posts      *posts.Service
	engagement *engagement.Service
	feed       *feed.Composer
	dashboard  *dashboard.Aggregator

	// Lifecycle hooks, run in reverse order by Shutdown
	cleanupFuncs []func(context.Context) error
	mu           sync.RWMutex
}

// New creates an empty kernel for cfg
func New(cfg *config.Config) *Kernel {
	return &Kernel{cfg: cfg}
}

// WithDB registers the database connection
func (k *Kernel) WithDB(db *gorm.DB) *Kernel {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.db = db
	return k
}

// WithCache registers the Redis client. nil disables caching and the shared rate limiter.
func (k *Kernel) WithCache(client *cache.RedisClient) *Kernel {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.cache = client
	return k
}

// WithImageUploader registers the image store. nil disables uploads.
func (k *Kernel) WithImageUploader(uploader storage.ImageUploader) *Kernel {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.uploader = uploader
	return k
}

// OnShutdown registers a cleanup function
func (k *Kernel) OnShutdown(fn func(context.Context) error) *Kernel {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.cleanupFuncs = append(k.cleanupFuncs, fn)
	return k
}

// Validate checks that all required dependencies are registered
func (k *Kernel) Validate() error {
	k.mu.RLock()
	defer k.mu.RUnlock()

	var missing []string
	if k.cfg == nil {
		missing = append(missing, "config")
	} else if k.cfg.Auth.JWTSecret == "" {
		missing = append(missing, "auth secret")
	}
	if k.db == nil {
		missing = append(missing, "database")
	}
	if len(missing) > 0 {
		return &MissingDependencyError{Deps: missing}
	}

	if k.cache == nil {
		logger.Log.Info("Redis not configured; trending cache and shared rate limits disabled")
	}
	if k.uploader == nil {
		logger.Log.Warn("Image storage not configured; uploads disabled")
	}
	return nil
}

// Wire validates the registered infrastructure and builds the domain services
func (k *Kernel) Wire() error {
	if err := k.Validate(); err != nil {
		return err
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	users := repository.NewUserRepository(k.db)
	postRepo := repository.NewPostRepository(k.db)
	follows := repository.NewFollowRepository(k.db)

	k.resolver = auth.NewResolver([]byte(k.cfg.Auth.JWTSecret), k.cfg.Auth.Issuer, users)
	k.posts = posts.NewService(postRepo, users)
	k.engagement = engagement.NewService(k.db)
	k.feed = feed.NewComposer(postRepo, users, follows, cache.NewManager(k.cache), k.cfg.TrendingCacheTTL)
	k.dashboard = dashboard.NewAggregator(
		postRepo,
		users,
		follows,
		repository.NewCommentRepository(k.db),
		repository.NewEventRepository(k.db),
		k.cfg.DashboardPlaceholderViews,
	)

	logger.Log.Info("Kernel wired",
		zap.Bool("cache", k.cache != nil),
		zap.Bool("uploads", k.uploader != nil),
	)
	return nil
}

// Handlers builds the HTTP handlers from the wired services
func (k *Kernel) Handlers() *handlers.Handlers {
	k.mu.RLock()
	defer k.mu.RUnlock()

	h := handlers.NewHandlers(k.db, k.resolver, k.posts, k.engagement, k.feed, k.dashboard)
	if k.uploader != nil {
		h.SetImageUploader(k.uploader)
	}
	return h
}

// DB returns the database connection
func (k *Kernel) DB() *gorm.DB {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.db
}

// Resolver returns the identity resolver
func (k *Kernel) Resolver() *auth.Resolver {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.resolver
}

// Engagement returns the engagement service
func (k *Kernel) Engagement() *engagement.Service {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.engagement
}

// Shutdown runs cleanup functions in reverse registration order and joins their errors
func (k *Kernel) Shutdown(ctx context.Context) error {
	k.mu.Lock()
	funcs := k.cleanupFuncs
	k.cleanupFuncs = nil
	k.mu.Unlock()

	var errs []error
	for i := len(funcs) - 1; i >= 0; i-- {
		if err := funcs[i](ctx); err != nil {
			logger.Log.Error("Cleanup failed", zap.Error(err))
			errs = append(errs, err)
		}
	}
	return stderrors.Join(errs...)
}
