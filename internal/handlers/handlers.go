package handlers

import (
	"github.com/zfogg/inkwell/backend/internal/auth"
	"github.com/zfogg/inkwell/backend/internal/dashboard"
	"github.com/zfogg/inkwell/backend/internal/engagement"
	"github.com/zfogg/inkwell/backend/internal/feed"
	"github.com/zfogg/inkwell/backend/internal/posts"
	"github.com/zfogg/inkwell/backend/internal/storage"
	"gorm.io/gorm"
)

// Handlers contains all HTTP handlers for the API. Each handler resolves the
// caller from the gin context and passes it to the service explicitly.
type Handlers struct {
	db         *gorm.DB
	resolver   auth.ResolverInterface
	posts      *posts.Service
	engagement *engagement.Service
	feed       *feed.Composer
	dashboard  *dashboard.Aggregator
	uploader   storage.ImageUploader
}

// NewHandlers creates a new handlers instance
func NewHandlers(
	db *gorm.DB,
	resolver auth.ResolverInterface,
	postService *posts.Service,
	engagementService *engagement.Service,
	composer *feed.Composer,
	aggregator *dashboard.Aggregator,
) *Handlers {
	return &Handlers{
		db:         db,
		resolver:   resolver,
		posts:      postService,
		engagement: engagementService,
		feed:       composer,
		dashboard:  aggregator,
	}
}

// SetImageUploader enables image uploads. Without one the upload route reports SERVICE_UNAVAILABLE.
func (h *Handlers) SetImageUploader(uploader storage.ImageUploader) {
	h.uploader = uploader
}
